package wallet

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"kickback/internal/domain"
)

// Config holds configuration for creating a wallet.
type Config struct {
	Provider string
	URL      string
	// DevAddresses are returned by the noop wallet on connect.
	DevAddresses domain.Addresses
}

// NewWallet creates a wallet from config. Provider "bridge" talks to a wallet
// signer over HTTP; "noop" or unknown approves every prompt in process.
func NewWallet(config Config, client *http.Client, logger *slog.Logger) (domain.Wallet, error) {
	switch config.Provider {
	case "bridge":
		if config.URL == "" {
			return nil, fmt.Errorf("wallet bridge requires a URL")
		}
		if client == nil {
			client = http.DefaultClient
		}
		return &bridgeWallet{
			client:  client,
			baseURL: strings.TrimSuffix(config.URL, "/"),
		}, nil
	case "noop":
		return &noopWallet{addrs: config.DevAddresses, logger: logger}, nil
	default:
		logger.Warn("unknown wallet provider, using noop", "provider", config.Provider)
		return &noopWallet{addrs: config.DevAddresses, logger: logger}, nil
	}
}

const (
	statusFinished  = "finished"
	statusCancelled = "cancelled"
)

type bridgeConnectResponse struct {
	Status    string           `json:"status"`
	Addresses domain.Addresses `json:"addresses"`
}

type bridgeCallResponse struct {
	Status string `json:"status"`
	TxID   string `json:"txId"`
	Error  string `json:"error"`
}

type bridgeWallet struct {
	client  *http.Client
	baseURL string
}

func (b *bridgeWallet) Connect(ctx context.Context, app domain.AppDetails) (domain.WalletConnection, error) {
	var resp bridgeConnectResponse
	if err := b.post(ctx, "/connect", app, &resp); err != nil {
		return domain.WalletConnection{}, err
	}
	switch resp.Status {
	case statusCancelled:
		return domain.WalletConnection{Cancelled: true}, nil
	case statusFinished:
		if resp.Addresses.Mainnet == "" && resp.Addresses.Devnet == "" {
			return domain.WalletConnection{}, fmt.Errorf("wallet connected without addresses")
		}
		return domain.WalletConnection{Addresses: resp.Addresses}, nil
	}
	return domain.WalletConnection{}, fmt.Errorf("unexpected wallet status %q", resp.Status)
}

func (b *bridgeWallet) SubmitContractCall(ctx context.Context, req domain.ContractCallRequest) (domain.WalletSubmission, error) {
	var resp bridgeCallResponse
	if err := b.post(ctx, "/contract-call", req, &resp); err != nil {
		return domain.WalletSubmission{}, err
	}
	switch resp.Status {
	case statusCancelled:
		return domain.WalletSubmission{Cancelled: true}, nil
	case statusFinished:
		if resp.TxID == "" {
			return domain.WalletSubmission{}, fmt.Errorf("wallet finished without a transaction id")
		}
		return domain.WalletSubmission{TxID: resp.TxID}, nil
	}
	if resp.Error != "" {
		return domain.WalletSubmission{}, fmt.Errorf("wallet rejected call: %s", resp.Error)
	}
	return domain.WalletSubmission{}, fmt.Errorf("unexpected wallet status %q", resp.Status)
}

func (b *bridgeWallet) post(ctx context.Context, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode wallet request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("wallet request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wallet returned status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode wallet response: %w", err)
	}
	return nil
}

type noopWallet struct {
	addrs  domain.Addresses
	logger *slog.Logger
}

func (n *noopWallet) Connect(ctx context.Context, app domain.AppDetails) (domain.WalletConnection, error) {
	n.logger.InfoContext(ctx, "wallet connect approved (noop)", "app", app.Name)
	return domain.WalletConnection{Addresses: n.addrs}, nil
}

func (n *noopWallet) SubmitContractCall(ctx context.Context, req domain.ContractCallRequest) (domain.WalletSubmission, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return domain.WalletSubmission{}, fmt.Errorf("generate tx id: %w", err)
	}
	txID := "0x" + hex.EncodeToString(b[:])
	n.logger.InfoContext(ctx, "contract call approved (noop)",
		"contract", req.ContractName, "function", req.FunctionName, "tx_id", txID)
	return domain.WalletSubmission{TxID: txID}, nil
}
