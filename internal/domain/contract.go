package domain

import (
	"context"
	"errors"
	"fmt"
)

// Network is a Stacks network variant.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkDevnet  Network = "devnet"
)

// ParseNetwork validates a configured network name.
func ParseNetwork(s string) (Network, error) {
	switch n := Network(s); n {
	case NetworkMainnet, NetworkTestnet, NetworkDevnet:
		return n, nil
	}
	return "", fmt.Errorf("%w: unknown network %q", ErrInvalidInput, s)
}

// PostConditionMode controls whether the transaction asserts balance changes.
type PostConditionMode string

const (
	PostConditionAllow PostConditionMode = "allow"
)

// Contract names and functions called by the application.
const (
	ContractToken         = "sbtc-token"
	ContractEvent         = "event"
	ContractPaymentStream = "payment-stream"

	FunctionMint             = "mint"
	FunctionCreateEvent      = "create-event"
	FunctionRegisterAndStake = "register-and-stake"
	FunctionMarkAttendance   = "mark-attendance"
	FunctionRefund           = "refund"
)

// CallStatus is the terminal state of a wallet interaction.
type CallStatus string

const (
	CallFinished  CallStatus = "finished"
	CallCancelled CallStatus = "cancelled"
	CallFailed    CallStatus = "failed"
)

// CallOutcome is the structured result of a contract call.
// Err is set only when Status is CallFailed.
// swagger:model CallOutcome
type CallOutcome struct {
	Status CallStatus `json:"status"`
	TxID   string     `json:"tx_id,omitempty"`
	Err    error      `json:"-"`
}

// Finished reports whether the wallet broadcast the transaction.
func (o CallOutcome) Finished() bool { return o.Status == CallFinished }

// Cancelled reports whether the user dismissed the wallet prompt.
func (o CallOutcome) Cancelled() bool { return o.Status == CallCancelled }

// AsError returns nil unless the call failed. Failures that carry one of the
// input or session sentinels are returned as is; anything else is wrapped
// with ErrCallFailed.
func (o CallOutcome) AsError() error {
	if o.Status != CallFailed {
		return nil
	}
	if o.Err == nil {
		return ErrCallFailed
	}
	for _, known := range []error{ErrInvalidInput, ErrNotConnected, ErrCallInFlight, ErrCallFailed} {
		if errors.Is(o.Err, known) {
			return o.Err
		}
	}
	return fmt.Errorf("%w: %w", ErrCallFailed, o.Err)
}

// ArgKind is the contract type a UI-level primitive is marshaled into.
type ArgKind int

const (
	ArgUInt ArgKind = iota
	ArgBool
	ArgStringASCII
	ArgPrincipal
)

// Arg is a UI-level primitive destined for a contract argument.
type Arg struct {
	Kind ArgKind
	UInt uint64
	Bool bool
	Text string
}

func UIntArg(n uint64) Arg { return Arg{Kind: ArgUInt, UInt: n} }
func BoolArg(b bool) Arg { return Arg{Kind: ArgBool, Bool: b} }
func ASCIIArg(s string) Arg { return Arg{Kind: ArgStringASCII, Text: s} }
func PrincipalArg(addr string) Arg { return Arg{Kind: ArgPrincipal, Text: addr} }


// ContractCall is a call to a named contract function with ordered arguments.
// Network, ContractAddress and PostConditionMode default to the caller's
// configuration when empty.
type ContractCall struct {
	Network           Network
	ContractAddress   string
	ContractName      string
	FunctionName      string
	Args              []Arg
	PostConditionMode PostConditionMode
}

// ContractCaller marshals and dispatches contract calls for a session.
type ContractCaller interface {
	Call(ctx context.Context, session *Session, call ContractCall) CallOutcome
}

// ContractCallRequest is the wire form handed to the wallet for signing.
type ContractCallRequest struct {
	Network           Network           `json:"network"`
	ContractAddress   string            `json:"contractAddress"`
	ContractName      string            `json:"contractName"`
	FunctionName      string            `json:"functionName"`
	FunctionArgs      []string          `json:"functionArgs"`
	PostConditionMode PostConditionMode `json:"postConditionMode"`
	SenderAddress     string            `json:"senderAddress,omitempty"`
}

// AppDetails identifies the application to the wallet on connect.
type AppDetails struct {
	Name    string `json:"name"`
	IconURL string `json:"icon"`
}

// WalletConnection is the wallet's answer to a connect prompt.
type WalletConnection struct {
	Cancelled bool
	Addresses Addresses
}

// WalletSubmission is the wallet's answer to a contract call prompt.
type WalletSubmission struct {
	Cancelled bool
	TxID      string
}

// Wallet is the external signing service.
type Wallet interface {
	Connect(ctx context.Context, app AppDetails) (WalletConnection, error)
	SubmitContractCall(ctx context.Context, req ContractCallRequest) (WalletSubmission, error)
}
