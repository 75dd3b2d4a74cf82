package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"kickback/internal/clarity"
	"kickback/internal/domain"
	"kickback/internal/monitoring"
)

// ContractDefaults are applied to calls that leave the fields empty.
type ContractDefaults struct {
	Network           domain.Network
	ContractAddress   string
	PostConditionMode domain.PostConditionMode
}

type contractCaller struct {
	wallet   domain.Wallet
	defaults ContractDefaults
	logger   *slog.Logger
	monitor  *monitoring.Monitor

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewContractCaller creates a ContractCaller that signs through wallet.
func NewContractCaller(wallet domain.Wallet, defaults ContractDefaults, logger *slog.Logger, monitor *monitoring.Monitor) domain.ContractCaller {
	return &contractCaller{
		wallet:   wallet,
		defaults: defaults,
		logger:   logger,
		monitor:  monitor,
		inFlight: make(map[string]struct{}),
	}
}

func (c *contractCaller) Call(ctx context.Context, session *domain.Session, call domain.ContractCall) domain.CallOutcome {
	start := time.Now()
	outcome := c.call(ctx, session, call)
	c.monitor.TrackContractCall(call.ContractName, call.FunctionName, string(outcome.Status), time.Since(start))
	return outcome
}

func (c *contractCaller) call(ctx context.Context, session *domain.Session, call domain.ContractCall) domain.CallOutcome {
	log := c.logger.With("contract", call.ContractName, "function", call.FunctionName)
	sender, ok := session.CurrentAddress()
	if !ok {
		return failed(domain.ErrNotConnected)
	}

	req, args, err := c.marshal(call)
	if err != nil {
		log.ErrorContext(ctx, "contract call marshaling failed", "err", err)
		return failed(err)
	}
	req.SenderAddress = sender
	log = log.With("args", args)

	key := session.ID + "|" + req.ContractAddress + "." + req.ContractName + "::" + req.FunctionName + "(" + strings.Join(req.FunctionArgs, ",") + ")"
	if !c.acquire(key) {
		log.WarnContext(ctx, "duplicate contract call rejected", "session_id", session.ID)
		return failed(domain.ErrCallInFlight)
	}
	defer c.release(key)

	sub, err := c.wallet.SubmitContractCall(ctx, req)
	if err != nil {
		log.ErrorContext(ctx, "contract call failed", "err", err)
		return failed(fmt.Errorf("%s.%s: %w", call.ContractName, call.FunctionName, err))
	}
	if sub.Cancelled {
		log.InfoContext(ctx, "contract call cancelled")
		return domain.CallOutcome{Status: domain.CallCancelled}
	}
	log.InfoContext(ctx, "contract call broadcast", "tx_id", sub.TxID)
	return domain.CallOutcome{Status: domain.CallFinished, TxID: sub.TxID}
}

// marshal applies the defaults and serializes the arguments. It also returns
// the arguments in Clarity literal form for logging.
func (c *contractCaller) marshal(call domain.ContractCall) (domain.ContractCallRequest, []string, error) {
	req := domain.ContractCallRequest{
		Network:           call.Network,
		ContractAddress:   call.ContractAddress,
		ContractName:      call.ContractName,
		FunctionName:      call.FunctionName,
		PostConditionMode: call.PostConditionMode,
		FunctionArgs:      make([]string, 0, len(call.Args)),
	}
	if req.Network == "" {
		req.Network = c.defaults.Network
	}
	if req.ContractAddress == "" {
		req.ContractAddress = c.defaults.ContractAddress
	}
	if req.PostConditionMode == "" {
		req.PostConditionMode = c.defaults.PostConditionMode
	}
	if req.ContractName == "" || req.FunctionName == "" {
		return req, nil, fmt.Errorf("%w: contract and function are required", domain.ErrInvalidInput)
	}
	args := make([]string, 0, len(call.Args))
	for i, arg := range call.Args {
		v, err := MarshalArg(arg)
		if err != nil {
			return req, nil, fmt.Errorf("argument %d: %w", i, err)
		}
		req.FunctionArgs = append(req.FunctionArgs, clarity.Hex(v))
		args = append(args, v.String())
	}
	return req, args, nil
}

// MarshalArg maps a UI-level primitive to its Clarity value.
func MarshalArg(arg domain.Arg) (clarity.Value, error) {
	switch arg.Kind {
	case domain.ArgUInt:
		return clarity.UInt(arg.UInt), nil
	case domain.ArgBool:
		return clarity.Bool(arg.Bool), nil
	case domain.ArgStringASCII:
		v, err := clarity.StringASCII(arg.Text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return v, nil
	case domain.ArgPrincipal:
		v, err := clarity.Principal(arg.Text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: unknown argument kind %d", domain.ErrInvalidInput, arg.Kind)
}

func (c *contractCaller) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[key]; busy {
		return false
	}
	c.inFlight[key] = struct{}{}
	return true
}

func (c *contractCaller) release(key string) {
	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()
}

func failed(err error) domain.CallOutcome {
	return domain.CallOutcome{Status: domain.CallFailed, Err: err}
}
