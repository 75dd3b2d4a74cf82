package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"kickback/internal/domain"
	"kickback/internal/monitoring"
)

// eventRefresher is the part of the event board that other flows trigger
// after a successful mutation.
type eventRefresher interface {
	Refresh(ctx context.Context) domain.Board
}

type onboardingService struct {
	caller  domain.ContractCaller
	events  eventRefresher
	logger  *slog.Logger
	monitor *monitoring.Monitor

	mu       sync.Mutex
	progress map[string]*domain.OnboardingProgress
}

// NewOnboardingService creates the onboarding state machine. Progress is kept
// in memory per session id.
func NewOnboardingService(caller domain.ContractCaller, events eventRefresher, logger *slog.Logger, monitor *monitoring.Monitor) domain.OnboardingService {
	return &onboardingService{
		caller:   caller,
		events:   events,
		logger:   logger,
		monitor:  monitor,
		progress: make(map[string]*domain.OnboardingProgress),
	}
}

// entry returns the progress record for id. Caller must hold mu.
func (s *onboardingService) entry(id string) *domain.OnboardingProgress {
	p, ok := s.progress[id]
	if !ok {
		p = &domain.OnboardingProgress{}
		s.progress[id] = p
	}
	return p
}

func (s *onboardingService) Progress(ctx context.Context, session *domain.Session) domain.OnboardingProgress {
	if !session.Connected() {
		return domain.OnboardingProgress{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.entry(session.ID)
}

func (s *onboardingService) Start(ctx context.Context, session *domain.Session) domain.OnboardingProgress {
	if !session.Connected() {
		return domain.OnboardingProgress{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.entry(session.ID)
	if p.Step == domain.StepDisconnected {
		if err := p.Advance(domain.StepWalletConnected); err == nil {
			s.monitor.TrackStep(strconv.Itoa(int(p.Step)))
		}
	}
	return *p
}

// require checks that session is connected and sits at step want, and
// returns a snapshot of its progress.
func (s *onboardingService) require(session *domain.Session, want domain.OnboardingStep) (domain.OnboardingProgress, error) {
	if !session.Connected() {
		return domain.OnboardingProgress{}, domain.ErrNotConnected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.entry(session.ID)
	if err := p.Require(want); err != nil {
		return *p, err
	}
	return *p, nil
}

// begin claims the step-want call slot for session. Only one deposit or
// create-event call may await the wallet per session; release frees the slot
// if the call did not advance the step.
func (s *onboardingService) begin(session *domain.Session, want domain.OnboardingStep) (release func(), err error) {
	if !session.Connected() {
		return nil, domain.ErrNotConnected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.entry(session.ID)
	if err := p.Require(want); err != nil {
		return nil, err
	}
	if p.Processing {
		return nil, fmt.Errorf("%w: onboarding step %d is processing", domain.ErrCallInFlight, want)
	}
	p.Processing = true
	released := false
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !released && p.Step == want {
			p.Processing = false
		}
		released = true
	}, nil
}

// advance moves the session from step from to step to and applies mutate.
// It fails if the session left step from while the call was in progress.
func (s *onboardingService) advance(session *domain.Session, from, to domain.OnboardingStep, mutate func(p *domain.OnboardingProgress)) (domain.OnboardingProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.entry(session.ID)
	if err := p.Require(from); err != nil {
		return *p, err
	}
	if err := p.Advance(to); err != nil {
		return *p, err
	}
	p.Processing = false
	if mutate != nil {
		mutate(p)
	}
	s.monitor.TrackStep(strconv.Itoa(int(to)))
	return *p, nil
}

func (s *onboardingService) Deposit(ctx context.Context, session *domain.Session, amount string) (*domain.OnboardingCallResult, error) {
	release, err := s.begin(session, domain.StepWalletConnected)
	if err != nil {
		return nil, err
	}
	defer release()
	sats, err := ParseDepositAmount(amount)
	if err != nil {
		return nil, err
	}
	recipient, _ := session.CurrentAddress()
	amount = strings.TrimSpace(amount)

	s.mu.Lock()
	s.entry(session.ID).DepositAmount = amount
	s.mu.Unlock()

	btcTxID, err := mockBTCTxID()
	if err != nil {
		return nil, fmt.Errorf("mock btc deposit: %w", err)
	}
	log := s.logger.With("session_id", session.ID)
	log.InfoContext(ctx, "mock btc deposit", "amount", amount, "btc_tx_id", btcTxID)

	out := s.caller.Call(ctx, session, domain.ContractCall{
		ContractName: domain.ContractToken,
		FunctionName: domain.FunctionMint,
		Args:         []domain.Arg{domain.UIntArg(sats), domain.PrincipalArg(recipient)},
	})
	switch out.Status {
	case domain.CallCancelled:
		release()
		p, _ := s.require(session, domain.StepWalletConnected)
		return &domain.OnboardingCallResult{Outcome: out, Progress: p}, nil
	case domain.CallFailed:
		return nil, out.AsError()
	}

	p, err := s.advance(session, domain.StepWalletConnected, domain.StepTokenDeposited, func(p *domain.OnboardingProgress) {
		p.Deposit = &domain.DepositReceipt{
			Amount:     amount,
			AmountSats: sats,
			BTCTxID:    btcTxID,
			MintTxID:   out.TxID,
			Recipient:  recipient,
		}
	})
	if err != nil {
		return nil, err
	}
	s.events.Refresh(ctx)
	return &domain.OnboardingCallResult{Outcome: out, Progress: p}, nil
}

func (s *onboardingService) CreateEvent(ctx context.Context, session *domain.Session, form domain.EventForm) (*domain.OnboardingCallResult, error) {
	release, err := s.begin(session, domain.StepTokenDeposited)
	if err != nil {
		return nil, err
	}
	defer release()
	draft, err := ParseEventForm(form)
	if err != nil {
		return nil, err
	}

	out := s.caller.Call(ctx, session, domain.ContractCall{
		ContractName: domain.ContractEvent,
		FunctionName: domain.FunctionCreateEvent,
		Args: []domain.Arg{
			domain.ASCIIArg(draft.Name),
			domain.UIntArg(uint64(draft.Date)),
			domain.ASCIIArg(draft.Location),
			domain.UIntArg(draft.MaxCapacity),
			domain.UIntArg(draft.StakeSats),
		},
	})
	switch out.Status {
	case domain.CallCancelled:
		release()
		p, _ := s.require(session, domain.StepTokenDeposited)
		return &domain.OnboardingCallResult{Outcome: out, Progress: p}, nil
	case domain.CallFailed:
		return nil, out.AsError()
	}

	draft.TxID = out.TxID
	p, err := s.advance(session, domain.StepTokenDeposited, domain.StepEventCreated, func(p *domain.OnboardingProgress) {
		p.CreatedEvent = &draft
	})
	if err != nil {
		return nil, err
	}
	s.events.Refresh(ctx)
	return &domain.OnboardingCallResult{Outcome: out, Progress: p}, nil
}

func (s *onboardingService) CreateAnother(ctx context.Context, session *domain.Session) (domain.OnboardingProgress, error) {
	if !session.Connected() {
		return domain.OnboardingProgress{}, domain.ErrNotConnected
	}
	return s.advance(session, domain.StepEventCreated, domain.StepWalletConnected, func(p *domain.OnboardingProgress) {
		p.DepositAmount = ""
	})
}

func (s *onboardingService) Reset(ctx context.Context, sessionID string) {
	s.mu.Lock()
	delete(s.progress, sessionID)
	s.mu.Unlock()
	s.monitor.TrackStep(strconv.Itoa(int(domain.StepDisconnected)))
}

func mockBTCTxID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
