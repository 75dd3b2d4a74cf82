package domain

import (
	"context"
	"fmt"
)

// OnboardingStep is the index of the current onboarding step.
type OnboardingStep int

const (
	StepDisconnected    OnboardingStep = 0
	StepWalletConnected OnboardingStep = 1
	StepTokenDeposited  OnboardingStep = 2
	StepEventCreated    OnboardingStep = 3
)

// StepTitles are the labels of the progress indicator, indexed by step.
var StepTitles = [...]string{"Connect Wallet", "Deposit BTC", "Create Event", "Complete"}

// Heading returns the card title shown while at step s.
func (s OnboardingStep) Heading() string {
	switch s {
	case StepDisconnected:
		return "Connect Your Wallet"
	case StepWalletConnected:
		return "Deposit BTC"
	case StepTokenDeposited:
		return "Create Event"
	case StepEventCreated:
		return "Event Created!"
	}
	return ""
}

// allowedSteps lists the legal targets from each step. Disconnect (to 0) is
// always legal and handled separately.
var allowedSteps = map[OnboardingStep]OnboardingStep{
	StepDisconnected:    StepWalletConnected,
	StepWalletConnected: StepTokenDeposited,
	StepTokenDeposited:  StepEventCreated,
	StepEventCreated:    StepWalletConnected,
}

// DepositReceipt records a completed deposit step.
// swagger:model DepositReceipt
type DepositReceipt struct {
	Amount     string `json:"amount"`
	AmountSats uint64 `json:"amount_sats"`
	BTCTxID    string `json:"btc_tx_id"`
	MintTxID   string `json:"mint_tx_id"`
	Recipient  string `json:"recipient"`
}

// EventForm is the raw create-event form input.
type EventForm struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	MaxCapacity string `json:"max_capacity"`
	StakeAmount string `json:"stake_amount"`
}

// EventDraft is a validated create-event form converted to contract units.
// swagger:model EventDraft
type EventDraft struct {
	Name        string `json:"name"`
	Date        int64  `json:"date"`
	Location    string `json:"location"`
	MaxCapacity uint64 `json:"max_capacity"`
	StakeSats   uint64 `json:"stake_sats"`
	TxID        string `json:"tx_id,omitempty"`
}

// OnboardingProgress is the per-session state of the onboarding flow. It is
// never persisted.
// swagger:model OnboardingProgress
type OnboardingProgress struct {
	Step          OnboardingStep  `json:"step"`
	DepositAmount string          `json:"deposit_amount"`
	Deposit       *DepositReceipt `json:"deposit,omitempty"`
	CreatedEvent  *EventDraft     `json:"created_event,omitempty"`
	// Processing is set while a deposit or create-event call awaits the wallet.
	Processing bool `json:"processing"`
}

// Advance moves p to step to if the transition is legal.
func (p *OnboardingProgress) Advance(to OnboardingStep) error {
	if next, ok := allowedSteps[p.Step]; !ok || next != to {
		return fmt.Errorf("%w: %d -> %d", ErrInvalidTransition, p.Step, to)
	}
	p.Step = to
	return nil
}

// Require returns ErrInvalidTransition unless p is at step s.
func (p *OnboardingProgress) Require(s OnboardingStep) error {
	if p.Step != s {
		return fmt.Errorf("%w: at step %d, need %d", ErrInvalidTransition, p.Step, s)
	}
	return nil
}

// Reset returns p to the disconnected state.
func (p *OnboardingProgress) Reset() {
	*p = OnboardingProgress{}
}

// CallResult bundles an outcome with the updated onboarding progress.
// swagger:model OnboardingCallResult
type OnboardingCallResult struct {
	Outcome  CallOutcome        `json:"outcome"`
	Progress OnboardingProgress `json:"progress"`
}

// OnboardingService drives the four-step onboarding flow.
type OnboardingService interface {
	Progress(ctx context.Context, session *Session) OnboardingProgress
	Start(ctx context.Context, session *Session) OnboardingProgress
	Deposit(ctx context.Context, session *Session, amount string) (*OnboardingCallResult, error)
	CreateEvent(ctx context.Context, session *Session, form EventForm) (*OnboardingCallResult, error)
	CreateAnother(ctx context.Context, session *Session) (OnboardingProgress, error)
	Reset(ctx context.Context, sessionID string)
}
