package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kickback/internal/domain"
)

func sampleEvents() []*domain.Event {
	return []*domain.Event{
		{
			ID:           1,
			Organizer:    organizerAddr,
			Name:         "Stacks Meetup",
			Date:         1735603200,
			Location:     "Lisbon",
			MaxCapacity:  100,
			StakeAmount:  100_000_000,
			Participants: []string{aliceAddr},
			Status:       domain.EventStatusActive,
		},
		{
			ID:          2,
			Organizer:   organizerAddr,
			Name:        "Past Hack",
			Date:        1704067200,
			Location:    "Berlin",
			MaxCapacity: 10,
			StakeAmount: 50_000_000,
			Status:      "completed",
		},
	}
}

func TestEventBoard_Refresh(t *testing.T) {
	ctx := context.Background()
	reader := &fakeEventReader{events: sampleEvents()}
	board := NewEventBoardService(reader, &recordingCaller{}, discardLogger(), nil)

	initial := board.List(ctx)
	assert.Empty(t, initial.Events)
	assert.Empty(t, initial.Error)

	got := board.Refresh(ctx)
	require.Len(t, got.Events, 2)
	require.Len(t, got.Cards, 2)
	assert.Empty(t, got.Error)
	assert.False(t, got.FetchedAt.IsZero())

	card := got.Cards[0]
	assert.Equal(t, "2024-12-31", card.DateLabel)
	assert.Equal(t, "1 / 100", card.CapacityLabel)
	assert.Equal(t, "1.00000000 sBTC", card.StakeLabel)
	assert.Equal(t, "Active", card.StatusLabel)
	assert.True(t, card.CanRegister)
	assert.False(t, got.Cards[1].CanRegister)

	assert.Equal(t, got, board.List(ctx))
}

func TestEventBoard_FailedRefreshKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	reader := &fakeEventReader{events: sampleEvents()}
	board := NewEventBoardService(reader, &recordingCaller{}, discardLogger(), nil)

	before := board.Refresh(ctx)
	require.Len(t, before.Events, 2)

	reader.eventsErr = errBoom
	after := board.Refresh(ctx)
	assert.Equal(t, before.Events, after.Events)
	assert.Equal(t, before.Cards, after.Cards)
	assert.Equal(t, before.FetchedAt, after.FetchedAt)
	assert.Equal(t, FetchEventsFailed, after.Error)

	reader.eventsErr = nil
	reader.events = sampleEvents()[:1]
	recovered := board.Refresh(ctx)
	assert.Len(t, recovered.Events, 1)
	assert.Empty(t, recovered.Error)
}

func TestEventBoard_Get(t *testing.T) {
	ctx := context.Background()
	board := NewEventBoardService(&fakeEventReader{events: sampleEvents()}, &recordingCaller{}, discardLogger(), nil)
	board.Refresh(ctx)

	e, err := board.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Past Hack", e.Name)

	_, err = board.Get(ctx, 99)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventBoard_RegisterAndStake(t *testing.T) {
	ctx := context.Background()
	sess := devSession("s1", bobAddr)

	tests := []struct {
		name        string
		eventID     uint64
		outcome     domain.CallOutcome
		session     *domain.Session
		wantErr     error
		wantCalls   int
		wantFetches int
	}{
		{
			name:        "active event re-fetches on finish",
			eventID:     1,
			outcome:     domain.CallOutcome{Status: domain.CallFinished, TxID: "0xreg"},
			session:     sess,
			wantCalls:   1,
			wantFetches: 2,
		},
		{
			name:        "unknown event goes to the contract",
			eventID:     42,
			outcome:     domain.CallOutcome{Status: domain.CallFinished},
			session:     sess,
			wantCalls:   1,
			wantFetches: 2,
		},
		{
			name:        "cancelled does not re-fetch",
			eventID:     1,
			outcome:     domain.CallOutcome{Status: domain.CallCancelled},
			session:     sess,
			wantCalls:   1,
			wantFetches: 1,
		},
		{
			name:        "failed call",
			eventID:     1,
			outcome:     domain.CallOutcome{Status: domain.CallFailed, Err: errBoom},
			session:     sess,
			wantErr:     domain.ErrCallFailed,
			wantCalls:   1,
			wantFetches: 1,
		},
		{
			name:        "inactive event is refused",
			eventID:     2,
			session:     sess,
			wantErr:     domain.ErrInvalidInput,
			wantFetches: 1,
		},
		{
			name:        "not connected",
			eventID:     1,
			session:     &domain.Session{ID: "s1"},
			wantErr:     domain.ErrNotConnected,
			wantFetches: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &fakeEventReader{events: sampleEvents()}
			caller := &recordingCaller{outcome: tt.outcome}
			board := NewEventBoardService(reader, caller, discardLogger(), nil)
			board.Refresh(ctx)

			out, err := board.RegisterAndStake(ctx, tt.session, tt.eventID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.outcome.Status, out.Status)
			}

			calls := caller.recorded()
			require.Len(t, calls, tt.wantCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, domain.ContractPaymentStream, calls[0].ContractName)
				assert.Equal(t, domain.FunctionRegisterAndStake, calls[0].FunctionName)
				assert.Equal(t, []domain.Arg{domain.UIntArg(tt.eventID)}, calls[0].Args)
			}
			assert.Equal(t, tt.wantFetches, reader.fetches())
		})
	}
}

func TestEventBoard_FetchedAtUsesClock(t *testing.T) {
	board := NewEventBoardService(&fakeEventReader{}, &recordingCaller{}, discardLogger(), nil).(*eventBoardService)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	board.now = func() time.Time { return fixed }

	got := board.Refresh(context.Background())
	assert.Equal(t, fixed, got.FetchedAt)
	assert.NotNil(t, got.Events)
}
