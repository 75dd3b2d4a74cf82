package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kickback/internal/domain"
	"kickback/internal/monitoring"
)

// FetchEventsFailed is shown when the event list could not be refreshed.
const FetchEventsFailed = "Failed to fetch events."

type eventBoardService struct {
	reader  domain.EventReader
	caller  domain.ContractCaller
	logger  *slog.Logger
	monitor *monitoring.Monitor
	now     func() time.Time

	mu    sync.RWMutex
	board domain.Board
}

// NewEventBoardService creates the event list view. The board starts empty
// and is filled by Refresh.
func NewEventBoardService(reader domain.EventReader, caller domain.ContractCaller, logger *slog.Logger, monitor *monitoring.Monitor) domain.EventBoardService {
	return &eventBoardService{
		reader:  reader,
		caller:  caller,
		logger:  logger,
		monitor: monitor,
		now:     time.Now,
		board: domain.Board{
			Events: []*domain.Event{},
			Cards:  []domain.EventCard{},
		},
	}
}

func (s *eventBoardService) List(ctx context.Context) domain.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// Refresh fetches the event list once. On failure the previous snapshot is
// kept and the board carries an error message instead.
func (s *eventBoardService) Refresh(ctx context.Context) domain.Board {
	events, err := s.reader.FetchEvents(ctx)
	s.monitor.TrackFetch("get-events", err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.ErrorContext(ctx, "fetch events failed", "err", err)
		s.board.Error = FetchEventsFailed
		return s.board
	}

	if events == nil {
		events = []*domain.Event{}
	}
	cards := make([]domain.EventCard, 0, len(events))
	for _, e := range events {
		cards = append(cards, domain.NewEventCard(e))
	}
	s.board = domain.Board{
		Events:    events,
		Cards:     cards,
		FetchedAt: s.now().UTC(),
	}
	return s.board
}

// Get returns the event with id from the current snapshot.
func (s *eventBoardService) Get(ctx context.Context, eventID uint64) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.board.Events {
		if e.ID == eventID {
			return e, nil
		}
	}
	return nil, fmt.Errorf("event %d: %w", eventID, domain.ErrNotFound)
}

// RegisterAndStake registers the session's address for an event. Events the
// snapshot knows to be inactive are refused; unknown ids go to the contract,
// which is the authority on capacity and existence.
func (s *eventBoardService) RegisterAndStake(ctx context.Context, session *domain.Session, eventID uint64) (domain.CallOutcome, error) {
	if !session.Connected() {
		return domain.CallOutcome{}, domain.ErrNotConnected
	}
	if e, err := s.Get(ctx, eventID); err == nil && !e.IsActive() {
		return domain.CallOutcome{}, fmt.Errorf("%w: event %d is %s", domain.ErrInvalidInput, eventID, e.Status)
	}

	out := s.caller.Call(ctx, session, domain.ContractCall{
		ContractName: domain.ContractPaymentStream,
		FunctionName: domain.FunctionRegisterAndStake,
		Args:         []domain.Arg{domain.UIntArg(eventID)},
	})
	if err := out.AsError(); err != nil {
		return out, err
	}
	if out.Finished() {
		s.Refresh(ctx)
	}
	return out, nil
}
