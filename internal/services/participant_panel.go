package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"kickback/internal/domain"
	"kickback/internal/monitoring"
)

// Panel messages.
const (
	FetchParticipantsFailed = "Failed to fetch participants."
	NoParticipants          = "No participants yet."
	RefundSuccessful        = "Refund successful!"
)

type participantPanelService struct {
	reader  domain.EventReader
	caller  domain.ContractCaller
	logger  *slog.Logger
	monitor *monitoring.Monitor

	mu           sync.Mutex
	participants map[uint64][]string
}

// NewParticipantPanelService creates the per-event participant panel. The last
// successfully fetched list of each event is kept so a failed fetch does not
// clear it.
func NewParticipantPanelService(reader domain.EventReader, caller domain.ContractCaller, logger *slog.Logger, monitor *monitoring.Monitor) domain.ParticipantPanelService {
	return &participantPanelService{
		reader:       reader,
		caller:       caller,
		logger:       logger,
		monitor:      monitor,
		participants: make(map[uint64][]string),
	}
}

func (s *participantPanelService) Load(ctx context.Context, session *domain.Session, event *domain.Event) domain.Panel {
	list, err := s.reader.FetchParticipants(ctx, event.ID)
	s.monitor.TrackFetch("get-event", err)

	s.mu.Lock()
	if err == nil {
		s.participants[event.ID] = list
	} else {
		s.logger.ErrorContext(ctx, "fetch participants failed", "event_id", event.ID, "err", err)
		list = s.participants[event.ID]
	}
	s.mu.Unlock()

	if list == nil {
		list = []string{}
	}
	panel := render(session, event, list)
	if err != nil {
		panel.Error = FetchParticipantsFailed
	} else if len(list) == 0 {
		panel.EmptyMessage = NoParticipants
	}
	return panel
}

// render builds the panel controls for the viewer's role. The role is
// resolved against the freshest participant list, not the event snapshot.
func render(session *domain.Session, event *domain.Event, participants []string) domain.Panel {
	view := *event
	view.Participants = participants
	role := domain.RoleFor(session, &view)
	return domain.Panel{
		EventID:           event.ID,
		Role:              role,
		Participants:      participants,
		CanMarkAttendance: role == domain.RoleOrganizer,
		CanRefund:         session.Connected() && role != domain.RoleOrganizer,
	}
}

func (s *participantPanelService) MarkAttendance(ctx context.Context, session *domain.Session, event *domain.Event, participant string) (*domain.PanelCallResult, error) {
	if !session.Connected() {
		return nil, domain.ErrNotConnected
	}
	if domain.RoleFor(session, event) != domain.RoleOrganizer {
		return nil, fmt.Errorf("%w: only the organizer can mark attendance", domain.ErrForbidden)
	}
	participant = strings.TrimSpace(participant)
	if participant == "" {
		return nil, fmt.Errorf("%w: participant is required", domain.ErrInvalidInput)
	}

	out := s.caller.Call(ctx, session, domain.ContractCall{
		ContractName: domain.ContractPaymentStream,
		FunctionName: domain.FunctionMarkAttendance,
		Args:         []domain.Arg{domain.UIntArg(event.ID), domain.PrincipalArg(participant), domain.BoolArg(true)},
	})
	return s.finish(ctx, session, event, out, "")
}

func (s *participantPanelService) Refund(ctx context.Context, session *domain.Session, event *domain.Event) (*domain.PanelCallResult, error) {
	if !session.Connected() {
		return nil, domain.ErrNotConnected
	}
	if domain.RoleFor(session, event) == domain.RoleOrganizer {
		return nil, fmt.Errorf("%w: the organizer cannot request a refund", domain.ErrForbidden)
	}

	out := s.caller.Call(ctx, session, domain.ContractCall{
		ContractName: domain.ContractPaymentStream,
		FunctionName: domain.FunctionRefund,
		Args:         []domain.Arg{domain.UIntArg(event.ID)},
	})
	return s.finish(ctx, session, event, out, RefundSuccessful)
}

// finish turns an outcome into a panel result. Finished calls reload the
// participant list; cancelled calls return the cached panel unchanged.
func (s *participantPanelService) finish(ctx context.Context, session *domain.Session, event *domain.Event, out domain.CallOutcome, successMsg string) (*domain.PanelCallResult, error) {
	if err := out.AsError(); err != nil {
		return nil, err
	}
	if out.Cancelled() {
		s.mu.Lock()
		list := s.participants[event.ID]
		s.mu.Unlock()
		if list == nil {
			list = []string{}
		}
		return &domain.PanelCallResult{Outcome: out, Panel: render(session, event, list)}, nil
	}
	return &domain.PanelCallResult{
		Outcome: out,
		Message: successMsg,
		Panel:   s.Load(ctx, session, event),
	}, nil
}
