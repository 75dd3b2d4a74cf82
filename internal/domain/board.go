package domain

import (
	"context"
	"time"
)

// Board is the rendered event list: the last successful snapshot plus the
// error of the most recent failed fetch, if any.
// swagger:model Board
type Board struct {
	Events    []*Event    `json:"events"`
	Cards     []EventCard `json:"cards"`
	Error     string      `json:"error,omitempty"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// EventBoardService renders the event list and exposes registration.
type EventBoardService interface {
	List(ctx context.Context) Board
	Refresh(ctx context.Context) Board
	Get(ctx context.Context, eventID uint64) (*Event, error)
	RegisterAndStake(ctx context.Context, session *Session, eventID uint64) (CallOutcome, error)
}

// Panel is the rendered participant & refund panel for one event.
// swagger:model Panel
type Panel struct {
	EventID           uint64   `json:"event_id"`
	Role              Role     `json:"role"`
	Participants      []string `json:"participants"`
	Error             string   `json:"error,omitempty"`
	EmptyMessage      string   `json:"empty_message,omitempty"`
	CanMarkAttendance bool     `json:"can_mark_attendance"`
	CanRefund         bool     `json:"can_refund"`
}

// PanelCallResult bundles a call outcome with the refreshed panel.
// swagger:model PanelCallResult
type PanelCallResult struct {
	Outcome CallOutcome `json:"outcome"`
	Message string      `json:"message,omitempty"`
	Panel   Panel       `json:"panel"`
}

// ParticipantPanelService renders participants and handles attendance and refunds.
type ParticipantPanelService interface {
	Load(ctx context.Context, session *Session, event *Event) Panel
	MarkAttendance(ctx context.Context, session *Session, event *Event, participant string) (*PanelCallResult, error)
	Refund(ctx context.Context, session *Session, event *Event) (*PanelCallResult, error)
}
