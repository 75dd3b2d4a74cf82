package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// EventStatusActive is the only status that accepts registrations.
const EventStatusActive = "active"

// SatsPerBTC is the smallest-unit scale of sBTC amounts.
const SatsPerBTC = 100_000_000

// Event is a snapshot of an on-chain event as returned by the events backend.
// swagger:model Event
type Event struct {
	ID           uint64   `json:"id"`
	Organizer    string   `json:"organizer"`
	Name         string   `json:"name"`
	Date         int64    `json:"date"`
	Location     string   `json:"location"`
	MaxCapacity  uint64   `json:"maxCapacity"`
	StakeAmount  uint64   `json:"stakeAmount"`
	Participants []string `json:"participants"`
	Status       string   `json:"status"`
}

// IsActive reports whether the event accepts registrations.
func (e *Event) IsActive() bool {
	return e.Status == EventStatusActive
}

// EventReader fetches event snapshots from the read backend.
type EventReader interface {
	FetchEvents(ctx context.Context) ([]*Event, error)
	FetchParticipants(ctx context.Context, eventID uint64) ([]string, error)
}

// EventCard is the display form of an Event.
// swagger:model EventCard
type EventCard struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	DateLabel     string `json:"date_label"`
	Location      string `json:"location"`
	Organizer     string `json:"organizer"`
	CapacityLabel string `json:"capacity_label"`
	StakeLabel    string `json:"stake_label"`
	StatusLabel   string `json:"status_label"`
	CanRegister   bool   `json:"can_register"`
}

// NewEventCard builds the display model for e.
func NewEventCard(e *Event) EventCard {
	return EventCard{
		ID:            e.ID,
		Name:          e.Name,
		DateLabel:     time.Unix(e.Date, 0).UTC().Format("2006-01-02"),
		Location:      e.Location,
		Organizer:     e.Organizer,
		CapacityLabel: fmt.Sprintf("%d / %d", len(e.Participants), e.MaxCapacity),
		StakeLabel:    FormatSats(e.StakeAmount) + " sBTC",
		StatusLabel:   capitalize(e.Status),
		CanRegister:   e.IsActive(),
	}
}

// FormatSats renders a sats amount as a whole-token decimal with 8 places.
func FormatSats(sats uint64) string {
	return fmt.Sprintf("%d.%08d", sats/SatsPerBTC, sats%SatsPerBTC)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
