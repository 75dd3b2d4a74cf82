package eventsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"kickback/internal/domain"
)

type eventsResponse struct {
	Events []*domain.Event `json:"events"`
}

type participantsResponse struct {
	Participants []string `json:"participants"`
}

type httpEventReader struct {
	client  *http.Client
	baseURL string
}

// NewHTTPEventReader returns an EventReader that calls the events backend at baseURL.
func NewHTTPEventReader(client *http.Client, baseURL string) domain.EventReader {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpEventReader{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (r *httpEventReader) FetchEvents(ctx context.Context) ([]*domain.Event, error) {
	var data eventsResponse
	if err := r.get(ctx, "/api/get-events", &data); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	if data.Events == nil {
		data.Events = []*domain.Event{}
	}
	for _, e := range data.Events {
		if e.Participants == nil {
			e.Participants = []string{}
		}
	}
	return data.Events, nil
}

func (r *httpEventReader) FetchParticipants(ctx context.Context, eventID uint64) ([]string, error) {
	var data participantsResponse
	if err := r.get(ctx, fmt.Sprintf("/api/get-event/%d", eventID), &data); err != nil {
		return nil, fmt.Errorf("fetch participants for event %d: %w", eventID, err)
	}
	if data.Participants == nil {
		data.Participants = []string{}
	}
	return data.Participants, nil
}

func (r *httpEventReader) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("events api returned status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
