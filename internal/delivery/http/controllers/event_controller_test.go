package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kickback/internal/delivery/http/helpers"
	"kickback/internal/domain"
)

func testEvents() map[uint64]*domain.Event {
	return map[uint64]*domain.Event{
		1: {ID: 1, Organizer: "ST1ORGANIZER", Name: "Meetup", Status: domain.EventStatusActive},
	}
}

func TestEventController_List(t *testing.T) {
	t.Run("first call fetches", func(t *testing.T) {
		board := &fakeBoard{}
		ctrl := NewEventController(testLogger, board, &fakePanel{})
		rr := httptest.NewRecorder()
		ctrl.List(rr, httptest.NewRequest(http.MethodGet, "http://test/events", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, board.refreshed)
	})

	t.Run("failed fetch is returned inline", func(t *testing.T) {
		board := &fakeBoard{board: domain.Board{
			Events: []*domain.Event{{ID: 1, Name: "Meetup"}},
			Error:  "Failed to fetch events.",
		}}
		ctrl := NewEventController(testLogger, board, &fakePanel{})
		rr := httptest.NewRecorder()
		ctrl.List(rr, httptest.NewRequest(http.MethodGet, "http://test/events", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got domain.Board
		require.Nil(t, decodeEnvelope(t, rr, &got))
		assert.Equal(t, "Failed to fetch events.", got.Error)
		require.Len(t, got.Events, 1)
		assert.Zero(t, board.refreshed)
	})
}

func TestEventController_Refresh(t *testing.T) {
	board := &fakeBoard{}
	ctrl := NewEventController(testLogger, board, &fakePanel{})
	rr := httptest.NewRecorder()
	ctrl.Refresh(rr, httptest.NewRequest(http.MethodPost, "http://test/events/refresh", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, board.refreshed)
}

func TestEventController_Register(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		noSession  bool
		board      *fakeBoard
		wantStatus int
		wantCode   string
	}{
		{
			name:       "finished",
			eventID:    "1",
			board:      &fakeBoard{outcome: domain.CallOutcome{Status: domain.CallFinished, TxID: "0xreg"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "cancelled",
			eventID:    "1",
			board:      &fakeBoard{outcome: domain.CallOutcome{Status: domain.CallCancelled}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad id",
			eventID:    "abc",
			board:      &fakeBoard{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "duplicate in flight",
			eventID:    "1",
			board:      &fakeBoard{outcome: domain.CallOutcome{Status: domain.CallFailed}, err: domain.ErrCallInFlight},
			wantStatus: http.StatusConflict,
			wantCode:   helpers.ErrCodeConflict,
		},
		{
			name:       "contract failure",
			eventID:    "1",
			board:      &fakeBoard{outcome: domain.CallOutcome{Status: domain.CallFailed}, err: domain.ErrCallFailed},
			wantStatus: http.StatusBadGateway,
			wantCode:   helpers.ErrCodeContractCallFailed,
		},
		{
			name:       "no session",
			eventID:    "1",
			noSession:  true,
			board:      &fakeBoard{},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.board, &fakePanel{})
			req := httptest.NewRequest(http.MethodPost, "http://test/events/"+tt.eventID+"/registrations", nil)
			req.SetPathValue("eventID", tt.eventID)
			if !tt.noSession {
				req = authed(req)
			}
			rr := httptest.NewRecorder()
			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var res RegistrationResponse
			apiErr := decodeEnvelope(t, rr, &res)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, tt.board.outcome.Status, res.Outcome.Status)
			assert.Equal(t, uint64(1), tt.board.lastRegister)
		})
	}
}

func TestEventController_Participants(t *testing.T) {
	panel := &fakePanel{panel: domain.Panel{EventID: 1, Role: domain.RoleOrganizer, CanMarkAttendance: true, Participants: []string{"ST1A"}}}
	ctrl := NewEventController(testLogger, &fakeBoard{events: testEvents()}, panel)

	req := httptest.NewRequest(http.MethodGet, "http://test/events/1/participants", nil)
	req.SetPathValue("eventID", "1")
	rr := httptest.NewRecorder()
	ctrl.Participants(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.Panel
	require.Nil(t, decodeEnvelope(t, rr, &got))
	assert.True(t, got.CanMarkAttendance)
	assert.Nil(t, panel.lastSession, "anonymous viewers load without a session")

	req = httptest.NewRequest(http.MethodGet, "http://test/events/9/participants", nil)
	req.SetPathValue("eventID", "9")
	rr = httptest.NewRecorder()
	ctrl.Participants(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEventController_MarkAttendance(t *testing.T) {
	tests := []struct {
		name       string
		panel      *fakePanel
		wantStatus int
		wantCode   string
	}{
		{
			name:       "organizer",
			panel:      &fakePanel{result: &domain.PanelCallResult{Outcome: domain.CallOutcome{Status: domain.CallFinished}}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "not organizer",
			panel:      &fakePanel{err: domain.ErrForbidden},
			wantStatus: http.StatusForbidden,
			wantCode:   helpers.ErrCodeForbidden,
		},
		{
			name:       "bad participant",
			panel:      &fakePanel{err: domain.ErrInvalidInput},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, &fakeBoard{events: testEvents()}, tt.panel)
			req := httptest.NewRequest(http.MethodPost, "http://test/events/1/participants/ST1A/attendance", nil)
			req.SetPathValue("eventID", "1")
			req.SetPathValue("participant", "ST1A")
			rr := httptest.NewRecorder()
			ctrl.MarkAttendance(rr, authed(req))

			require.Equal(t, tt.wantStatus, rr.Code)
			apiErr := decodeEnvelope(t, rr, nil)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, "ST1A", tt.panel.lastParticipant)
		})
	}
}

func TestEventController_Refund(t *testing.T) {
	panel := &fakePanel{result: &domain.PanelCallResult{
		Outcome: domain.CallOutcome{Status: domain.CallFinished},
		Message: "Refund successful!",
	}}
	ctrl := NewEventController(testLogger, &fakeBoard{events: testEvents()}, panel)

	req := httptest.NewRequest(http.MethodPost, "http://test/events/1/refunds", nil)
	req.SetPathValue("eventID", "1")
	rr := httptest.NewRecorder()
	ctrl.Refund(rr, authed(req))

	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.PanelCallResult
	require.Nil(t, decodeEnvelope(t, rr, &got))
	assert.Equal(t, "Refund successful!", got.Message)

	req = httptest.NewRequest(http.MethodPost, "http://test/events/1/refunds", nil)
	req.SetPathValue("eventID", "1")
	rr = httptest.NewRecorder()
	ctrl.Refund(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
