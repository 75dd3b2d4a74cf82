package controllers

import (
	"log/slog"
	"net/http"

	"kickback/internal/delivery/http/helpers"
	"kickback/internal/delivery/http/middleware"
	"kickback/internal/domain"
)

// BoardSuccessResponse is the success response envelope for GET /events (200).
type BoardSuccessResponse struct {
	Data  domain.Board      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RegistrationResponse is the response body for POST /events/{eventID}/registrations.
type RegistrationResponse struct {
	Outcome domain.CallOutcome `json:"outcome"`
	Board   domain.Board       `json:"board"`
}

// RegistrationSuccessResponse is the success response envelope for POST /events/{eventID}/registrations (200).
type RegistrationSuccessResponse struct {
	Data  RegistrationResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// PanelSuccessResponse is the success response envelope for GET /events/{eventID}/participants (200).
type PanelSuccessResponse struct {
	Data  domain.Panel      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PanelCallSuccessResponse is the success response envelope for attendance and refund calls (200).
type PanelCallSuccessResponse struct {
	Data  *domain.PanelCallResult `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type EventController struct {
	Logger *slog.Logger
	Board  domain.EventBoardService
	Panel  domain.ParticipantPanelService
}

func NewEventController(logger *slog.Logger, board domain.EventBoardService, panel domain.ParticipantPanelService) *EventController {
	return &EventController{Logger: logger, Board: board, Panel: panel}
}

// List godoc
// @Summary List events
// @Description Returns the last fetched event list. The first call fetches it. When the most recent fetch failed, data.error is set and the previous list is returned unchanged.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.BoardSuccessResponse
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	board := c.Board.List(r.Context())
	if board.FetchedAt.IsZero() && board.Error == "" {
		board = c.Board.Refresh(r.Context())
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, board)
}

// Refresh godoc
// @Summary Refresh events
// @Description Fetches the event list from the events backend once.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.BoardSuccessResponse
// @Router /events/refresh [post]
func (c *EventController) Refresh(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Board.Refresh(r.Context()))
}

// Register godoc
// @Summary Register and stake
// @Description Calls payment-stream.register-and-stake for the event and re-fetches the event list when the wallet broadcasts the call. Events known to be inactive are refused.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data.outcome.status is finished or cancelled"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 502 {object} helpers.APIResponse "error.code: contract_call_failed"
// @Router /events/{eventID}/registrations [post]
func (c *EventController) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.ParseEventID(w, r)
	if !ok {
		return
	}
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	out, err := c.Board.RegisterAndStake(r.Context(), s, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationResponse{Outcome: out, Board: c.Board.List(r.Context())})
}

// Participants godoc
// @Summary Participant panel
// @Description Fetches the participant list for the event. The controls depend on the viewer: the organizer may mark attendance, anyone else connected may request a refund.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.PanelSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/participants [get]
func (c *EventController) Participants(w http.ResponseWriter, r *http.Request) {
	event, ok := c.event(w, r)
	if !ok {
		return
	}
	s, _ := middleware.SessionFromContext(r.Context())
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Panel.Load(r.Context(), s, event))
}

// MarkAttendance godoc
// @Summary Mark attendance
// @Description Calls payment-stream.mark-attendance(eventID, participant, true). Organizer only.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param participant path string true "Participant address"
// @Success 200 {object} controllers.PanelCallSuccessResponse "data.outcome.status is finished or cancelled"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 502 {object} helpers.APIResponse "error.code: contract_call_failed"
// @Router /events/{eventID}/participants/{participant}/attendance [post]
func (c *EventController) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	event, ok := c.event(w, r)
	if !ok {
		return
	}
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	res, err := c.Panel.MarkAttendance(r.Context(), s, event, r.PathValue("participant"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// Refund godoc
// @Summary Refund stake
// @Description Calls payment-stream.refund(eventID). Not available to the organizer.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.PanelCallSuccessResponse "data.message is set when the refund was broadcast"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 502 {object} helpers.APIResponse "error.code: contract_call_failed"
// @Router /events/{eventID}/refunds [post]
func (c *EventController) Refund(w http.ResponseWriter, r *http.Request) {
	event, ok := c.event(w, r)
	if !ok {
		return
	}
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	res, err := c.Panel.Refund(r.Context(), s, event)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// event resolves the eventID path value against the current event list.
func (c *EventController) event(w http.ResponseWriter, r *http.Request) (*domain.Event, bool) {
	eventID, ok := helpers.ParseEventID(w, r)
	if !ok {
		return nil, false
	}
	event, err := c.Board.Get(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return nil, false
	}
	return event, true
}
