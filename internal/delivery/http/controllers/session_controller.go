package controllers

import (
	"log/slog"
	"net/http"

	"kickback/internal/delivery/http/helpers"
	"kickback/internal/delivery/http/middleware"
	"kickback/internal/domain"
)

// SessionView is the connected session with its current address and onboarding progress.
type SessionView struct {
	Session    *domain.Session `json:"session"`
	Address    string          `json:"address"`
	Onboarding OnboardingView  `json:"onboarding"`
}

// ConnectSuccessResponse is the success response envelope for POST /session/connect (200).
type ConnectSuccessResponse struct {
	Data  *domain.ConnectResult `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// SessionSuccessResponse is the success response envelope for GET /session (200).
type SessionSuccessResponse struct {
	Data  SessionView       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DisconnectResponse is the response body for DELETE /session.
type DisconnectResponse struct {
	Status string `json:"status"`
}

type SessionController struct {
	Logger     *slog.Logger
	Gate       domain.SessionGate
	Onboarding domain.OnboardingService
}

func NewSessionController(logger *slog.Logger, gate domain.SessionGate, onboarding domain.OnboardingService) *SessionController {
	return &SessionController{Logger: logger, Gate: gate, Onboarding: onboarding}
}

// Connect godoc
// @Summary Connect a wallet
// @Description Prompts the wallet to connect. On success a session is created, onboarding moves to step 1 and the event list is refreshed. A dismissed prompt returns status "cancelled" and changes nothing.
// @Tags session
// @Produce json
// @Success 200 {object} controllers.ConnectSuccessResponse "data.status is finished or cancelled; token is set on finish"
// @Failure 502 {object} helpers.APIResponse "error.code: contract_call_failed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /session/connect [post]
func (c *SessionController) Connect(w http.ResponseWriter, r *http.Request) {
	res, err := c.Gate.Connect(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// Get godoc
// @Summary Get the current session
// @Description Returns the connected session. A session that is signed in but has no onboarding progress (e.g. after a restart) resumes at step 1.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /session [get]
func (c *SessionController) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	s, err := c.Gate.Resume(r.Context(), s.ID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	addr, _ := s.CurrentAddress()
	helpers.WriteJSONSuccess(w, http.StatusOK, SessionView{
		Session:    s,
		Address:    addr,
		Onboarding: NewOnboardingView(c.Onboarding.Progress(r.Context(), s)),
	})
}

// Disconnect godoc
// @Summary Disconnect the wallet
// @Description Deletes the session and resets onboarding to step 0.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data.status: disconnected"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /session [delete]
func (c *SessionController) Disconnect(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Gate.Disconnect(r.Context(), s.ID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DisconnectResponse{Status: "disconnected"})
}
