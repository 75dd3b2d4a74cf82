package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"kickback/internal/delivery/http/helpers"
	"kickback/internal/delivery/http/middleware"
	"kickback/internal/domain"
)

// OnboardingView is the onboarding progress with its display labels.
type OnboardingView struct {
	domain.OnboardingProgress
	Heading string   `json:"heading"`
	Steps   []string `json:"steps"`
}

// NewOnboardingView adds the step heading and progress labels to p.
func NewOnboardingView(p domain.OnboardingProgress) OnboardingView {
	return OnboardingView{
		OnboardingProgress: p,
		Heading:            p.Step.Heading(),
		Steps:              domain.StepTitles[:],
	}
}

// OnboardingCallView is the response body of onboarding steps that call a contract.
type OnboardingCallView struct {
	Outcome    domain.CallOutcome `json:"outcome"`
	Onboarding OnboardingView     `json:"onboarding"`
}

// OnboardingSuccessResponse is the success response envelope for GET /onboarding (200).
type OnboardingSuccessResponse struct {
	Data  OnboardingView    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// OnboardingCallSuccessResponse is the success response envelope for onboarding contract calls (200).
type OnboardingCallSuccessResponse struct {
	Data  OnboardingCallView `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// DepositRequest is the request body for POST /onboarding/deposit. Amount is
// in BTC and may be sent as a JSON string or number.
type DepositRequest struct {
	Amount helpers.NumberString `json:"amount" swaggertype:"string" example:"0.5"`
}

// Validate implements Validator.
func (d DepositRequest) Validate() []string {
	if strings.TrimSpace(string(d.Amount)) == "" {
		return []string{"please enter a valid amount"}
	}
	return nil
}

// CreateEventRequest is the request body for POST /onboarding/events. All
// fields are required; date is YYYY-MM-DD or RFC 3339, stake_amount is in sBTC.
// max_capacity and stake_amount may be sent as JSON strings or numbers.
type CreateEventRequest struct {
	Name        string               `json:"name" example:"Stacks Meetup"`
	Date        string               `json:"date" example:"2024-12-31"`
	Location    string               `json:"location" example:"Lisbon"`
	MaxCapacity helpers.NumberString `json:"max_capacity" swaggertype:"string" example:"100"`
	StakeAmount helpers.NumberString `json:"stake_amount" swaggertype:"string" example:"1"`
}

func (r CreateEventRequest) form() domain.EventForm {
	return domain.EventForm{
		Name:        r.Name,
		Date:        r.Date,
		Location:    r.Location,
		MaxCapacity: string(r.MaxCapacity),
		StakeAmount: string(r.StakeAmount),
	}
}

type OnboardingController struct {
	Logger  *slog.Logger
	Service domain.OnboardingService
}

func NewOnboardingController(logger *slog.Logger, svc domain.OnboardingService) *OnboardingController {
	return &OnboardingController{Logger: logger, Service: svc}
}

// Get godoc
// @Summary Get onboarding progress
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.OnboardingSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /onboarding [get]
func (c *OnboardingController) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, NewOnboardingView(c.Service.Progress(r.Context(), s)))
}

// Deposit godoc
// @Summary Deposit BTC and mint sBTC
// @Description Mocks a BTC deposit and mints floor(amount * 1e8) sats of sBTC to the connected address. Allowed at step 1 only; moves to step 2 when the wallet broadcasts the mint.
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deposit body DepositRequest true "Amount in BTC"
// @Success 200 {object} controllers.OnboardingCallSuccessResponse "data.outcome.status is finished or cancelled"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 502 {object} helpers.APIResponse "error.code: contract_call_failed"
// @Router /onboarding/deposit [post]
func (c *OnboardingController) Deposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	res, err := c.Service.Deposit(r.Context(), s, string(req.Amount))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, OnboardingCallView{Outcome: res.Outcome, Onboarding: NewOnboardingView(res.Progress)})
}

// CreateEvent godoc
// @Summary Create an event
// @Description Calls event.create-event with the form converted to contract units. Allowed at step 2 only; moves to step 3 when the wallet broadcasts the call.
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event form; max_capacity and stake_amount accept strings or numbers"
// @Success 200 {object} controllers.OnboardingCallSuccessResponse "data.outcome.status is finished or cancelled"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 502 {object} helpers.APIResponse "error.code: contract_call_failed"
// @Router /onboarding/events [post]
func (c *OnboardingController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	res, err := c.Service.CreateEvent(r.Context(), s, req.form())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, OnboardingCallView{Outcome: res.Outcome, Onboarding: NewOnboardingView(res.Progress)})
}

// Restart godoc
// @Summary Create another event
// @Description Returns from step 3 to step 1 and clears the entered deposit amount.
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.OnboardingSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /onboarding/restart [post]
func (c *OnboardingController) Restart(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	p, err := c.Service.CreateAnother(r.Context(), s)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, NewOnboardingView(p))
}
