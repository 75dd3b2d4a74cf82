package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"kickback/internal/delivery/http/controllers"
	"kickback/internal/delivery/http/middleware"
)

// Router holds the controllers and middleware the routes are built from.
type Router struct {
	Session    *controllers.SessionController
	Onboarding *controllers.OnboardingController
	Events     *controllers.EventController
	Auth       *middleware.SessionAuth
	Metrics    http.Handler
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(rt Router) *http.ServeMux {
	mux := http.NewServeMux()
	auth := rt.Auth

	// Session
	mux.HandleFunc("POST /session/connect", rt.Session.Connect)
	mux.HandleFunc("GET /session", auth.Require(rt.Session.Get))
	mux.HandleFunc("DELETE /session", auth.Require(rt.Session.Disconnect))

	// Onboarding
	mux.HandleFunc("GET /onboarding", auth.Require(rt.Onboarding.Get))
	mux.HandleFunc("POST /onboarding/deposit", auth.Require(rt.Onboarding.Deposit))
	mux.HandleFunc("POST /onboarding/events", auth.Require(rt.Onboarding.CreateEvent))
	mux.HandleFunc("POST /onboarding/restart", auth.Require(rt.Onboarding.Restart))

	// Events
	mux.HandleFunc("GET /events", rt.Events.List)
	mux.HandleFunc("POST /events/refresh", rt.Events.Refresh)
	mux.HandleFunc("POST /events/{eventID}/registrations", auth.Require(rt.Events.Register))

	// Participants
	mux.HandleFunc("GET /events/{eventID}/participants", auth.Optional(rt.Events.Participants))
	mux.HandleFunc("POST /events/{eventID}/participants/{participant}/attendance", auth.Require(rt.Events.MarkAttendance))
	mux.HandleFunc("POST /events/{eventID}/refunds", auth.Require(rt.Events.Refund))

	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
