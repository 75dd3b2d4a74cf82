package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "kickback/internal/delivery/http/helpers"
	"kickback/internal/domain"
)

type contextKey string

const sessionKey contextKey = "session"

// SetSession returns a context carrying the connected session.
func SetSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext returns the connected session, if the request has one.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*domain.Session)
	return s, ok && s != nil
}

// bearerToken extracts the token from an Authorization header. The second
// return value is a client-facing reason when the header is malformed.
func bearerToken(r *http.Request) (string, string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", "invalid authorization format"
	}
	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", "missing token"
	}
	return token, ""
}

// SessionAuth resolves bearer tokens to live wallet sessions.
type SessionAuth struct {
	Verifier domain.SessionTokenVerifier
	Gate     domain.SessionGate
	Logger   *slog.Logger
}

func (a *SessionAuth) resolve(r *http.Request) (*domain.Session, string) {
	token, reason := bearerToken(r)
	if reason != "" {
		return nil, reason
	}
	sessionID, err := a.Verifier.Verify(token)
	if err != nil {
		return nil, "invalid or expired token"
	}
	s, err := a.Gate.Get(r.Context(), sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotConnected) {
			a.Logger.ErrorContext(r.Context(), "session lookup failed", "session_id", sessionID, "err", err)
		}
		return nil, "wallet not connected"
	}
	return s, ""
}

// Require rejects requests without a connected session with 401.
func (a *SessionAuth) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, reason := a.resolve(r)
		if s == nil {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, reason)
			return
		}
		next(w, r.WithContext(SetSession(r.Context(), s)))
	}
}

// Optional attaches the session when the request carries a valid token and
// otherwise lets the request through as a disconnected viewer.
func (a *SessionAuth) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s, _ := a.resolve(r); s != nil {
			r = r.WithContext(SetSession(r.Context(), s))
		}
		next(w, r)
	}
}
