package domain

import (
	"context"
	"time"
)

// Addresses holds the wallet's address for each network variant.
type Addresses struct {
	Mainnet string `json:"mainnet"`
	Devnet  string `json:"devnet"`
}

// Session is a connected wallet session. It is passed explicitly to every
// operation that needs the connected identity.
// swagger:model Session
type Session struct {
	ID          string    `json:"id"`
	Addresses   Addresses `json:"addresses"`
	ConnectedAt time.Time `json:"connected_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewSession returns a Session for the given addresses. ID is set by the caller.
func NewSession(id string, addrs Addresses, connectedAt time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:          id,
		Addresses:   addrs,
		ConnectedAt: connectedAt,
		ExpiresAt:   connectedAt.Add(ttl),
	}
}

// Connected reports whether s holds at least one wallet address.
func (s *Session) Connected() bool {
	if s == nil {
		return false
	}
	return s.Addresses.Mainnet != "" || s.Addresses.Devnet != ""
}

// CurrentAddress returns the production address, falling back to the
// development one.
func (s *Session) CurrentAddress() (string, bool) {
	if s == nil {
		return "", false
	}
	if s.Addresses.Mainnet != "" {
		return s.Addresses.Mainnet, true
	}
	if s.Addresses.Devnet != "" {
		return s.Addresses.Devnet, true
	}
	return "", false
}

// SessionRepository persists wallet sessions across restarts.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionTokenIssuer issues bearer tokens that carry a session ID.
type SessionTokenIssuer interface {
	Issue(sessionID string, expiry time.Duration) (string, error)
}

// SessionTokenVerifier verifies a bearer token and returns its session ID.
type SessionTokenVerifier interface {
	Verify(token string) (sessionID string, err error)
}

// ConnectResult is what the gate returns on a connect attempt.
// swagger:model ConnectResult
type ConnectResult struct {
	Status  CallStatus `json:"status"`
	Session *Session   `json:"session,omitempty"`
	Token   string     `json:"token,omitempty"`
}

// SessionGate owns the connect/disconnect lifecycle of wallet sessions.
type SessionGate interface {
	Connect(ctx context.Context) (*ConnectResult, error)
	Disconnect(ctx context.Context, sessionID string) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	IsConnected(ctx context.Context, sessionID string) bool
	Resume(ctx context.Context, sessionID string) (*Session, error)
	PurgeExpired(ctx context.Context) (int64, error)
}
