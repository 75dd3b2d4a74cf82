package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kickback/internal/domain"
	"kickback/internal/monitoring"
)

// onboardingLifecycle is the part of onboarding the gate drives on connect
// and disconnect.
type onboardingLifecycle interface {
	Progress(ctx context.Context, session *domain.Session) domain.OnboardingProgress
	Start(ctx context.Context, session *domain.Session) domain.OnboardingProgress
	Reset(ctx context.Context, sessionID string)
}

type sessionGate struct {
	repo       domain.SessionRepository
	tokens     domain.SessionTokenIssuer
	wallet     domain.Wallet
	onboarding onboardingLifecycle
	events     eventRefresher
	app        domain.AppDetails
	ttl        time.Duration
	logger     *slog.Logger
	monitor    *monitoring.Monitor
	now        func() time.Time
}

// NewSessionGate creates a SessionGate. Sessions expire ttl after connect.
func NewSessionGate(
	repo domain.SessionRepository,
	tokens domain.SessionTokenIssuer,
	wallet domain.Wallet,
	onboarding onboardingLifecycle,
	events eventRefresher,
	app domain.AppDetails,
	ttl time.Duration,
	logger *slog.Logger,
	monitor *monitoring.Monitor,
) domain.SessionGate {
	return &sessionGate{
		repo:       repo,
		tokens:     tokens,
		wallet:     wallet,
		onboarding: onboarding,
		events:     events,
		app:        app,
		ttl:        ttl,
		logger:     logger,
		monitor:    monitor,
		now:        time.Now,
	}
}

func (g *sessionGate) Connect(ctx context.Context) (*domain.ConnectResult, error) {
	conn, err := g.wallet.Connect(ctx, g.app)
	if err != nil {
		g.monitor.TrackConnect(string(domain.CallFailed))
		g.logger.ErrorContext(ctx, "wallet connection error", "err", err)
		return nil, fmt.Errorf("%w: wallet connect: %w", domain.ErrCallFailed, err)
	}
	if conn.Cancelled {
		g.monitor.TrackConnect(string(domain.CallCancelled))
		g.logger.InfoContext(ctx, "wallet connection cancelled")
		return &domain.ConnectResult{Status: domain.CallCancelled}, nil
	}
	if conn.Addresses.Mainnet == "" && conn.Addresses.Devnet == "" {
		g.monitor.TrackConnect(string(domain.CallFailed))
		return nil, fmt.Errorf("%w: wallet returned no address", domain.ErrCallFailed)
	}

	session := domain.NewSession(uuid.NewString(), conn.Addresses, g.now().UTC(), g.ttl)
	if err := g.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	token, err := g.tokens.Issue(session.ID, g.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	g.monitor.TrackConnect(string(domain.CallFinished))

	addr, _ := session.CurrentAddress()
	g.logger.InfoContext(ctx, "wallet connected", "session_id", session.ID, "address", addr)
	g.onboarding.Start(ctx, session)
	g.events.Refresh(ctx)
	return &domain.ConnectResult{Status: domain.CallFinished, Session: session, Token: token}, nil
}

// Disconnect removes the session and resets its onboarding progress. A
// missing session is not an error.
func (g *sessionGate) Disconnect(ctx context.Context, sessionID string) error {
	g.onboarding.Reset(ctx, sessionID)
	if err := g.repo.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	g.logger.InfoContext(ctx, "wallet disconnected", "session_id", sessionID)
	return nil
}

// Get loads a live session. Unknown and expired sessions yield ErrNotConnected.
func (g *sessionGate) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrNotConnected
	}
	session, err := g.repo.GetByID(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotConnected
	}
	if err != nil {
		return nil, err
	}
	if !session.ExpiresAt.After(g.now()) {
		g.onboarding.Reset(ctx, sessionID)
		if err := g.repo.Delete(ctx, sessionID); err != nil {
			g.logger.WarnContext(ctx, "failed to delete expired session", "session_id", sessionID, "err", err)
		}
		return nil, domain.ErrNotConnected
	}
	if !session.Connected() {
		return nil, domain.ErrNotConnected
	}
	return session, nil
}

func (g *sessionGate) IsConnected(ctx context.Context, sessionID string) bool {
	_, err := g.Get(ctx, sessionID)
	return err == nil
}

// Resume picks up a session that is already signed in, e.g. after a reload
// or a restart that dropped in-memory progress.
func (g *sessionGate) Resume(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := g.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if g.onboarding.Progress(ctx, session).Step == domain.StepDisconnected {
		g.onboarding.Start(ctx, session)
		g.events.Refresh(ctx)
	}
	return session, nil
}

func (g *sessionGate) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := g.repo.DeleteExpired(ctx, g.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	if n > 0 {
		g.logger.InfoContext(ctx, "expired sessions purged", "count", n)
	}
	return n, nil
}
