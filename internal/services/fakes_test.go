package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"kickback/internal/domain"
)

const (
	deployerAddr  = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"
	organizerAddr = "ST15ZA4HF6H2N9H9VVRQBQ36JPZHX2R0ATT41WAHT"
	aliceAddr     = "ST3DW3D6903ZY93AQBDETBHHR0G0JBXJXP2PV5WTF"
	bobAddr       = "ST44ZV88Q5WAYKBX35N78HN8DDC017K3DE86E9EB"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testDefaults() ContractDefaults {
	return ContractDefaults{
		Network:           domain.NetworkDevnet,
		ContractAddress:   deployerAddr,
		PostConditionMode: domain.PostConditionAllow,
	}
}

func devSession(id, addr string) *domain.Session {
	return &domain.Session{ID: id, Addresses: domain.Addresses{Devnet: addr}}
}

// fakeWallet records every submitted call and answers with a fixed response.
type fakeWallet struct {
	mu        sync.Mutex
	requests  []domain.ContractCallRequest
	conn      domain.WalletConnection
	connErr   error
	cancelled bool
	err       error
	txID      string
	block     chan struct{}
}

func (w *fakeWallet) Connect(ctx context.Context, app domain.AppDetails) (domain.WalletConnection, error) {
	return w.conn, w.connErr
}

func (w *fakeWallet) SubmitContractCall(ctx context.Context, req domain.ContractCallRequest) (domain.WalletSubmission, error) {
	w.mu.Lock()
	w.requests = append(w.requests, req)
	block := w.block
	w.mu.Unlock()
	if block != nil {
		<-block
	}
	if w.err != nil {
		return domain.WalletSubmission{}, w.err
	}
	if w.cancelled {
		return domain.WalletSubmission{Cancelled: true}, nil
	}
	txID := w.txID
	if txID == "" {
		txID = "0xtx"
	}
	return domain.WalletSubmission{TxID: txID}, nil
}

func (w *fakeWallet) calls() []domain.ContractCallRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.ContractCallRequest(nil), w.requests...)
}

// fakeEventReader serves configurable snapshots and counts fetches.
type fakeEventReader struct {
	mu                sync.Mutex
	events            []*domain.Event
	participants      map[uint64][]string
	eventsErr         error
	participantsErr   error
	eventFetches      int
	participantCounts map[uint64]int
}

func (r *fakeEventReader) FetchEvents(ctx context.Context) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventFetches++
	if r.eventsErr != nil {
		return nil, r.eventsErr
	}
	return r.events, nil
}

func (r *fakeEventReader) FetchParticipants(ctx context.Context, eventID uint64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.participantCounts == nil {
		r.participantCounts = make(map[uint64]int)
	}
	r.participantCounts[eventID]++
	if r.participantsErr != nil {
		return nil, r.participantsErr
	}
	return r.participants[eventID], nil
}

func (r *fakeEventReader) fetches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eventFetches
}

type mockSessionRepository struct {
	sessions map[string]*domain.Session
	err      error
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]*domain.Session)}
}

func (m *mockSessionRepository) Create(ctx context.Context, s *domain.Session) error {
	if m.err != nil {
		return m.err
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionRepository) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(sessionID string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + sessionID, nil
}

var errBoom = errors.New("boom")

// recordingCaller records contract calls and answers with a fixed outcome.
type recordingCaller struct {
	mu      sync.Mutex
	calls   []domain.ContractCall
	outcome domain.CallOutcome
}

func (c *recordingCaller) Call(ctx context.Context, session *domain.Session, call domain.ContractCall) domain.CallOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	if c.outcome.Status == "" {
		return domain.CallOutcome{Status: domain.CallFinished, TxID: "0xtx"}
	}
	return c.outcome
}

func (c *recordingCaller) recorded() []domain.ContractCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ContractCall(nil), c.calls...)
}

// countingRefresher counts event list refreshes.
type countingRefresher struct {
	mu sync.Mutex
	n  int
}

func (r *countingRefresher) Refresh(ctx context.Context) domain.Board {
	r.mu.Lock()
	r.n++
	r.mu.Unlock()
	return domain.Board{}
}

func (r *countingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}
