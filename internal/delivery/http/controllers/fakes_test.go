package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"kickback/internal/delivery/http/helpers"
	"kickback/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testSession = &domain.Session{ID: "sess-1", Addresses: domain.Addresses{Devnet: "ST1ORGANIZER"}}

// decodeEnvelope decodes the response body into an envelope whose data is
// unmarshaled into data when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if data != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Error
}

type fakeGate struct {
	connectResult *domain.ConnectResult
	connectErr    error
	resumeErr     error
	disconnectErr error
	disconnected  string
}

func (f *fakeGate) Connect(ctx context.Context) (*domain.ConnectResult, error) {
	return f.connectResult, f.connectErr
}

func (f *fakeGate) Disconnect(ctx context.Context, id string) error {
	f.disconnected = id
	return f.disconnectErr
}

func (f *fakeGate) Get(ctx context.Context, id string) (*domain.Session, error) {
	return testSession, nil
}

func (f *fakeGate) IsConnected(ctx context.Context, id string) bool { return true }

func (f *fakeGate) Resume(ctx context.Context, id string) (*domain.Session, error) {
	if f.resumeErr != nil {
		return nil, f.resumeErr
	}
	return testSession, nil
}

func (f *fakeGate) PurgeExpired(ctx context.Context) (int64, error) { return 0, nil }

type fakeOnboarding struct {
	progress    domain.OnboardingProgress
	result      *domain.OnboardingCallResult
	err         error
	lastAmount  string
	lastForm    domain.EventForm
	resetCalled bool
}

func (f *fakeOnboarding) Progress(ctx context.Context, s *domain.Session) domain.OnboardingProgress {
	return f.progress
}

func (f *fakeOnboarding) Start(ctx context.Context, s *domain.Session) domain.OnboardingProgress {
	return f.progress
}

func (f *fakeOnboarding) Deposit(ctx context.Context, s *domain.Session, amount string) (*domain.OnboardingCallResult, error) {
	f.lastAmount = amount
	return f.result, f.err
}

func (f *fakeOnboarding) CreateEvent(ctx context.Context, s *domain.Session, form domain.EventForm) (*domain.OnboardingCallResult, error) {
	f.lastForm = form
	return f.result, f.err
}

func (f *fakeOnboarding) CreateAnother(ctx context.Context, s *domain.Session) (domain.OnboardingProgress, error) {
	return f.progress, f.err
}

func (f *fakeOnboarding) Reset(ctx context.Context, id string) { f.resetCalled = true }

type fakeBoard struct {
	board        domain.Board
	refreshed    int
	events       map[uint64]*domain.Event
	outcome      domain.CallOutcome
	err          error
	lastRegister uint64
}

func (f *fakeBoard) List(ctx context.Context) domain.Board { return f.board }

func (f *fakeBoard) Refresh(ctx context.Context) domain.Board {
	f.refreshed++
	f.board.FetchedAt = f.board.FetchedAt.AddDate(0, 0, 1)
	return f.board
}

func (f *fakeBoard) Get(ctx context.Context, id uint64) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeBoard) RegisterAndStake(ctx context.Context, s *domain.Session, id uint64) (domain.CallOutcome, error) {
	f.lastRegister = id
	return f.outcome, f.err
}

type fakePanel struct {
	panel           domain.Panel
	result          *domain.PanelCallResult
	err             error
	lastSession     *domain.Session
	lastParticipant string
}

func (f *fakePanel) Load(ctx context.Context, s *domain.Session, e *domain.Event) domain.Panel {
	f.lastSession = s
	return f.panel
}

func (f *fakePanel) MarkAttendance(ctx context.Context, s *domain.Session, e *domain.Event, participant string) (*domain.PanelCallResult, error) {
	f.lastParticipant = participant
	return f.result, f.err
}

func (f *fakePanel) Refund(ctx context.Context, s *domain.Session, e *domain.Event) (*domain.PanelCallResult, error) {
	return f.result, f.err
}
