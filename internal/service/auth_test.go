package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sakif/career-compass/internal/auth"
	"github.com/sakif/career-compass/internal/backend"
	"github.com/sakif/career-compass/internal/handoff"
	"github.com/sakif/career-compass/internal/model"
	"github.com/sakif/career-compass/internal/popup"
	"github.com/sakif/career-compass/internal/repository"
	"github.com/sakif/career-compass/internal/repository/memory"
	"github.com/sakif/career-compass/internal/session"
	"github.com/sakif/career-compass/internal/ui"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeBackend records every call and answers with resp (or err). The
// LinkedIn code exchange has its own answer so a whole redirect flow can be
// scripted.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	google   *backend.GoogleAuthRequest
	linkedin *backend.LinkedInAuthRequest
	register *backend.RegisterRequest
	login    *backend.LoginRequest
	code     string

	resp         *model.APIResponse
	err          error
	exchangeResp *model.APIResponse
	exchangeErr  error
	logoutErr    error

	assess     *backend.AssessRequest
	assessResp *model.AssessmentResponse
	path       *backend.LearningPathRequest
	pathResp   *model.LearningPathResponse
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) Register(_ context.Context, req backend.RegisterRequest) (*model.APIResponse, error) {
	f.record("register")
	f.register = &req
	return f.resp, f.err
}

func (f *fakeBackend) Login(_ context.Context, req backend.LoginRequest) (*model.APIResponse, error) {
	f.record("login")
	f.login = &req
	return f.resp, f.err
}

func (f *fakeBackend) Google(_ context.Context, req backend.GoogleAuthRequest) (*model.APIResponse, error) {
	f.record("google")
	f.google = &req
	return f.resp, f.err
}

func (f *fakeBackend) LinkedIn(_ context.Context, req backend.LinkedInAuthRequest) (*model.APIResponse, error) {
	f.record("linkedin")
	f.mu.Lock()
	f.linkedin = &req
	f.mu.Unlock()
	return f.resp, f.err
}

func (f *fakeBackend) LinkedInExchange(_ context.Context, code string) (*model.APIResponse, error) {
	f.record("linkedin_exchange")
	f.mu.Lock()
	f.code = code
	f.mu.Unlock()
	return f.exchangeResp, f.exchangeErr
}

func (f *fakeBackend) Logout(_ context.Context) (*model.APIResponse, error) {
	f.record("logout")
	return &model.APIResponse{Success: true}, f.logoutErr
}

func (f *fakeBackend) Assess(_ context.Context, req backend.AssessRequest) (*model.AssessmentResponse, error) {
	f.record("assess")
	f.assess = &req
	return f.assessResp, f.err
}

func (f *fakeBackend) LearningPath(_ context.Context, req backend.LearningPathRequest) (*model.LearningPathResponse, error) {
	f.record("learning_path")
	f.path = &req
	return f.pathResp, f.err
}

// fakeWindow is a popup the test can close.
type fakeWindow struct {
	closed atomic.Bool
}

func (w *fakeWindow) Closed() bool { return w.closed.Load() }
func (w *fakeWindow) Close()       { w.closed.Store(true) }

// fakeOpener hands out fakeWindows. onOpen, when set, plays the popup's part.
type fakeOpener struct {
	mu       sync.Mutex
	url      string
	geometry popup.Geometry
	window   *fakeWindow
	err      error
	onOpen   func(authURL string, w *fakeWindow)
}

func (o *fakeOpener) Open(_ context.Context, authURL string, g popup.Geometry) (popup.Window, error) {
	if o.err != nil {
		return nil, o.err
	}
	w := &fakeWindow{}
	o.mu.Lock()
	o.url, o.geometry, o.window = authURL, g, w
	o.mu.Unlock()
	if o.onOpen != nil {
		o.onOpen(authURL, w)
	}
	return w, nil
}

func (o *fakeOpener) Window() *fakeWindow {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.window
}

type harness struct {
	c        *Coordinator
	api      *fakeBackend
	kv       *memory.Store
	sessions *session.Store
	surface  *ui.Recorder
	identity *auth.OneTap
	opener   *fakeOpener
	mailbox  *handoff.Mailbox

	credential string // what the OneTap source hands out
}

// newHarness returns a Coordinator wired to fakes. Redirects run
// immediately and the popup is polled every few milliseconds.
func newHarness(t *testing.T, opts ...func(*Options)) *harness {
	t.Helper()

	h := &harness{
		api:     &fakeBackend{},
		kv:      memory.New(),
		surface: &ui.Recorder{},
		opener:  &fakeOpener{},
		mailbox: handoff.NewMailbox(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.sessions = session.NewStore(h.kv, logger)
	h.identity = auth.NewOneTap(func(context.Context) (string, error) { return h.credential, nil })

	o := Options{
		PollInterval: 5 * time.Millisecond,
		FlowTimeout:  2 * time.Second,
		ScreenWidth:  1280,
		ScreenHeight: 800,
	}
	for _, fn := range opts {
		fn(&o)
	}

	h.c = NewCoordinator(Deps{
		Backend:   h.api,
		Sessions:  h.sessions,
		Surface:   h.surface,
		Scheduler: ui.Immediate{},
		Identity:  h.identity,
		LinkedIn:  auth.NewLinkedInProvider("li-client", "http://127.0.0.1:8765", nil),
		Opener:    h.opener,
		Mailbox:   h.mailbox,
		Logger:    logger,
	}, o)
	return h
}

// storedUser reports whether a user is persisted.
func (h *harness) storedUser(t *testing.T) bool {
	t.Helper()
	_, err := h.kv.Get(context.Background(), repository.KeyUser)
	return err == nil
}

func (h *harness) loadState(t *testing.T) session.State {
	t.Helper()
	st, err := h.sessions.Load(context.Background())
	require.NoError(t, err)
	return st
}

func okResponse(user *model.User, isNew bool) *model.APIResponse {
	return &model.APIResponse{Success: true, User: user, IsNewUser: isNew}
}

// =========================================================================
// Coordinator TESTS
// =========================================================================

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()

	if o.RedirectDelay != time.Second {
		t.Errorf("RedirectDelay = %v, want 1s", o.RedirectDelay)
	}
	if o.PollInterval != time.Second {
		t.Errorf("PollInterval = %v, want 1s", o.PollInterval)
	}
	if o.FlowTimeout != 5*time.Minute {
		t.Errorf("FlowTimeout = %v, want 5m", o.FlowTimeout)
	}
}

func TestLanding(t *testing.T) {
	if got := landing(true); got != ui.RouteOnboarding {
		t.Errorf("landing(true) = %q, want %q", got, ui.RouteOnboarding)
	}
	if got := landing(false); got != ui.RouteDashboard {
		t.Errorf("landing(false) = %q, want %q", got, ui.RouteDashboard)
	}
}
