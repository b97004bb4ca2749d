// Package service drives the sign-in flows.
//
// Coordinator sits between the page (ui.Surface) and everything a flow
// touches. Besides sign-in and sign-out it runs the actions gated on a
// session: starting the assessment, choosing a plan and the career calls.
//
//	page → Coordinator → Backend        (credential exchange)
//	                   ↘ session.Store  (persisted session, OAuth state)
//	                   ↘ IdentityClient (Google token flow)
//	                   ↘ popup.Opener + handoff.Mailbox (LinkedIn redirect flow)
//
// Operations take the caller's current session.State and return the next
// one in a Result. A failed operation returns the state it was given.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/career-compass/internal/auth"
	"github.com/sakif/career-compass/internal/backend"
	"github.com/sakif/career-compass/internal/handoff"
	"github.com/sakif/career-compass/internal/model"
	"github.com/sakif/career-compass/internal/popup"
	"github.com/sakif/career-compass/internal/session"
	"github.com/sakif/career-compass/internal/ui"
)

// Backend is the subset of the API the flows call. *backend.Client
// satisfies it.
type Backend interface {
	Register(ctx context.Context, req backend.RegisterRequest) (*model.APIResponse, error)
	Login(ctx context.Context, req backend.LoginRequest) (*model.APIResponse, error)
	Google(ctx context.Context, req backend.GoogleAuthRequest) (*model.APIResponse, error)
	LinkedIn(ctx context.Context, req backend.LinkedInAuthRequest) (*model.APIResponse, error)
	LinkedInExchange(ctx context.Context, code string) (*model.APIResponse, error)
	Logout(ctx context.Context) (*model.APIResponse, error)
	Assess(ctx context.Context, req backend.AssessRequest) (*model.AssessmentResponse, error)
	LearningPath(ctx context.Context, req backend.LearningPathRequest) (*model.LearningPathResponse, error)
}

// Defaults for Options left at zero.
const (
	DefaultPollInterval = time.Second
	DefaultFlowTimeout  = 5 * time.Minute
	DefaultScreenWidth  = 1920
	DefaultScreenHeight = 1080
)

// Options tunes timings and popup placement.
type Options struct {
	RedirectDelay   time.Duration
	PollInterval    time.Duration
	FlowTimeout     time.Duration
	ScreenWidth     int
	ScreenHeight    int
	RevokeOnSignOut bool
}

func (o Options) withDefaults() Options {
	if o.RedirectDelay <= 0 {
		o.RedirectDelay = ui.RedirectDelay
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.FlowTimeout <= 0 {
		o.FlowTimeout = DefaultFlowTimeout
	}
	if o.ScreenWidth <= 0 {
		o.ScreenWidth = DefaultScreenWidth
	}
	if o.ScreenHeight <= 0 {
		o.ScreenHeight = DefaultScreenHeight
	}
	return o
}

// Deps are the collaborators a Coordinator is built from. Identity, LinkedIn
// and Opener may be nil when the matching provider is not configured.
type Deps struct {
	Backend   Backend
	Sessions  *session.Store
	Surface   ui.Surface
	Scheduler ui.Scheduler
	Identity  auth.IdentityClient
	LinkedIn  *auth.LinkedInProvider
	Opener    popup.Opener
	Mailbox   *handoff.Mailbox
	Logger    *slog.Logger
}

// Coordinator runs the sign-in and sign-out flows.
type Coordinator struct {
	api       Backend
	sessions  *session.Store
	surface   ui.Surface
	scheduler ui.Scheduler
	identity  auth.IdentityClient
	linkedin  *auth.LinkedInProvider
	opener    popup.Opener
	mailbox   *handoff.Mailbox
	logger    *slog.Logger
	opts      Options
}

// NewCoordinator wires a Coordinator. Call it once from main.
func NewCoordinator(deps Deps, opts Options) *Coordinator {
	if deps.Scheduler == nil {
		deps.Scheduler = ui.TimerScheduler{}
	}
	if deps.Mailbox == nil {
		deps.Mailbox = handoff.NewMailbox()
	}
	return &Coordinator{
		api:       deps.Backend,
		sessions:  deps.Sessions,
		surface:   deps.Surface,
		scheduler: deps.Scheduler,
		identity:  deps.Identity,
		linkedin:  deps.LinkedIn,
		opener:    deps.Opener,
		mailbox:   deps.Mailbox,
		logger:    deps.Logger,
		opts:      opts.withDefaults(),
	}
}

// Result is what a flow hands back to the page.
type Result struct {
	State    session.State
	Redirect string // route scheduled after RedirectDelay, "" when none
	NewUser  bool
}

// unchanged is the Result of a flow that did not alter the session.
func unchanged(st session.State) Result {
	return Result{State: st}
}

// establish persists a session returned by the backend and updates the page:
// close modals, re-render the nav, toast, then navigate after the delay.
func (c *Coordinator) establish(ctx context.Context, prev session.State, user *model.User, method model.AuthMethod, welcome, route string) (Result, error) {
	next := session.Authenticated(user, method)
	if err := c.sessions.Save(ctx, next); err != nil {
		return unchanged(prev), fmt.Errorf("service: saving %s session: %w", method, err)
	}

	c.logger.Info("user signed in",
		slog.String("userID", user.ID),
		slog.String("method", string(method)),
	)

	c.surface.CloseModals()
	c.surface.RenderNav(ui.NavFor(next))
	c.surface.Toast(ui.LevelSuccess, welcome)
	c.redirect(route)

	return Result{State: next, Redirect: route}, nil
}

func (c *Coordinator) redirect(route string) {
	c.scheduler.After(c.opts.RedirectDelay, func() {
		c.surface.Navigate(route)
	})
}

// landing is where a freshly signed-in user goes.
func landing(isNewUser bool) string {
	if isNewUser {
		return ui.RouteOnboarding
	}
	return ui.RouteDashboard
}
