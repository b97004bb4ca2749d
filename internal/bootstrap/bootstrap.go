// Package bootstrap rebuilds the auth state on every page load.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/sakif/career-compass/internal/apperror"
	"github.com/sakif/career-compass/internal/auth"
	"github.com/sakif/career-compass/internal/service"
	"github.com/sakif/career-compass/internal/session"
	"github.com/sakif/career-compass/internal/ui"
)

// Flows is the part of service.Coordinator a page load needs.
type Flows interface {
	HandleCallbackRedirect(ctx context.Context, query url.Values) service.CallbackResult
	InitializeTokenFlow(ctx context.Context, clientID string, current session.State, done func(service.Result, error)) error
}

// Page is the location being loaded.
type Page struct {
	Path  string
	Query url.Values
}

// View is what a page load produced. Callback is set, and nothing else,
// when the page was the OAuth callback route.
type View struct {
	State    session.State
	Nav      ui.Nav
	Callback *service.CallbackResult
}

// Bootstrapper runs page loads.
type Bootstrapper struct {
	sessions       *session.Store
	flows          Flows
	surface        ui.Surface
	googleClientID string
	logger         *slog.Logger
}

// New returns a Bootstrapper. An empty googleClientID skips the speculative
// Google prompt.
func New(sessions *session.Store, flows Flows, surface ui.Surface, googleClientID string, logger *slog.Logger) *Bootstrapper {
	return &Bootstrapper{
		sessions:       sessions,
		flows:          flows,
		surface:        surface,
		googleClientID: googleClientID,
		logger:         logger,
	}
}

// Load restores the session from storage and renders the nav for it.
//
// On the callback route it only finishes the redirect flow. Otherwise, for
// a signed-out visitor with Google configured, it starts the token flow; a
// credential delivered during the prompt is reflected in the returned View.
func (b *Bootstrapper) Load(ctx context.Context, page Page) (View, error) {
	if page.Path == auth.CallbackPath {
		res := b.flows.HandleCallbackRedirect(ctx, page.Query)
		return View{Callback: &res}, nil
	}

	if err := b.sessions.ClearLegacyHandoff(ctx); err != nil {
		b.logger.Warn("clearing legacy handoff", slog.String("error", err.Error()))
	}

	st, err := b.sessions.Load(ctx)
	if err != nil {
		return View{State: st, Nav: ui.NavFor(st)}, fmt.Errorf("bootstrap: loading session: %w", err)
	}
	b.surface.RenderNav(ui.NavFor(st))

	if b.googleClientID != "" && !st.IsAuthenticated {
		st = b.promptGoogle(ctx, st)
	}

	return View{State: st, Nav: ui.NavFor(st)}, nil
}

// promptGoogle initializes the token flow and returns the state after any
// sign-in that completed while the prompt was up.
func (b *Bootstrapper) promptGoogle(ctx context.Context, st session.State) session.State {
	var (
		mu   sync.Mutex
		next = st
	)
	err := b.flows.InitializeTokenFlow(ctx, b.googleClientID, st, func(res service.Result, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		next = res.State
		mu.Unlock()
	})
	if err != nil && !errors.Is(err, apperror.ErrValidation) {
		b.logger.Warn("initializing google sign-in", slog.String("error", err.Error()))
	}

	mu.Lock()
	defer mu.Unlock()
	return next
}
