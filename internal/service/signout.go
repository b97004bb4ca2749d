package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/career-compass/internal/model"
	"github.com/sakif/career-compass/internal/session"
	"github.com/sakif/career-compass/internal/ui"
)

// SignOut forgets the stored session and returns the anonymous state.
//
// The auth method is read before anything is cleared so a Google session
// can turn off auto-select. The backend is only told when RevokeOnSignOut
// is set, and a failure there is logged, never surfaced.
func (c *Coordinator) SignOut(ctx context.Context, current session.State) (Result, error) {
	method := current.AuthMethod
	if stored, err := c.sessions.AuthMethod(ctx); err != nil {
		c.logger.Warn("reading auth method", slog.String("error", err.Error()))
	} else if stored != "" {
		method = stored
	}

	if err := c.sessions.Clear(ctx); err != nil {
		return unchanged(current), fmt.Errorf("service: sign out: %w", err)
	}

	if method == model.AuthMethodGoogle && c.identity != nil {
		c.identity.DisableAutoSelect()
	}

	if c.opts.RevokeOnSignOut {
		if _, err := c.api.Logout(ctx); err != nil {
			c.logger.Warn("backend logout", slog.String("error", err.Error()))
		}
	}

	next := session.Anonymous()
	c.logger.Info("user signed out", slog.String("method", string(method)))

	c.surface.RenderNav(ui.NavFor(next))
	c.surface.Toast(ui.LevelInfo, "You have been signed out")
	c.redirect(ui.RouteHome)

	return Result{State: next, Redirect: ui.RouteHome}, nil
}
