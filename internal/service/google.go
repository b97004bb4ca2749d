package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/career-compass/internal/apperror"
	"github.com/sakif/career-compass/internal/auth"
	"github.com/sakif/career-compass/internal/backend"
	"github.com/sakif/career-compass/internal/model"
	"github.com/sakif/career-compass/internal/session"
	"github.com/sakif/career-compass/internal/ui"
)

// ErrGoogleNotConfigured is returned by InitializeTokenFlow when there is no
// identity client or client ID.
var ErrGoogleNotConfigured = apperror.ValidationFailed("googleClientId", "Google sign-in is not configured")

// InitializeTokenFlow registers the credential callback with the identity
// client and asks it for the auto prompt. When a credential arrives it is
// run through HandleCredential against current, and done receives the
// outcome. done may be nil.
func (c *Coordinator) InitializeTokenFlow(ctx context.Context, clientID string, current session.State, done func(Result, error)) error {
	if c.identity == nil || clientID == "" {
		return ErrGoogleNotConfigured
	}
	if done == nil {
		done = func(Result, error) {}
	}

	c.identity.Initialize(auth.IdentityOptions{
		ClientID: clientID,
		Callback: func(ctx context.Context, cred auth.Credential) {
			done(c.HandleCredential(ctx, current, cred.Raw))
		},
		AutoSelect:         false,
		CancelOnTapOutside: true,
	})

	c.identity.Prompt(ctx, func(m auth.PromptMoment) {
		switch {
		case m.Skipped:
			c.logger.Info("google prompt skipped", slog.String("reason", m.Reason))
		case !m.Displayed:
			c.logger.Info("google prompt not displayed", slog.String("reason", m.Reason))
		}
	})
	return nil
}

// HandleCredential decodes a Google credential and exchanges it with the
// backend. A credential that does not decode is logged and leaves the
// session alone.
func (c *Coordinator) HandleCredential(ctx context.Context, current session.State, raw string) (Result, error) {
	identity, err := auth.DecodeCredential(raw)
	if err != nil {
		c.logger.Error("parsing google credential", slog.String("error", err.Error()))
		return unchanged(current), err
	}
	return c.ExchangeGoogle(ctx, current, identity, raw)
}

// ExchangeGoogle posts the credential and its claims to /auth/google. On
// success the session is saved with method google and the page is sent to
// onboarding or the dashboard.
func (c *Coordinator) ExchangeGoogle(ctx context.Context, current session.State, identity *auth.GoogleIdentity, raw string) (Result, error) {
	c.surface.Toast(ui.LevelInfo, "Signing in with Google...")

	resp, err := c.api.Google(ctx, backend.GoogleAuthRequest{
		Token:    raw,
		Email:    identity.Email,
		Name:     identity.Name,
		Picture:  identity.Picture,
		GoogleID: identity.Subject,
	})
	if err != nil {
		c.logger.Error("google login", slog.String("error", err.Error()))
		c.surface.Toast(ui.LevelError, "An error occurred during Google sign-in")
		return unchanged(current), fmt.Errorf("service: google exchange: %w", err)
	}

	return c.finishProvider(ctx, current, resp, model.AuthMethodGoogle, identity.Name, "Google sign-in failed", "An error occurred during Google sign-in")
}

// finishProvider handles the backend's answer to a provider exchange, which
// is shared by Google and LinkedIn.
func (c *Coordinator) finishProvider(ctx context.Context, current session.State, resp *model.APIResponse, method model.AuthMethod, name, rejected, failed string) (Result, error) {
	if !resp.Success || resp.User == nil {
		msg := resp.Message
		if msg == "" {
			msg = rejected
		}
		c.surface.Toast(ui.LevelError, msg)
		return unchanged(current), apperror.Rejected(msg)
	}

	if name == "" {
		name = resp.User.DisplayName()
	}

	res, err := c.establish(ctx, current, resp.User, method, fmt.Sprintf("Welcome, %s!", name), landing(resp.IsNewUser))
	if err != nil {
		c.logger.Error("storing session", slog.String("error", err.Error()))
		c.surface.Toast(ui.LevelError, failed)
		return res, err
	}
	res.NewUser = resp.IsNewUser
	return res, nil
}
