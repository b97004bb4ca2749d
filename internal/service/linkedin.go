package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/career-compass/internal/apperror"
	"github.com/sakif/career-compass/internal/auth"
	"github.com/sakif/career-compass/internal/backend"
	"github.com/sakif/career-compass/internal/handoff"
	"github.com/sakif/career-compass/internal/model"
	"github.com/sakif/career-compass/internal/popup"
	"github.com/sakif/career-compass/internal/session"
	"github.com/sakif/career-compass/internal/ui"
)

// ErrLinkedInNotConfigured is returned when no LinkedIn provider or popup
// opener is wired.
var ErrLinkedInNotConfigured = apperror.ValidationFailed("linkedinClientId", "LinkedIn sign-in is not configured")

// Flow is one redirect sign-in in progress.
type Flow struct {
	ID      string
	AuthURL string

	port   *handoff.Port
	window popup.Window
}

// Outcome is how a redirect flow ended. Exactly one is reported per flow.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed" // popup delivered a user
	OutcomeFailed    Outcome = "failed"    // popup reported an error
	OutcomeClosed    Outcome = "closed"    // popup went away with nothing
	OutcomeTimedOut  Outcome = "timed_out"
	OutcomeCancelled Outcome = "cancelled"
)

// Completion is the terminal result of WaitForCompletion.
type Completion struct {
	Outcome Outcome
	User    *model.User // set for OutcomeCompleted
	Reason  string      // set for OutcomeFailed
}

// BeginRedirectFlow creates and persists a fresh state token, opens a
// mailbox port and shows the LinkedIn authorization page in a centred
// popup. The state in the URL is the state that was stored.
func (c *Coordinator) BeginRedirectFlow(ctx context.Context) (*Flow, error) {
	if c.linkedin == nil || c.opener == nil {
		return nil, ErrLinkedInNotConfigured
	}

	state, err := auth.NewState()
	if err != nil {
		return nil, fmt.Errorf("service: creating oauth state: %w", err)
	}
	if err := c.sessions.PutOAuthState(ctx, state); err != nil {
		return nil, fmt.Errorf("service: storing oauth state: %w", err)
	}

	flow := &Flow{
		ID:      xid.New().String(),
		AuthURL: c.linkedin.AuthURL(state),
	}
	flow.port = c.mailbox.Open(flow.ID)

	g := popup.Centered(c.opts.ScreenWidth, c.opts.ScreenHeight, popup.DefaultWidth, popup.DefaultHeight)
	win, err := c.opener.Open(ctx, flow.AuthURL, g)
	if err != nil {
		c.mailbox.Release(flow.port)
		if derr := c.sessions.DiscardOAuthState(ctx); derr != nil {
			c.logger.Warn("discarding oauth state", slog.String("error", derr.Error()))
		}
		return nil, fmt.Errorf("service: opening linkedin popup: %w", err)
	}
	flow.window = win

	c.logger.Info("linkedin flow started", slog.String("flowID", flow.ID))
	return flow, nil
}

// WaitForCompletion blocks until the flow reaches a terminal outcome: a
// message from the popup, the popup closing, the flow timeout, or ctx being
// done. The port is always released and every timer stopped. On timeout,
// cancellation and failure the popup is closed as well.
func (c *Coordinator) WaitForCompletion(ctx context.Context, flow *Flow) Completion {
	timeout := time.NewTimer(c.opts.FlowTimeout)
	defer timeout.Stop()
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()
	defer c.mailbox.Release(flow.port)

	for {
		select {
		case msg := <-flow.port.Messages():
			return c.fromMessage(flow, msg)

		case <-flow.port.Done():
			// The popup hung up. It may have posted just before.
			flow.window.Close()
			return c.drain(flow)

		case <-ticker.C:
			if flow.window.Closed() {
				return c.drain(flow)
			}

		case <-timeout.C:
			flow.window.Close()
			c.logger.Warn("linkedin flow timed out",
				slog.String("flowID", flow.ID),
				slog.Duration("after", c.opts.FlowTimeout),
			)
			return Completion{Outcome: OutcomeTimedOut}

		case <-ctx.Done():
			flow.window.Close()
			return Completion{Outcome: OutcomeCancelled}
		}
	}
}

// drain reports a message that is already buffered, or OutcomeClosed.
func (c *Coordinator) drain(flow *Flow) Completion {
	select {
	case msg := <-flow.port.Messages():
		return c.fromMessage(flow, msg)
	default:
		return Completion{Outcome: OutcomeClosed}
	}
}

func (c *Coordinator) fromMessage(flow *Flow, msg handoff.Message) Completion {
	if msg.Kind == handoff.KindResult && msg.User != nil {
		return Completion{Outcome: OutcomeCompleted, User: msg.User}
	}

	flow.window.Close()
	reason := msg.Error
	if reason == "" {
		reason = "popup sent no user"
	}
	c.logger.Warn("linkedin flow failed",
		slog.String("flowID", flow.ID),
		slog.String("reason", reason),
	)
	return Completion{Outcome: OutcomeFailed, Reason: reason}
}

// CallbackResult is what the callback route reports to the popup page.
type CallbackResult struct {
	Delivered bool   // the opener received the user
	Reason    string // why not, when Delivered is false
}

// Reasons shown on the callback page when nothing reached the opener.
const (
	reasonStateMismatch = "State mismatch in OAuth callback"
	reasonMissingParams = "Callback is missing code or state"
	reasonNoOpener      = "No sign-in is waiting for this result"
)

// HandleCallbackRedirect runs on the callback route inside the popup.
//
// Only a callback carrying the stored state belongs to the pending flow. A
// callback with a missing or mismatched state is logged and answered on the
// page, and the pending flow keeps waiting for the genuine one. A matching
// callback consumes the state, settles the flow with exactly one message and
// hangs up.
func (c *Coordinator) HandleCallbackRedirect(ctx context.Context, query url.Values) CallbackResult {
	providerErr, code, returned := query.Get("error"), query.Get("code"), query.Get("state")

	if returned == "" || (providerErr == "" && code == "") {
		c.logger.Warn("linkedin callback ignored", slog.String("reason", reasonMissingParams))
		return CallbackResult{Reason: reasonMissingParams}
	}

	stored, err := c.sessions.OAuthState(ctx)
	if err != nil {
		c.logger.Error("reading oauth state", slog.String("error", err.Error()))
		return CallbackResult{Reason: reasonStateMismatch}
	}
	if !auth.StateMatches(returned, stored) {
		c.logger.Warn("linkedin callback ignored", slog.String("reason", reasonStateMismatch))
		return CallbackResult{Reason: reasonStateMismatch}
	}

	defer c.mailbox.Hangup()

	user, err := c.settleCallback(ctx, providerErr, code)
	if err != nil {
		reason := apperror.MessageOf(err, err.Error())
		c.logger.Warn("linkedin callback", slog.String("error", err.Error()))
		if perr := c.mailbox.Post(handoff.Failure(reason)); perr != nil {
			c.logger.Warn("posting to opener", slog.String("error", perr.Error()))
		}
		return CallbackResult{Reason: reason}
	}

	if err := c.mailbox.Post(handoff.Result(user)); err != nil {
		c.logger.Warn("posting to opener", slog.String("error", err.Error()))
		return CallbackResult{Reason: reasonNoOpener}
	}
	return CallbackResult{Delivered: true}
}

// settleCallback consumes the stored state and turns a verified callback
// into a user: a provider error ends the flow, a code is exchanged.
func (c *Coordinator) settleCallback(ctx context.Context, providerErr, code string) (*model.User, error) {
	if err := c.sessions.DiscardOAuthState(ctx); err != nil {
		return nil, fmt.Errorf("service: discarding oauth state: %w", err)
	}
	if providerErr != "" {
		return nil, apperror.Protocol("OAuth error: " + providerErr)
	}

	resp, err := c.api.LinkedInExchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("service: exchanging linkedin code: %w", err)
	}
	if !resp.Success || resp.User == nil {
		msg := resp.Message
		if msg == "" {
			msg = "LinkedIn code exchange failed"
		}
		return nil, apperror.Rejected(msg)
	}
	return resp.User, nil
}

// ExchangeLinkedIn posts the profile the popup delivered to /auth/linkedin
// and, on success, saves the session with method linkedin.
func (c *Coordinator) ExchangeLinkedIn(ctx context.Context, current session.State, user *model.User) (Result, error) {
	c.surface.Toast(ui.LevelInfo, "Signing in with LinkedIn...")

	resp, err := c.api.LinkedIn(ctx, backend.LinkedInAuthRequest{
		Email:      user.Email,
		Name:       user.Name,
		LinkedInID: user.ID,
		Picture:    user.Picture,
	})
	if err != nil {
		c.logger.Error("linkedin login", slog.String("error", err.Error()))
		c.surface.Toast(ui.LevelError, "An error occurred during LinkedIn sign-in")
		return unchanged(current), fmt.Errorf("service: linkedin exchange: %w", err)
	}

	return c.finishProvider(ctx, current, resp, model.AuthMethodLinkedIn, user.Name, "LinkedIn sign-in failed", "An error occurred during LinkedIn sign-in")
}

// SignInWithLinkedIn runs a whole redirect flow: open the popup, wait for
// it, and exchange the delivered profile. A popup that closes without
// delivering a user leaves the session alone and calls no endpoint.
func (c *Coordinator) SignInWithLinkedIn(ctx context.Context, current session.State) (Result, error) {
	flow, err := c.BeginRedirectFlow(ctx)
	if err != nil {
		if !errors.Is(err, apperror.ErrValidation) {
			c.surface.Toast(ui.LevelError, "An error occurred during LinkedIn sign-in")
		}
		return unchanged(current), err
	}

	done := c.WaitForCompletion(ctx, flow)
	switch done.Outcome {
	case OutcomeCompleted:
		return c.ExchangeLinkedIn(ctx, current, done.User)
	case OutcomeFailed:
		c.surface.Toast(ui.LevelError, "LinkedIn sign-in was not completed")
		return unchanged(current), apperror.Protocol(done.Reason)
	case OutcomeTimedOut:
		c.surface.Toast(ui.LevelError, "LinkedIn sign-in was not completed")
		return unchanged(current), apperror.Timeout("linkedin sign-in timed out")
	case OutcomeCancelled:
		return unchanged(current), apperror.Cancelled("linkedin sign-in cancelled")
	default:
		c.logger.Info("linkedin popup closed without a result", slog.String("flowID", flow.ID))
		return unchanged(current), nil
	}
}
