package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/career-compass/internal/apperror"
	"github.com/sakif/career-compass/internal/backend"
	"github.com/sakif/career-compass/internal/model"
	"github.com/sakif/career-compass/internal/session"
	"github.com/sakif/career-compass/internal/ui"
	"github.com/sakif/career-compass/internal/validate"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// LoginInput is the sign-in form.
type LoginInput struct {
	Email    string
	Password string
	Remember bool
}

const genericFormError = "An error occurred. Please try again."

// Register validates the form, creates the account and signs the new user
// in with method password. New accounts always land on onboarding.
func (c *Coordinator) Register(ctx context.Context, current session.State, in RegisterInput) (Result, error) {
	if err := c.checkForm(
		validate.Required("firstName", "first name", in.FirstName),
		validate.Required("lastName", "last name", in.LastName),
		validate.Email(in.Email),
		validate.Password(in.Password),
		validate.Phone(in.Phone),
	); err != nil {
		return unchanged(current), err
	}

	resp, err := c.api.Register(ctx, backend.RegisterRequest{
		Name:     strings.TrimSpace(in.FirstName + " " + in.LastName),
		Email:    in.Email,
		Password: in.Password,
		Phone:    in.Phone,
	})
	if err != nil {
		c.logger.Error("registration", slog.String("error", err.Error()))
		c.surface.Toast(ui.LevelError, genericFormError)
		return unchanged(current), fmt.Errorf("service: register: %w", err)
	}

	return c.finishPassword(ctx, current, resp, "Account created successfully!", "Registration failed", ui.RouteOnboarding)
}

// Login validates the email and signs in with method password.
func (c *Coordinator) Login(ctx context.Context, current session.State, in LoginInput) (Result, error) {
	if err := c.checkForm(validate.Email(in.Email)); err != nil {
		return unchanged(current), err
	}

	resp, err := c.api.Login(ctx, backend.LoginRequest{
		Email:    in.Email,
		Password: in.Password,
		Remember: in.Remember,
	})
	if err != nil {
		c.logger.Error("login", slog.String("error", err.Error()))
		c.surface.Toast(ui.LevelError, genericFormError)
		return unchanged(current), fmt.Errorf("service: login: %w", err)
	}

	return c.finishPassword(ctx, current, resp, "Welcome back!", "Invalid credentials", ui.RouteDashboard)
}

// checkForm toasts and returns the first validation failure.
func (c *Coordinator) checkForm(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			c.surface.Toast(ui.LevelError, apperror.MessageOf(err, "Invalid input"))
			return err
		}
	}
	return nil
}

// finishPassword settles a form submission on the backend's success flag. A
// success without a user (registration on backends that only return an id)
// confirms and redirects but establishes no session.
func (c *Coordinator) finishPassword(ctx context.Context, current session.State, resp *model.APIResponse, welcome, rejected, route string) (Result, error) {
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = rejected
		}
		c.surface.Toast(ui.LevelError, msg)
		return unchanged(current), apperror.Rejected(msg)
	}

	if resp.User == nil {
		c.logger.Info("account accepted without a session", slog.String("route", route))
		c.surface.CloseModals()
		c.surface.Toast(ui.LevelSuccess, welcome)
		c.redirect(route)
		return Result{State: current, Redirect: route, NewUser: route == ui.RouteOnboarding}, nil
	}

	res, err := c.establish(ctx, current, resp.User, model.AuthMethodPassword, welcome, route)
	if err != nil {
		c.logger.Error("storing session", slog.String("error", err.Error()))
		c.surface.Toast(ui.LevelError, genericFormError)
		return res, err
	}
	res.NewUser = route == ui.RouteOnboarding
	return res, nil
}
