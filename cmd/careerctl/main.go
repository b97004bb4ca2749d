// Command careerctl signs in to Career Compass from a terminal.
//
// Usage:
//
//	careerctl status
//	careerctl login google [-credential JWT]
//	careerctl login linkedin
//	careerctl login password -email a@b.com -password ...
//	careerctl register -first Ada -last Lovelace -email ... -password ... -phone ...
//	careerctl logout
//	careerctl assess start
//	careerctl assess submit -skills Python,SQL -interests technology -communication 4 ...
//	careerctl dashboard
//	careerctl path CAREER_ID
//	careerctl plan starter|professional|enterprise
//
// Configuration comes from CAREER_* environment variables (see
// internal/config). The session is kept in the configured store, so it
// survives between invocations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		slog.Error("careerctl failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

const usage = `usage: careerctl <command> [flags]

commands:
  status                      show who is signed in
  login google                sign in with a Google credential
  login linkedin              sign in through the LinkedIn popup
  login password              sign in with email and password
  register                    create an account
  logout                      sign out
  assess start                open the assessment
  assess submit               submit assessment answers
  dashboard                   show your career matches
  path CAREER_ID              show the learning path to a career
  plan TIER                   choose starter, professional or enterprise`

var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	app, err := newApp(ctx, stdout, stderr)
	if err != nil {
		return err
	}
	defer app.Close()

	switch args[0] {
	case "status":
		return app.status(ctx)
	case "login":
		if len(args) < 2 {
			return errUsage
		}
		switch args[1] {
		case "google":
			return app.loginGoogle(ctx, args[2:])
		case "linkedin":
			return app.loginLinkedIn(ctx)
		case "password":
			return app.loginPassword(ctx, args[2:])
		}
		return errUsage
	case "register":
		return app.register(ctx, args[1:])
	case "logout":
		return app.logout(ctx)
	case "assess":
		if len(args) < 2 {
			return errUsage
		}
		switch args[1] {
		case "start":
			return app.assessStart(ctx)
		case "submit":
			return app.assessSubmit(ctx, args[2:])
		}
		return errUsage
	case "dashboard":
		return app.dashboard(ctx)
	case "path":
		return app.learningPath(ctx, args[1:])
	case "plan":
		return app.plan(ctx, args[1:])
	}
	return errUsage
}
