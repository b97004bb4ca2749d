package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/career-compass/internal/auth"
	"github.com/sakif/career-compass/internal/backend"
	"github.com/sakif/career-compass/internal/bootstrap"
	"github.com/sakif/career-compass/internal/config"
	"github.com/sakif/career-compass/internal/handler"
	"github.com/sakif/career-compass/internal/handoff"
	"github.com/sakif/career-compass/internal/popup"
	"github.com/sakif/career-compass/internal/repository"
	"github.com/sakif/career-compass/internal/repository/memory"
	"github.com/sakif/career-compass/internal/repository/redisstore"
	"github.com/sakif/career-compass/internal/repository/sqlite"
	"github.com/sakif/career-compass/internal/server"
	"github.com/sakif/career-compass/internal/service"
	"github.com/sakif/career-compass/internal/session"
	"github.com/sakif/career-compass/internal/ui"
)

// app is the composition root: every dependency is built here once.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	kv        repository.Store
	sessions  *session.Store
	console   *ui.Console
	scheduler *ui.WaitScheduler
	coord     *service.Coordinator
	boot      *bootstrap.Bootstrapper
	stdout    io.Writer

	credential string // Google credential handed to the token flow
}

func newApp(ctx context.Context, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	kv, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:        cfg,
		logger:     logger,
		kv:         kv,
		sessions:   session.NewStore(kv, logger),
		console:    ui.NewConsole(stdout),
		scheduler:  &ui.WaitScheduler{},
		stdout:     stdout,
		credential: cfg.GoogleCredential,
	}

	deps := service.Deps{
		Backend:   backend.New(cfg.APIBaseURL, nil),
		Sessions:  a.sessions,
		Surface:   a.console,
		Scheduler: a.scheduler,
		Mailbox:   handoff.NewMailbox(),
		Logger:    logger,
	}
	if cfg.GoogleClientID != "" {
		deps.Identity = auth.NewOneTap(func(context.Context) (string, error) {
			return a.credential, nil
		})
	}
	if cfg.LinkedInClientID != "" {
		deps.LinkedIn = auth.NewLinkedInProvider(cfg.LinkedInClientID, cfg.CallbackOrigin(), cfg.LinkedInScopes)
		deps.Opener = popup.NewBrowser(nil, logger)
	}

	a.coord = service.NewCoordinator(deps, service.Options{
		RedirectDelay:   cfg.RedirectDelay,
		PollInterval:    cfg.PollInterval,
		FlowTimeout:     cfg.FlowTimeout,
		ScreenWidth:     cfg.ScreenWidth,
		ScreenHeight:    cfg.ScreenHeight,
		RevokeOnSignOut: cfg.RevokeOnSignOut,
	})
	a.boot = bootstrap.New(a.sessions, a.coord, a.console, cfg.GoogleClientID, logger)

	return a, nil
}

func openStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memory.New(), nil
	case config.StoreRedis:
		return redisstore.Dial(ctx, redisstore.Options{
			Address:   cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			Namespace: cfg.RedisNamespace,
		})
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		return sqlite.New(cfg.DBPath)
	}
}

// Close waits for pending redirects, then releases the store.
func (a *app) Close() error {
	a.scheduler.Wait()
	return a.kv.Close()
}

// page loads the home page and returns the restored session.
func (a *app) page(ctx context.Context) (session.State, error) {
	view, err := a.boot.Load(ctx, bootstrap.Page{Path: ui.RouteHome})
	if err != nil {
		return session.Anonymous(), err
	}
	return view.State, nil
}

func (a *app) status(ctx context.Context) error {
	_, err := a.page(ctx)
	return err
}

func (a *app) loginGoogle(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login google", flag.ContinueOnError)
	credential := fs.String("credential", "", "Google ID token (defaults to CAREER_GOOGLE_CREDENTIAL)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *credential != "" {
		a.credential = *credential
	}
	if a.credential == "" {
		return fmt.Errorf("no Google credential: pass -credential or set CAREER_GOOGLE_CREDENTIAL")
	}

	st, err := a.sessions.Load(ctx)
	if err != nil {
		return err
	}

	var flowErr error
	delivered := false
	err = a.coord.InitializeTokenFlow(ctx, a.cfg.GoogleClientID, st, func(_ service.Result, err error) {
		delivered, flowErr = true, err
	})
	if err != nil {
		return err
	}
	if !delivered {
		return fmt.Errorf("google prompt did not produce a credential")
	}
	return flowErr
}

func (a *app) loginLinkedIn(ctx context.Context) error {
	st, err := a.page(ctx)
	if err != nil {
		return err
	}

	callbacks, err := handler.NewCallbackHandler(a.boot, a.logger)
	if err != nil {
		return fmt.Errorf("creating callback handler: %w", err)
	}
	srv := server.New(server.Config{Addr: a.cfg.CallbackAddr}, callbacks, handler.NewSessionHandler(a.sessions, a.logger), a.logger)
	if err := srv.Start(); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("stopping callback server", slog.String("error", err.Error()))
		}
	}()

	fmt.Fprintln(a.stdout, "Complete sign-in in your browser window...")
	_, err = a.coord.SignInWithLinkedIn(ctx, st)
	return err
}

func (a *app) loginPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login password", flag.ContinueOnError)
	in := service.LoginInput{}
	fs.StringVar(&in.Email, "email", "", "account email")
	fs.StringVar(&in.Password, "password", "", "account password")
	fs.BoolVar(&in.Remember, "remember", false, "ask the backend to remember this device")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := a.page(ctx)
	if err != nil {
		return err
	}
	_, err = a.coord.Login(ctx, st, in)
	return err
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	in := service.RegisterInput{}
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.Phone, "phone", "", "10-digit phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := a.page(ctx)
	if err != nil {
		return err
	}
	_, err = a.coord.Register(ctx, st, in)
	return err
}

func (a *app) logout(ctx context.Context) error {
	st, err := a.page(ctx)
	if err != nil {
		return err
	}
	_, err = a.coord.SignOut(ctx, st)
	return err
}

func (a *app) plan(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	st, err := a.page(ctx)
	if err != nil {
		return err
	}
	_, err = a.coord.SelectPlan(st, service.Plan(args[0]))
	return err
}

func (a *app) assessStart(ctx context.Context) error {
	st, err := a.page(ctx)
	if err != nil {
		return err
	}
	a.coord.StartAssessment(st)
	return nil
}

func (a *app) assessSubmit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("assess submit", flag.ContinueOnError)
	in := service.AssessmentInput{SoftSkills: map[string]int{}}
	fs.Func("skills", "comma-separated technical skills", func(v string) error {
		in.Skills = splitList(v)
		return nil
	})
	fs.Func("interests", "comma-separated interests", func(v string) error {
		in.Interests = splitList(v)
		return nil
	})
	fs.StringVar(&in.FutureGoals, "goals", "", "where you want to be in five years")
	for _, key := range []string{service.SoftCommunication, service.SoftLeadership, service.SoftProblemSolving, service.SoftTeamwork} {
		fs.Func(key, "self-rating from 1 to 5", func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("rating %q: %w", v, err)
			}
			in.SoftSkills[key] = n
			return nil
		})
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := a.page(ctx)
	if err != nil {
		return err
	}
	res, err := a.coord.SubmitAssessment(ctx, st, in)
	if err != nil {
		return err
	}
	return ui.WriteRecommendations(a.stdout, res)
}

// dashboard runs the assessment for the stored profile and prints the
// matches.
func (a *app) dashboard(ctx context.Context) error {
	st, err := a.page(ctx)
	if err != nil {
		return err
	}
	res, err := a.coord.RunAssessment(ctx, st)
	if err != nil {
		return err
	}
	return ui.WriteRecommendations(a.stdout, res)
}

func (a *app) learningPath(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	careerID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("career id %q: %w", args[0], err)
	}

	st, err := a.page(ctx)
	if err != nil {
		return err
	}
	path, err := a.coord.LearningPath(ctx, st, careerID)
	if err != nil {
		return err
	}
	return ui.WriteLearningPath(a.stdout, path)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
