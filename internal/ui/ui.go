// Package ui is the presentation port of the client: toasts, modals, the
// navigation bar and page navigation. Sign-in flows talk to a Surface and
// never render anything themselves.
package ui

import (
	"sync"
	"time"

	"github.com/sakif/career-compass/internal/session"
)

// Routes the flows navigate to.
const (
	RouteHome       = "/"
	RouteOnboarding = "/assessment"
	RouteDashboard  = "/dashboard"
	RouteProfile    = "/profile"
	RouteSettings   = "/settings"
	RouteCheckout   = "/checkout"
	RouteContact    = "/contact"
)

// RedirectDelay is how long a confirmation stays visible before navigating.
const RedirectDelay = time.Second

// Level is a toast severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Surface is everything a flow may do to the screen.
type Surface interface {
	Toast(level Level, message string)
	CloseModals()
	ShowLogin()
	RenderNav(nav Nav)
	Navigate(route string)
}

// Link is one navigation entry.
type Link struct {
	Label string
	Route string
}

// Nav is the navigation bar's auth area: either sign-in controls or the
// signed-in user's menu.
type Nav struct {
	Authenticated bool
	DisplayName   string
	Picture       string
	Links         []Link
}

// NavFor builds the nav for st.
func NavFor(st session.State) Nav {
	if !st.IsAuthenticated || st.User == nil {
		return Nav{
			Links: []Link{
				{Label: "Sign In", Route: "#login"},
				{Label: "Register", Route: "#register"},
			},
		}
	}
	return Nav{
		Authenticated: true,
		DisplayName:   st.User.DisplayName(),
		Picture:       st.User.Picture,
		Links: []Link{
			{Label: "Dashboard", Route: RouteDashboard},
			{Label: "Profile", Route: RouteProfile},
			{Label: "Settings", Route: RouteSettings},
			{Label: "Sign Out", Route: "#signout"},
		},
	}
}

// Scheduler runs fn after d. Flows use it for delayed redirects.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler schedules on real timers.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// WaitScheduler schedules on real timers and lets the caller wait for
// everything scheduled so far. A CLI process uses it so a delayed redirect
// still happens before exit.
type WaitScheduler struct {
	wg sync.WaitGroup
}

func (s *WaitScheduler) After(d time.Duration, fn func()) {
	s.wg.Add(1)
	time.AfterFunc(d, func() {
		defer s.wg.Done()
		fn()
	})
}

// Wait blocks until every scheduled fn has run.
func (s *WaitScheduler) Wait() {
	s.wg.Wait()
}

// Immediate runs fn straight away, ignoring the delay.
type Immediate struct{}

func (Immediate) After(_ time.Duration, fn func()) { fn() }
