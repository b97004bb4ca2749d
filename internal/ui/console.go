package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console renders a Surface as plain text lines on w. Navigation is recorded
// rather than performed: a terminal has no page to leave, so the last route
// is kept for the caller to report.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	route string
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Toast(level Level, message string) {
	c.printf("[%s] %s\n", level, message)
}

func (c *Console) CloseModals() {}

func (c *Console) ShowLogin() {
	c.printf("Sign in with: careerctl login google | linkedin | password\n")
}

func (c *Console) RenderNav(nav Nav) {
	if !nav.Authenticated {
		labels := make([]string, 0, len(nav.Links))
		for _, l := range nav.Links {
			labels = append(labels, l.Label)
		}
		c.printf("Not signed in (%s)\n", strings.Join(labels, " | "))
		return
	}

	routes := make([]string, 0, len(nav.Links))
	for _, l := range nav.Links {
		routes = append(routes, fmt.Sprintf("%s %s", l.Label, l.Route))
	}
	c.printf("Signed in as %s\n  %s\n", nav.DisplayName, strings.Join(routes, "\n  "))
}

func (c *Console) Navigate(route string) {
	c.mu.Lock()
	c.route = route
	c.mu.Unlock()
	c.printf("→ %s\n", route)
}

// Route returns the last route navigated to.
func (c *Console) Route() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.route
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}
