// Package handler contains the HTTP handlers of the loopback callback
// server: the page the LinkedIn popup lands on, and a JSON view of the
// stored session.
package handler

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/sakif/career-compass/internal/bootstrap"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageLoader runs a page load. *bootstrap.Bootstrapper satisfies it.
type PageLoader interface {
	Load(ctx context.Context, page bootstrap.Page) (bootstrap.View, error)
}

// CallbackHandler serves the OAuth callback page. Templates are parsed once
// at construction.
type CallbackHandler struct {
	pages     PageLoader
	templates *template.Template
	logger    *slog.Logger
}

func NewCallbackHandler(pages PageLoader, logger *slog.Logger) (*CallbackHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/callback.html")
	if err != nil {
		return nil, err
	}
	return &CallbackHandler{
		pages:     pages,
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandleCallback finishes a redirect flow and tells the user they can close
// the window.
//
// HTTP: GET /auth/linkedin/callback?code=xxx&state=yyy
func (h *CallbackHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	view, err := h.pages.Load(r.Context(), bootstrap.Page{
		Path:  r.URL.Path,
		Query: r.URL.Query(),
	})
	if err != nil || view.Callback == nil {
		if err != nil {
			h.logger.Error("callback page load", slog.String("error", err.Error()))
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Title":     "LinkedIn sign-in | Career Compass",
		"Delivered": view.Callback.Delivered,
		"Reason":    view.Callback.Reason,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.templates.ExecuteTemplate(w, "callback", data); err != nil {
		h.logger.Error("failed to render template", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
