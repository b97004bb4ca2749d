package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/career-compass/internal/model"
	"github.com/sakif/career-compass/internal/session"
)

// SessionLoader reads the persisted session. *session.Store satisfies it.
type SessionLoader interface {
	Load(ctx context.Context) (session.State, error)
}

// SessionResponse is the JSON view of session.State.
type SessionResponse struct {
	Authenticated bool             `json:"isAuthenticated"`
	AuthMethod    model.AuthMethod `json:"authMethod,omitempty"`
	User          *model.User      `json:"user"`
}

// SessionHandler exposes the stored session to the popup page.
type SessionHandler struct {
	sessions SessionLoader
	logger   *slog.Logger
}

func NewSessionHandler(sessions SessionLoader, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// HandleGet returns the stored session.
//
// HTTP: GET /session
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessions.Load(r.Context())
	if err != nil {
		h.logger.Error("loading session", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		Authenticated: st.IsAuthenticated,
		AuthMethod:    st.AuthMethod,
		User:          st.User,
	})
}
