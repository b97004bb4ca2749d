package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/career-compass/internal/apperror"
	"github.com/sakif/career-compass/internal/model"
	"github.com/sakif/career-compass/internal/repository"
	"github.com/sakif/career-compass/internal/session"
	"github.com/sakif/career-compass/internal/ui"
)

func signedIn(t *testing.T, h *harness, method model.AuthMethod) session.State {
	t.Helper()
	st := session.Authenticated(&model.User{ID: "u1", Name: "A B", Email: "a@b.com"}, method)
	require.NoError(t, h.sessions.Save(context.Background(), st))
	return st
}

func TestSignOut_ClearsSession(t *testing.T) {
	for _, method := range []model.AuthMethod{model.AuthMethodGoogle, model.AuthMethodLinkedIn, model.AuthMethodPassword} {
		t.Run(string(method), func(t *testing.T) {
			h := newHarness(t)
			st := signedIn(t, h, method)

			res, err := h.c.SignOut(context.Background(), st)
			require.NoError(t, err)

			assert.Equal(t, session.Anonymous(), res.State)
			assert.Equal(t, session.Anonymous(), h.loadState(t))

			_, err = h.kv.Get(context.Background(), repository.KeyUser)
			assert.True(t, errors.Is(err, apperror.ErrNotFound))
			_, err = h.kv.Get(context.Background(), repository.KeyAuthMethod)
			assert.True(t, errors.Is(err, apperror.ErrNotFound))

			assert.Equal(t, ui.Toast{Level: ui.LevelInfo, Message: "You have been signed out"}, h.surface.LastToast())
			assert.Equal(t, ui.RouteHome, h.surface.LastRoute())
			assert.Empty(t, h.api.Calls(), "no backend call by default")
		})
	}
}

func TestSignOut_GoogleDisablesAutoSelect(t *testing.T) {
	h := newHarness(t)
	st := signedIn(t, h, model.AuthMethodGoogle)

	_, err := h.c.SignOut(context.Background(), st)
	require.NoError(t, err)

	assert.True(t, h.identity.AutoSelectDisabled())
}

func TestSignOut_GoogleIsNotSignedBackInByNextPrompt(t *testing.T) {
	h := newHarness(t)
	h.credential = abCredential(t)
	st := signedIn(t, h, model.AuthMethodGoogle)

	res, err := h.c.SignOut(context.Background(), st)
	require.NoError(t, err)

	called := false
	err = h.c.InitializeTokenFlow(context.Background(), "client-id", res.State, func(Result, error) { called = true })
	require.NoError(t, err)

	assert.False(t, called)
	assert.Empty(t, h.api.Calls())
	assert.False(t, h.storedUser(t))
}

func TestSignOut_OtherMethodsLeaveAutoSelect(t *testing.T) {
	h := newHarness(t)
	st := signedIn(t, h, model.AuthMethodLinkedIn)

	_, err := h.c.SignOut(context.Background(), st)
	require.NoError(t, err)

	assert.False(t, h.identity.AutoSelectDisabled())
}

func TestSignOut_WhenAlreadyAnonymous(t *testing.T) {
	h := newHarness(t)

	res, err := h.c.SignOut(context.Background(), session.Anonymous())

	require.NoError(t, err)
	assert.Equal(t, session.Anonymous(), res.State)
}

func TestSignOut_RevokeFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.RevokeOnSignOut = true })
	h.api.logoutErr = errors.New("connection refused")
	st := signedIn(t, h, model.AuthMethodPassword)

	res, err := h.c.SignOut(context.Background(), st)

	require.NoError(t, err)
	assert.Equal(t, []string{"logout"}, h.api.Calls())
	assert.False(t, res.State.IsAuthenticated)
	assert.False(t, h.storedUser(t))
}
