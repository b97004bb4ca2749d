package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/career-compass/internal/apperror"
	"github.com/sakif/career-compass/internal/model"
	"github.com/sakif/career-compass/internal/repository"
)

// Store persists State and the transient OAuth state token in a
// repository.Store. Values are JSON-encoded, one key per field.
//
// Writes are independent: there is no transaction across keys, so two flows
// racing to save a session resolve as last writer wins.
type Store struct {
	kv     repository.Store
	logger *slog.Logger
}

func NewStore(kv repository.Store, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Load rebuilds State from storage. A missing or unreadable user yields
// Anonymous. A stored user without an auth method is treated as a password
// session, which is what older password sign-ins left behind.
func (s *Store) Load(ctx context.Context) (State, error) {
	var user model.User
	found, err := s.getJSON(ctx, repository.KeyUser, &user)
	if err != nil {
		return Anonymous(), err
	}
	if !found {
		return Anonymous(), nil
	}

	method, err := s.AuthMethod(ctx)
	if err != nil {
		return Anonymous(), err
	}
	if method == "" {
		method = model.AuthMethodPassword
	}

	return Authenticated(&user, method), nil
}

// Save persists an authenticated state. Saving an anonymous state clears
// the stored session.
func (s *Store) Save(ctx context.Context, st State) error {
	if !st.IsAuthenticated || st.User == nil {
		return s.Clear(ctx)
	}
	if err := s.setJSON(ctx, repository.KeyUser, st.User); err != nil {
		return err
	}
	return s.setJSON(ctx, repository.KeyAuthMethod, st.AuthMethod)
}

// Clear forgets the stored user and auth method.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, repository.KeyUser); err != nil {
		return fmt.Errorf("session: clearing user: %w", err)
	}
	if err := s.kv.Delete(ctx, repository.KeyAuthMethod); err != nil {
		return fmt.Errorf("session: clearing auth method: %w", err)
	}
	return nil
}

// AuthMethod returns the stored auth method, or "" when none is stored.
func (s *Store) AuthMethod(ctx context.Context) (model.AuthMethod, error) {
	var method model.AuthMethod
	if _, err := s.getJSON(ctx, repository.KeyAuthMethod, &method); err != nil {
		return "", err
	}
	if method != "" && !method.Valid() {
		s.logger.Warn("ignoring unknown stored auth method", slog.String("method", string(method)))
		return "", nil
	}
	return method, nil
}

// PutOAuthState persists the anti-forgery token for a redirect flow,
// replacing any earlier one.
func (s *Store) PutOAuthState(ctx context.Context, token string) error {
	return s.setJSON(ctx, repository.KeyOAuthState, token)
}

// OAuthState returns the persisted token, or "" when no flow is pending.
func (s *Store) OAuthState(ctx context.Context) (string, error) {
	var token string
	if _, err := s.getJSON(ctx, repository.KeyOAuthState, &token); err != nil {
		return "", err
	}
	return token, nil
}

// DiscardOAuthState deletes the persisted token.
func (s *Store) DiscardOAuthState(ctx context.Context) error {
	if err := s.kv.Delete(ctx, repository.KeyOAuthState); err != nil {
		return fmt.Errorf("session: discarding oauth state: %w", err)
	}
	return nil
}

// ClearLegacyHandoff removes the popup→opener slot older clients wrote to
// storage.
func (s *Store) ClearLegacyHandoff(ctx context.Context) error {
	if err := s.kv.Delete(ctx, repository.KeyLegacyHandoff); err != nil {
		return fmt.Errorf("session: clearing legacy handoff: %w", err)
	}
	return nil
}

// getJSON decodes key into dst. It reports found=false for a missing key, a
// JSON null, or a value that no longer decodes; the last is logged and
// otherwise treated as absent.
func (s *Store) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("session: reading %s: %w", key, err)
	}
	if string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("ignoring unreadable stored value",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false, nil
	}
	return true, nil
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: encoding %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("session: writing %s: %w", key, err)
	}
	return nil
}
