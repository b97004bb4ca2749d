// Package repository declares the durable key-value store the client keeps
// its session in.
//
// It plays the part browser local storage plays for a web page: a small
// string-keyed map that survives restarts and is shared by every flow running
// against the same profile. Implementations live in the sqlite, redisstore and
// memory sub-packages.
package repository

import "context"

// Well-known storage keys. Values are JSON documents.
const (
	KeyUser          = "user"
	KeyAuthMethod    = "authMethod"
	KeyOAuthState    = "linkedin_oauth_state"
	KeyLegacyHandoff = "linkedInUser" // written by older clients, only ever cleared now
)

// Store is a durable key-value store.
//
// Get returns an error matching apperror.ErrNotFound when key is absent.
// Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
