// Package redisstore implements repository.Store on a Redis server so several
// client processes (or machines) can share one signed-in profile.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sakif/career-compass/internal/apperror"
	"github.com/sakif/career-compass/internal/repository"
)

// Client is the subset of *redis.Client the store needs. Tests substitute a
// testify mock.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// compile-time check that *Store implements repository.Store
var _ repository.Store = (*Store)(nil)

// Store keeps each storage key as a plain Redis string under a namespace.
type Store struct {
	client    Client
	namespace string
}

// Options configures Dial.
type Options struct {
	Address   string
	Password  string
	DB        int
	Namespace string // defaults to "career"
}

// Dial connects to Redis and verifies the connection with PING.
func Dial(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		MinIdleConns: 1,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: connection failed: %w", err)
	}

	return New(client, opts.Namespace), nil
}

// New wraps an existing client.
func New(client Client, namespace string) *Store {
	if namespace == "" {
		namespace = "career"
	}
	return &Store{client: client, namespace: namespace}
}

// key generates a namespaced Redis key
func (s *Store) key(name string) string {
	return fmt.Sprintf("%s:storage:%s", s.namespace, name)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperror.NotFound("storage key", key)
		}
		return nil, fmt.Errorf("redis: getting key %s: %w", key, err)
	}
	return value, nil
}

// Set stores value without expiry, matching local storage semantics.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: setting key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis: deleting key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
