package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sakif/career-compass/internal/apperror"
)

// MockClient is a mock implementation of Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}

func (m *MockClient) Ping(ctx context.Context) *redis.StatusCmd {
	args := m.Called(ctx)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func stringCmd(result string, err error) *redis.StringCmd {
	cmd := redis.NewStringCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(result)
	}
	return cmd
}

func statusCmd(err error) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal("OK")
	}
	return cmd
}

func intCmd(result int64, err error) *redis.IntCmd {
	cmd := redis.NewIntCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(result)
	}
	return cmd
}

func TestStore_Key(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		key       string
		expected  string
	}{
		{name: "default namespace", namespace: "", key: "user", expected: "career:storage:user"},
		{name: "custom namespace", namespace: "alice", key: "authMethod", expected: "alice:storage:authMethod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(new(MockClient), tt.namespace)
			assert.Equal(t, tt.expected, s.key(tt.key))
		})
	}
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		client := new(MockClient)
		client.On("Get", ctx, "career:storage:user").Return(stringCmd(`{"id":"u1"}`, nil))

		got, err := New(client, "").Get(ctx, "user")
		require.NoError(t, err)
		assert.Equal(t, `{"id":"u1"}`, string(got))
		client.AssertExpectations(t)
	})

	t.Run("miss maps to ErrNotFound", func(t *testing.T) {
		client := new(MockClient)
		client.On("Get", ctx, "career:storage:user").Return(stringCmd("", redis.Nil))

		_, err := New(client, "").Get(ctx, "user")
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})

	t.Run("connection error is wrapped", func(t *testing.T) {
		boom := errors.New("connection refused")
		client := new(MockClient)
		client.On("Get", ctx, "career:storage:user").Return(stringCmd("", boom))

		_, err := New(client, "").Get(ctx, "user")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.False(t, errors.Is(err, apperror.ErrNotFound))
	})
}

func TestStore_Set(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Set", ctx, "career:storage:authMethod", []byte(`"google"`), time.Duration(0)).Return(statusCmd(nil))

	err := New(client, "").Set(ctx, "authMethod", []byte(`"google"`))
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Del", ctx, []string{"career:storage:linkedin_oauth_state"}).Return(intCmd(1, nil))

	err := New(client, "").Delete(ctx, "linkedin_oauth_state")
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestStore_Close(t *testing.T) {
	client := new(MockClient)
	client.On("Close").Return(nil)

	require.NoError(t, New(client, "").Close())
	client.AssertExpectations(t)
}
