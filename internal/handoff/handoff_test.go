package handoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/career-compass/internal/model"
)

func TestPost_WithoutOpener(t *testing.T) {
	m := NewMailbox()
	assert.ErrorIs(t, m.Post(Failure("x")), ErrNoOpener)
}

func TestPost_DeliversStampedMessage(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := NewMailbox()
	m.now = func() time.Time { return fixed }

	p := m.Open("flow-1")
	user := &model.User{ID: "li-1", Email: "a@b.com"}
	require.NoError(t, m.Post(Result(user)))

	select {
	case msg := <-p.Messages():
		assert.Equal(t, "flow-1", msg.FlowID)
		assert.Equal(t, KindResult, msg.Kind)
		assert.Equal(t, user, msg.User)
		assert.Equal(t, fixed, msg.SentAt)
	default:
		t.Fatal("expected a message on the port")
	}
}

func TestPost_OneMessagePerFlow(t *testing.T) {
	m := NewMailbox()
	p := m.Open("flow-1")

	require.NoError(t, m.Post(Failure("first")))
	assert.ErrorIs(t, m.Post(Failure("second")), ErrAlreadySettled)

	msg := <-p.Messages()
	assert.Equal(t, "first", msg.Error)

	select {
	case extra := <-p.Messages():
		t.Fatalf("unexpected second message %+v", extra)
	default:
	}
}

func TestHangup_ClosesDoneButKeepsMessage(t *testing.T) {
	m := NewMailbox()
	p := m.Open("flow-1")

	require.NoError(t, m.Post(Result(&model.User{ID: "u"})))
	m.Hangup()

	select {
	case <-p.Done():
	default:
		t.Fatal("Done should be closed after Hangup")
	}
	msg := <-p.Messages()
	assert.Equal(t, KindResult, msg.Kind)

	// Hangup twice is fine.
	m.Hangup()
}

func TestOpen_RetiresPreviousPort(t *testing.T) {
	m := NewMailbox()
	first := m.Open("flow-1")
	second := m.Open("flow-2")

	select {
	case <-first.Done():
	default:
		t.Fatal("opening a new flow should retire the old port")
	}

	require.NoError(t, m.Post(Failure("late")))
	msg := <-second.Messages()
	assert.Equal(t, "flow-2", msg.FlowID)
}

func TestRelease(t *testing.T) {
	m := NewMailbox()
	p := m.Open("flow-1")

	m.Release(p)
	m.Release(p)

	assert.ErrorIs(t, m.Post(Failure("x")), ErrNoOpener)

	// Releasing a stale port leaves the current one alone.
	current := m.Open("flow-2")
	m.Release(p)
	require.NoError(t, m.Post(Failure("y")))
	assert.Equal(t, "flow-2", (<-current.Messages()).FlowID)
}
