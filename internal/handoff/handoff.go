// Package handoff carries the result of a popup sign-in back to the window
// that opened it.
//
// The opener calls Mailbox.Open when it starts a flow and receives on the
// returned Port. The popup side (the callback route) calls Post with exactly
// one Message and then Hangup, the equivalent of the popup closing itself.
// Only one flow is open at a time; opening a new one retires the previous
// port.
package handoff

import (
	"errors"
	"sync"
	"time"

	"github.com/sakif/career-compass/internal/model"
)

var (
	// ErrNoOpener is returned by Post when no flow is waiting for a message.
	ErrNoOpener = errors.New("handoff: no opener is waiting")
	// ErrAlreadySettled is returned by Post when the open port already
	// holds its one message.
	ErrAlreadySettled = errors.New("handoff: flow already has a message")
)

// Kind discriminates Message payloads.
type Kind string

const (
	KindResult Kind = "result" // User is set
	KindError  Kind = "error"  // Error is set
)

// Message is the schema posted from the popup to the opener.
type Message struct {
	FlowID string      `json:"flowId"`
	Kind   Kind        `json:"kind"`
	User   *model.User `json:"user,omitempty"`
	Error  string      `json:"error,omitempty"`
	SentAt time.Time   `json:"sentAt"`
}

// Result builds a KindResult message.
func Result(user *model.User) Message {
	return Message{Kind: KindResult, User: user}
}

// Failure builds a KindError message.
func Failure(reason string) Message {
	return Message{Kind: KindError, Error: reason}
}

// Port is the opener's end of one flow.
type Port struct {
	flowID   string
	messages chan Message
	hungUp   chan struct{}
	once     sync.Once
}

// FlowID identifies the flow the port was opened for.
func (p *Port) FlowID() string { return p.flowID }

// Messages delivers at most one message.
func (p *Port) Messages() <-chan Message { return p.messages }

// Done is closed once the popup side hangs up or the port is retired.
func (p *Port) Done() <-chan struct{} { return p.hungUp }

func (p *Port) hangup() {
	p.once.Do(func() { close(p.hungUp) })
}

// Mailbox routes popup messages to the currently open port.
type Mailbox struct {
	mu      sync.Mutex
	current *Port
	now     func() time.Time
}

func NewMailbox() *Mailbox {
	return &Mailbox{now: time.Now}
}

// Open starts a flow and returns its port. Any port still open is retired.
func (m *Mailbox) Open(flowID string) *Port {
	p := &Port{
		flowID:   flowID,
		messages: make(chan Message, 1),
		hungUp:   make(chan struct{}),
	}

	m.mu.Lock()
	prev := m.current
	m.current = p
	m.mu.Unlock()

	if prev != nil {
		prev.hangup()
	}
	return p
}

// Post delivers msg to the open port, stamping the flow ID and send time.
// A port accepts one message; later posts for the same flow are refused with
// ErrAlreadySettled.
func (m *Mailbox) Post(msg Message) error {
	m.mu.Lock()
	p := m.current
	m.mu.Unlock()

	if p == nil {
		return ErrNoOpener
	}

	msg.FlowID = p.flowID
	msg.SentAt = m.now()

	select {
	case p.messages <- msg:
		return nil
	default:
		return ErrAlreadySettled
	}
}

// Hangup signals that the popup has gone away. The port stays registered so
// a message posted just before can still be read; Release drops it.
func (m *Mailbox) Hangup() {
	m.mu.Lock()
	p := m.current
	m.mu.Unlock()

	if p != nil {
		p.hangup()
	}
}

// Release retires p if it is still the open port. Safe to call more than once.
func (m *Mailbox) Release(p *Port) {
	m.mu.Lock()
	if m.current == p {
		m.current = nil
	}
	m.mu.Unlock()

	p.hangup()
}
