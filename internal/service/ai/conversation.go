package ai

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/wellness-chat/internal/model/chat"
)

type responder interface {
	GenerateResponse(ctx context.Context, system string, history []chat.Message, userMessage string) (*schema.Message, error)
}

// Conversation is the server-side handle of one ongoing exchange with the chat model.
// It carries the persona instruction and the accumulated history.
type Conversation struct {
	id        string
	sessionID string
	personaID string
	system    string
	responder responder
	now       func() time.Time

	inflight atomic.Int32
	// sendMu serialises exchanges so history stays ordered.
	sendMu sync.Mutex

	mu         sync.Mutex
	history    []chat.Message
	createdAt  time.Time
	lastActive time.Time
}

// ID returns the handle's own identifier.
func (c *Conversation) ID() string {
	return c.id
}

// Send forwards a user message and records both turns once the model answers.
// A failed exchange leaves the history untouched.
func (c *Conversation) Send(ctx context.Context, message string) (string, error) {
	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	history := c.Transcript()
	reply, err := c.responder.GenerateResponse(ctx, c.system, history, message)
	if err != nil {
		return "", err
	}

	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history,
		chat.Message{Sender: chat.SenderUser, Content: message, CreatedAt: now},
		chat.Message{Sender: chat.SenderAssistant, Content: reply.Content, CreatedAt: now},
	)
	c.lastActive = now
	return reply.Content, nil
}

// Busy reports whether an exchange is in flight.
func (c *Conversation) Busy() bool {
	return c.inflight.Load() > 0
}

// Info returns a snapshot of the handle's metadata.
func (c *Conversation) Info() chat.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return chat.Session{
		ID:         c.id,
		SessionID:  c.sessionID,
		PersonaID:  c.personaID,
		Turns:      len(c.history) / 2,
		CreatedAt:  c.createdAt,
		LastActive: c.lastActive,
	}
}

// Transcript returns a copy of the recorded turns.
func (c *Conversation) Transcript() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]chat.Message(nil), c.history...)
}
