package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/wellness-chat/internal/model/chat"
)

var (
	ErrSessionRequired = errors.New("session id is required")
	ErrSessionNotFound = errors.New("session not found")
)

// Conversation is the server-side handle bound to one session id.
type Conversation interface {
	ID() string
	Send(ctx context.Context, message string) (string, error)
	Info() chat.Session
	Busy() bool
}

// Factory creates a fresh conversation for a session id.
type Factory func(sessionID string) (Conversation, error)

// Store maps session ids to conversations.
type Store interface {
	GetOrCreate(ctx context.Context, sessionID string) (Conversation, bool, error)
	Get(ctx context.Context, sessionID string) (Conversation, error)
	Delete(ctx context.Context, sessionID string) bool
	Len() int
}

// Service is the in-memory conversation store.
type Service struct {
	factory Factory
	now     func() time.Time

	mu            sync.Mutex
	sessions      map[string]Conversation
	evictIdle     time.Duration
	evictInterval time.Duration
	evictRunning  bool
}

var _ Store = (*Service)(nil)

// NewService bootstraps the in-memory store; conversations are built by factory.
func NewService(factory Factory) *Service {
	return &Service{
		factory:  factory,
		now:      time.Now,
		sessions: make(map[string]Conversation),
	}
}

// GetOrCreate returns the conversation for sessionID, creating it on first use.
// The check and the insert happen under one lock, so concurrent first messages
// for the same id always share a single conversation.
func (s *Service) GetOrCreate(_ context.Context, sessionID string) (Conversation, bool, error) {
	if sessionID == "" {
		return nil, false, ErrSessionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.sessions[sessionID]; ok {
		return conv, false, nil
	}

	conv, err := s.factory(sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("create conversation for session %s: %w", sessionID, err)
	}
	s.sessions[sessionID] = conv

	log.Info().
		Str("component", "session").
		Str("session_id", sessionID).
		Str("conversation_id", conv.ID()).
		Msg("conversation created")
	return conv, true, nil
}

// Get retrieves the conversation of a session without creating one.
func (s *Service) Get(_ context.Context, sessionID string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return conv, nil
}

// Delete removes the conversation of a session. It reports whether one existed.
func (s *Service) Delete(_ context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}

	s.mu.Lock()
	conv, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if ok {
		log.Info().
			Str("component", "session").
			Str("session_id", sessionID).
			Str("conversation_id", conv.ID()).
			Msg("conversation deleted")
	}
	return ok
}

// Len returns the number of live conversations.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
