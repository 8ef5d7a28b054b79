package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/zhouzirui/wellness-chat/internal/model/chat"
)

type idleConversation struct {
	id   string
	last time.Time
	busy bool
}

func (c *idleConversation) ID() string { return c.id }
func (c *idleConversation) Send(context.Context, string) (string, error) { return "", nil }
func (c *idleConversation) Info() model.Session { return model.Session{ID: c.id, LastActive: c.last} }
func (c *idleConversation) Busy() bool { return c.busy }

func TestEvictIdleOnce(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	convs := map[string]*idleConversation{
		"stale": {id: "stale", last: now.Add(-2 * time.Hour)},
		"fresh": {id: "fresh", last: now.Add(-time.Minute)},
		"busy":  {id: "busy", last: now.Add(-2 * time.Hour), busy: true},
	}
	svc := NewService(func(sessionID string) (Conversation, error) {
		return convs[sessionID], nil
	})
	ctx := context.Background()
	for id := range convs {
		_, _, err := svc.GetOrCreate(ctx, id)
		require.NoError(t, err)
	}

	assert.Zero(t, svc.evictIdleOnce(now), "eviction disabled by default")

	svc.SetEvictionConfig(time.Hour, time.Minute)
	assert.Equal(t, 1, svc.evictIdleOnce(now))

	_, err := svc.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Get(ctx, "fresh")
	assert.NoError(t, err)
	_, err = svc.Get(ctx, "busy")
	assert.NoError(t, err)
}

func TestStartEvictionLoopStopsWithContext(t *testing.T) {
	svc := NewService(func(sessionID string) (Conversation, error) {
		return &idleConversation{id: sessionID, last: time.Now().Add(-time.Hour)}, nil
	})
	_, _, err := svc.GetOrCreate(context.Background(), "old")
	require.NoError(t, err)

	svc.SetEvictionConfig(time.Millisecond, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.StartEvictionLoop(ctx)

	require.Eventually(t, func() bool { return svc.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return !svc.evictRunning
	}, time.Second, 5*time.Millisecond)
}
