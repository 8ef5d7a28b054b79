package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SetEvictionConfig enables idle eviction. A non-positive idle disables it.
func (s *Service) SetEvictionConfig(idle, interval time.Duration) {
	s.mu.Lock()
	s.evictIdle = idle
	s.evictInterval = interval
	s.mu.Unlock()
}

// StartEvictionLoop sweeps idle conversations until ctx is done.
func (s *Service) StartEvictionLoop(ctx context.Context) {
	s.mu.Lock()
	if s.evictRunning {
		s.mu.Unlock()
		return
	}
	idle := s.evictIdle
	interval := s.evictInterval
	if idle <= 0 || interval <= 0 {
		s.mu.Unlock()
		return
	}
	s.evictRunning = true
	s.mu.Unlock()

	log.Info().Str("component", "session").Dur("idle", idle).Dur("interval", interval).Msg("idle eviction enabled")
	go s.runEvictionLoop(ctx, interval)
}

func (s *Service) runEvictionLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.evictRunning = false
			s.mu.Unlock()
			return
		case now := <-ticker.C:
			if n := s.evictIdleOnce(now); n > 0 {
				log.Info().Str("component", "session").Int("evicted", n).Msg("evicted idle conversations")
			}
		}
	}
}

func (s *Service) evictIdleOnce(now time.Time) int {
	if now.IsZero() {
		now = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.evictIdle <= 0 {
		return 0
	}

	evicted := 0
	for id, conv := range s.sessions {
		if conv.Busy() {
			continue
		}
		last := conv.Info().LastActive
		if last.IsZero() || now.Sub(last) < s.evictIdle {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	return evicted
}
