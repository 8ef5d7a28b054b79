package render

import (
	"context"
	"time"
)

// DefaultRevealInterval is the tick used when a non-positive interval is given.
const DefaultRevealInterval = 5 * time.Millisecond

// Reveal yields text one rune per tick. The channel is closed after the last
// rune or as soon as ctx is done; callers check ctx.Err() to tell the two apart.
func Reveal(ctx context.Context, text string, interval time.Duration) <-chan string {
	if interval <= 0 {
		interval = DefaultRevealInterval
	}

	out := make(chan string)
	go func() {
		defer close(out)
		if text == "" {
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for _, r := range text {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			select {
			case <-ctx.Done():
				return
			case out <- string(r):
			}
		}
	}()
	return out
}
