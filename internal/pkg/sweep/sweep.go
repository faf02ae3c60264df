// Package sweep runs periodic maintenance tasks owned by a context.
package sweep

import (
	"context"
	"time"
)

// Every calls fn once per interval until ctx is canceled. It blocks, so
// callers run it in its own goroutine. fn is never invoked concurrently with itself.
func Every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
