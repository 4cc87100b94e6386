// internal/status/runner.go
package status

import (
	"context"
	"time"
)

// Run starts the ticker loop and emits snapshots on the provided
// channel. One goroutine per controller. No overlap. No retries.
func (p *Poller) Run(ctx context.Context, out chan<- Snapshot) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case out <- p.PollOnce():
			case <-ctx.Done():
				return
			}
		}
	}
}
