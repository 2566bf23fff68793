// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run polls until ctx is cancelled, handing each cycle to emit.
// Cancellation is observed before a cycle starts and while sleeping;
// an in-flight cycle always completes. No overlap. No retries.
func (p *Poller) Run(ctx context.Context, emit func(PollResult)) {
	p.log.Info("watch started", "registers", len(p.regs), "interval", p.cfg.Interval)
	defer func() { p.log.Info("watch stopped", "cycles", p.cycle) }()

	for {
		if ctx.Err() != nil {
			return
		}

		emit(p.PollOnce())

		sleep := time.NewTimer(p.cfg.Interval)
		select {
		case <-ctx.Done():
			sleep.Stop()
			return
		case <-sleep.C:
		}
	}
}
