// internal/poller/builder.go
package poller

import (
	"log/slog"
	"time"

	cfg "github.com/tamzrod/motorctl/internal/config"
)

// Build constructs a Poller from the watch config.
// rate overrides the configured interval when > 0.
func Build(w cfg.WatchConfig, ids []string, rate time.Duration, r Reader, log *slog.Logger) (*Poller, error) {
	interval := time.Duration(w.IntervalMs) * time.Millisecond
	if rate > 0 {
		interval = rate
	}

	return New(
		Config{
			IDs:      ids,
			Interval: interval,
		},
		r,
		log,
	)
}
