// internal/poller/poller.go
package poller

import (
	"errors"
	"log/slog"
	"time"

	"github.com/tamzrod/motorctl/internal/registers"
	"github.com/tamzrod/motorctl/internal/status"
)

// ErrNoRegisters means none of the watched identifiers resolved.
var ErrNoRegisters = errors.New("poller: no valid registers")

// Config is the minimal runtime config the poller needs.
type Config struct {
	IDs      []string
	Interval time.Duration
}

// Poller is a clock-driven register watcher.
// Registers are resolved once; every cycle reads all of them.
type Poller struct {
	cfg    Config
	reader Reader
	log    *slog.Logger

	regs   []registers.Descriptor
	health []status.Snapshot
	cycle  uint64
}

// New resolves the watched identifiers. Unresolved ones are dropped with a
// warning; if none resolve, New fails.
func New(cfg Config, r Reader, log *slog.Logger) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.IDs) == 0 {
		return nil, errors.New("poller: at least one register required")
	}
	if log == nil {
		log = slog.Default()
	}

	p := &Poller{cfg: cfg, reader: r, log: log}

	for _, id := range cfg.IDs {
		d, err := r.Resolve(id)
		if err != nil {
			log.Warn("dropping register from watch", "id", id, "err", err)
			continue
		}
		p.regs = append(p.regs, d)
	}
	if len(p.regs) == 0 {
		return nil, ErrNoRegisters
	}

	p.health = make([]status.Snapshot, len(p.regs))
	return p, nil
}

// Registers lists the watched registers in watch order.
func (p *Poller) Registers() []registers.Descriptor {
	out := make([]registers.Descriptor, len(p.regs))
	copy(out, p.regs)
	return out
}

func (p *Poller) Interval() time.Duration { return p.cfg.Interval }

// PollOnce performs exactly one poll cycle.
// Per-register isolation: a failed read is reported next to the others.
func (p *Poller) PollOnce() PollResult {
	p.cycle++
	res := PollResult{
		Cycle: p.cycle,
		At:    time.Now(),
		Items: make([]Item, 0, len(p.regs)),
	}

	results := p.reader.ReadRegisters(p.regs)

	for i, r := range results {
		next, changed := p.health[i].Observe(r.Err)
		p.health[i] = next

		if changed {
			if r.Err != nil {
				p.log.Warn("register health changed", "register", r.Register.Name, "health", status.HealthName(next.Health), "code", next.LastErrorCode, "err", r.Err)
			} else if p.cycle > 1 {
				p.log.Info("register health changed", "register", r.Register.Name, "health", status.HealthName(next.Health))
			}
		}

		res.Items = append(res.Items, Item{Result: r, Health: next, Changed: changed})
	}

	return res
}
