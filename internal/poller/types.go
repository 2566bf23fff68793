// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/motorctl/internal/operation"
	"github.com/tamzrod/motorctl/internal/registers"
	"github.com/tamzrod/motorctl/internal/status"
)

// Reader is what the poller needs from a register session.
type Reader interface {
	Resolve(id string) (registers.Descriptor, error)
	ReadRegisters(ds []registers.Descriptor) []operation.Result
}

// Item is one register's outcome within a cycle.
type Item struct {
	Result  operation.Result
	Health  status.Snapshot
	Changed bool // health transition on this cycle
}

// PollResult is a snapshot produced by one poll cycle.
// Items follow the watched register order.
type PollResult struct {
	Cycle uint64
	At    time.Time
	Items []Item
}

// Failed counts items whose read failed this cycle.
func (r PollResult) Failed() int {
	n := 0
	for _, it := range r.Items {
		if !it.Result.OK() {
			n++
		}
	}
	return n
}
