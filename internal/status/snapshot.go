// internal/status/snapshot.go
package status

import (
	"errors"

	"github.com/tamzrod/motorctl/internal/transport"
)

// Snapshot is the watch-side health of one register.
// It contains no memory of the past beyond current state.
type Snapshot struct {
	Health        uint16
	LastErrorCode uint16
	Failures      uint16 // consecutive failed polls
}

// Observe folds one poll outcome into the snapshot.
// changed reports a health or error-code transition worth announcing.
func (s Snapshot) Observe(err error) (next Snapshot, changed bool) {
	next = s

	if err == nil {
		// Recovery / OK
		if next.Health != HealthOK {
			next.Health = HealthOK
			changed = true
		}
		// Reset last error code and failure count when healthy.
		next.LastErrorCode = 0
		next.Failures = 0
		return next, changed
	}

	if next.Health != HealthError {
		next.Health = HealthError
		changed = true
	}

	// Only transport failures carry a code; decode failures record none.
	code := transport.CodeNone
	var te *transport.Error
	if errors.As(err, &te) {
		code = te.Code
	}
	if next.LastErrorCode != code {
		next.LastErrorCode = code
		changed = true
	}

	if next.Failures < MaxFailures {
		next.Failures++
	}
	return next, changed
}

// HealthName renders a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}
