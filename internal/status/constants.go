// internal/status/constants.go
package status

// ---- HEALTH CODES ----

// HealthUnknown represents a register not polled yet.
const HealthUnknown uint16 = 0

// HealthOK represents a register whose last poll succeeded.
const HealthOK uint16 = 1

// HealthError represents a register whose last poll failed.
const HealthError uint16 = 2

// ---- LIMITS ----

// MaxFailures caps the consecutive failure counter. It never wraps.
const MaxFailures uint16 = 65535
