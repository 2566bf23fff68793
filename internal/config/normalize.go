// internal/config/normalize.go
package config

import "strings"

// Defaults.
const (
	DefaultPort       = 502
	DefaultUnitID     = 1
	DefaultTimeoutMs  = 5000
	DefaultIntervalMs = 1000
	DefaultBaudRate   = 19200
)

// Normalize fills defaults and canonicalizes enum-like strings.
// It is allowed to mutate configuration.
// It MUST be called before Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	c := &cfg.Connection
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = "tcp"
	}
	c.Host = strings.TrimSpace(c.Host)
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.UnitID == 0 {
		c.UnitID = DefaultUnitID
	}
	if c.TimeoutMs == 0 {
		c.TimeoutMs = DefaultTimeoutMs
	}

	// ------------------------------------------------------------
	// SERIAL DEFAULTS (8N1)
	// ------------------------------------------------------------

	s := &c.Serial
	if s.BaudRate == 0 {
		s.BaudRate = DefaultBaudRate
	}
	if s.DataBits == 0 {
		s.DataBits = 8
	}
	if s.Parity == "" {
		s.Parity = "N"
	}
	s.Parity = strings.ToUpper(s.Parity)
	if s.StopBits == 0 {
		s.StopBits = 1
	}

	if cfg.Watch.IntervalMs == 0 {
		cfg.Watch.IntervalMs = DefaultIntervalMs
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
