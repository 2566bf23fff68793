// internal/config/env.go
package config

import (
	"github.com/xyproto/env/v2"
)

// Environment variables read by ApplyEnv.
const (
	EnvHost         = "MOTORCTL_HOST"
	EnvPort         = "MOTORCTL_PORT"
	EnvUnitID       = "MOTORCTL_UNIT_ID"
	EnvTimeoutMs    = "MOTORCTL_TIMEOUT_MS"
	EnvMode         = "MOTORCTL_MODE"
	EnvSerialDevice = "MOTORCTL_SERIAL_DEVICE"
	EnvLogFormat    = "MOTORCTL_LOG_FORMAT"
)

// ApplyEnv overlays set environment variables onto cfg.
// Unset variables leave the current value alone.
func ApplyEnv(cfg *Config) {
	if cfg == nil {
		return
	}

	c := &cfg.Connection
	c.Host = env.Str(EnvHost, c.Host)
	c.Mode = env.Str(EnvMode, c.Mode)
	c.Serial.Device = env.Str(EnvSerialDevice, c.Serial.Device)
	c.Port = env.Int(EnvPort, c.Port)
	c.TimeoutMs = env.Int(EnvTimeoutMs, c.TimeoutMs)

	if env.Has(EnvUnitID) {
		if id := env.Int(EnvUnitID, int(c.UnitID)); id >= 0 && id <= 255 {
			c.UnitID = uint8(id)
		}
	}

	cfg.Log.Format = env.Str(EnvLogFormat, cfg.Log.Format)
}
