// internal/config/validate.go
package config

import (
	"fmt"
	"net"
	"strconv"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
//
// needConnection is false for commands that never touch the device.
func Validate(cfg *Config, needConnection bool) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be debug, info, warn or error", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: must be text or json", cfg.Log.Format)
	}

	// ------------------------------------------------------------
	// WATCH
	// ------------------------------------------------------------

	if cfg.Watch.IntervalMs <= 0 {
		return fmt.Errorf("watch.interval_ms must be > 0, got %d", cfg.Watch.IntervalMs)
	}

	if !needConnection {
		return nil
	}

	// ------------------------------------------------------------
	// CONNECTION
	// ------------------------------------------------------------

	c := cfg.Connection
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("connection.timeout_ms must be > 0, got %d", c.TimeoutMs)
	}

	switch c.Mode {
	case "tcp":
		if c.Host == "" {
			return fmt.Errorf("connection.host is required (ip address of motor or gateway)")
		}
		if c.Port < 1 || c.Port > 65535 {
			return fmt.Errorf("connection.port %d out of range", c.Port)
		}

	case "rtu":
		s := c.Serial
		if s.Device == "" {
			return fmt.Errorf("connection.serial.device is required for rtu")
		}
		if s.BaudRate <= 0 {
			return fmt.Errorf("connection.serial.baud_rate must be > 0, got %d", s.BaudRate)
		}
		if s.DataBits < 5 || s.DataBits > 8 {
			return fmt.Errorf("connection.serial.data_bits %d out of range 5-8", s.DataBits)
		}
		if s.StopBits != 1 && s.StopBits != 2 {
			return fmt.Errorf("connection.serial.stop_bits must be 1 or 2, got %d", s.StopBits)
		}
		switch s.Parity {
		case "N", "E", "O":
		default:
			return fmt.Errorf("connection.serial.parity %q: must be N, E or O", s.Parity)
		}

	default:
		return fmt.Errorf("connection.mode %q: must be tcp or rtu", c.Mode)
	}

	return nil
}

// Endpoint is the host:port dial address.
func (c ConnectionConfig) Endpoint() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
