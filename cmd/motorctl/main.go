// cmd/motorctl/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tamzrod/motorctl/internal/cli"
	"github.com/tamzrod/motorctl/internal/config"
	"github.com/tamzrod/motorctl/internal/operation"
	"github.com/tamzrod/motorctl/internal/poller"
	"github.com/tamzrod/motorctl/internal/registers"
	"github.com/tamzrod/motorctl/internal/report"
	tmodbus "github.com/tamzrod/motorctl/internal/transport/modbus"
)

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		stop()
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, args []string) error {
	cmd, shouldExit, err := cli.Parse(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg := &config.Config{}
	if cmd.ConfigPath != "" {
		if cfg, err = config.Load(cmd.ConfigPath); err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
	}
	config.ApplyEnv(cfg)
	cmd.Apply(cfg)
	config.Normalize(cfg)

	if err := config.Validate(cfg, cmd.NeedsConnection()); err != nil {
		return &cli.ExitError{Code: 2, Message: "config validation failed: " + err.Error()}
	}

	log := newLogger(cfg.Log)
	slog.SetDefault(log)

	catalog := registers.Default()

	if cmd.Name == cli.CmdList {
		report.Catalog(out, cmd.Filter, catalog.List(cmd.Filter))
		return nil
	}

	// --------------------
	// Transport (fail fast at startup)
	// --------------------

	client, err := tmodbus.New(tmodbus.Config{
		Mode:     cfg.Connection.Mode,
		Endpoint: cfg.Connection.Endpoint(),
		UnitID:   cfg.Connection.UnitID,
		Timeout:  time.Duration(cfg.Connection.TimeoutMs) * time.Millisecond,
		Device:   cfg.Connection.Serial.Device,
		BaudRate: cfg.Connection.Serial.BaudRate,
		DataBits: cfg.Connection.Serial.DataBits,
		Parity:   cfg.Connection.Serial.Parity,
		StopBits: cfg.Connection.Serial.StopBits,
	})
	if err != nil {
		return err
	}

	log.Info("connecting", "target", client.String(), "unit_id", cfg.Connection.UnitID)
	if err := client.Open(); err != nil {
		return fmt.Errorf("failed connection to %s: %w", client, err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn("close failed", "err", err)
		}
		log.Info("operation finished")
	}()
	log.Info("connection successful")

	session := operation.NewSession(client, catalog, log)

	return dispatch(ctx, out, cmd, cfg, session, log)
}

func dispatch(ctx context.Context, out io.Writer, cmd *cli.Command, cfg *config.Config, s *operation.Session, log *slog.Logger) error {
	switch cmd.Name {
	case cli.CmdRead:
		report.Read(out, s.Read(cmd.Registers))
		return nil

	case cli.CmdWrite:
		report.Write(out, s.Write(cmd.Registers[0], cmd.Value))
		return nil

	case cli.CmdMode:
		report.Write(out, s.SetMode(cmd.Mode))
		return nil

	case cli.CmdReset:
		report.Write(out, s.SendReset())
		return nil

	case cli.CmdSave:
		report.Write(out, s.SaveToFlash())
		return nil

	case cli.CmdWatch:
		p, err := poller.Build(cfg.Watch, cmd.Registers, cmd.Rate, s, log)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(cmd.Registers))
		for _, d := range p.Registers() {
			names = append(names, d.Name)
		}
		fmt.Fprintf(out, "Watch: %s every %s. Ctrl+C exit.\n", strings.Join(names, ", "), p.Interval())
		p.Run(ctx, func(res poller.PollResult) {
			report.WatchCycle(out, res)
		})
		return nil

	default:
		return &cli.ExitError{Code: 2, Message: "invalid command: " + cmd.Name}
	}
}

func newLogger(c config.LogConfig) *slog.Logger {
	var level slog.Level
	switch c.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
