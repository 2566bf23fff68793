package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tamzrod/motorctl/internal/config"
	"github.com/tamzrod/motorctl/internal/registers"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Command names.
const (
	CmdRead  = "read"
	CmdWrite = "write"
	CmdMode  = "mode"
	CmdWatch = "watch"
	CmdReset = "reset"
	CmdSave  = "save"
	CmdList  = "list"
)

// Command is one parsed invocation.
type Command struct {
	Name      string
	Registers []string
	Value     string
	Mode      string
	Rate      time.Duration // watch; 0 means the configured interval
	Filter    string

	ConfigPath string
	Verbose    bool

	host      string
	port      int
	unitID    int
	logFormat string
}

// NeedsConnection reports whether the command talks to the device.
func (c *Command) NeedsConnection() bool { return c.Name != CmdList }

// Apply overlays explicitly set flags onto cfg. Flags win over file and env.
func (c *Command) Apply(cfg *config.Config) {
	if c.host != "" {
		cfg.Connection.Host = c.host
	}
	if c.port != 0 {
		cfg.Connection.Port = c.port
	}
	if c.unitID > 0 && c.unitID <= 255 {
		cfg.Connection.UnitID = uint8(c.unitID)
	}
	if c.Verbose {
		cfg.Log.Level = "debug"
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
}

// Parse processes command-line arguments. It returns a populated Command,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Command, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("motorctl", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprintf(output, `
motorctl - JVL motor register utility (Modbus TCP/RTU)

Usage:
  motorctl [options] <command> [arguments]

Commands:
  read <register>...              Read register(s) by name or number
  write <register> <value>        Write a register
  mode <mode>                     Set MODE_REG (%s)
  watch [-rate s] <register>...   Monitor registers until interrupted
  reset                           Send reset command (verify before use)
  save                            Save parameters in flash (verify before use)
  list [filter]                   List defined registers

Options:
`, strings.Join(registers.Modes.Symbols(), ", "))
		flagSet.PrintDefaults()
	}

	cmd := &Command{}
	flagSet.StringVar(&cmd.host, "ip-address", "", "IP of motor/gateway (required for most commands).")
	flagSet.StringVar(&cmd.host, "i", "", "IP of motor/gateway (shorthand).")
	flagSet.IntVar(&cmd.port, "port", 0, "Port (default 502).")
	flagSet.IntVar(&cmd.port, "p", 0, "Port (shorthand).")
	flagSet.IntVar(&cmd.unitID, "unit-id", 0, "Modbus unit id (default 1).")
	flagSet.IntVar(&cmd.unitID, "u", 0, "Modbus unit id (shorthand).")
	flagSet.BoolVar(&cmd.Verbose, "verbose", false, "Debug logging.")
	flagSet.BoolVar(&cmd.Verbose, "v", false, "Debug logging (shorthand).")
	flagSet.StringVar(&cmd.ConfigPath, "config", "", "Path to a YAML config file.")
	flagSet.StringVar(&cmd.logFormat, "log-format", "", "Log output format. Options: 'text' or 'json'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, usageError("%v", err)
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, false, usageError("missing command")
	}

	if cmd.unitID < 0 || cmd.unitID > 255 {
		return nil, false, usageError("invalid unit-id %d: must be 0-255", cmd.unitID)
	}

	cmd.Name = strings.ToLower(flagSet.Arg(0))
	rest := flagSet.Args()[1:]

	if err := parseCommand(cmd, rest, output); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, err
	}

	slog.Debug("CLI parser finished successfully.", "command", cmd.Name)
	return cmd, false, nil
}

func parseCommand(cmd *Command, args []string, output io.Writer) error {
	switch cmd.Name {
	case CmdRead:
		if len(args) == 0 {
			return usageError("read: at least one register required")
		}
		cmd.Registers = args

	case CmdWrite:
		if len(args) != 2 {
			return usageError("write: usage: write <register> <value>")
		}
		cmd.Registers = args[:1]
		cmd.Value = args[1]

	case CmdMode:
		if len(args) != 1 {
			return usageError("mode: usage: mode <mode> (%s)", strings.Join(registers.Modes.Symbols(), ", "))
		}
		cmd.Mode = args[0]

	case CmdWatch:
		fs := flag.NewFlagSet("watch", flag.ContinueOnError)
		fs.SetOutput(output)
		rate := fs.Float64("rate", 0, "Poll rate in seconds (default 1.0).")
		regs, err := parseInterspersed(fs, args)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return err
			}
			return usageError("watch: %v", err)
		}
		if len(regs) == 0 {
			return usageError("watch: at least one register required")
		}
		cmd.Registers = regs
		if isSet(fs, "rate") {
			if !(*rate > 0) || math.IsInf(*rate, 0) {
				return usageError("watch: rate must be > 0")
			}
			cmd.Rate = time.Duration(*rate * float64(time.Second))
			if cmd.Rate <= 0 {
				return usageError("watch: rate %v is below clock resolution", *rate)
			}
		}

	case CmdReset, CmdSave:
		if len(args) != 0 {
			return usageError("%s: takes no arguments", cmd.Name)
		}

	case CmdList:
		if len(args) > 1 {
			return usageError("list: usage: list [filter]")
		}
		if len(args) == 1 {
			cmd.Filter = args[0]
		}

	default:
		return usageError("unknown command %q", cmd.Name)
	}
	return nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// parseInterspersed lets flags appear before, between or after positionals.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}
