package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/motorctl/internal/config"
)

func parse(t *testing.T, args ...string) *Command {
	t.Helper()
	cmd, exit, err := Parse(args, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)
	return cmd
}

func exitCode(t *testing.T, args ...string) int {
	t.Helper()
	_, _, err := Parse(args, &bytes.Buffer{})
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok, "want *ExitError, got %T", err)
	return exitErr.Code
}

func TestParse_Read(t *testing.T) {
	cmd := parse(t, "-i", "192.168.0.58", "read", "P_IST", "35")
	assert.Equal(t, CmdRead, cmd.Name)
	assert.Equal(t, []string{"P_IST", "35"}, cmd.Registers)
	assert.True(t, cmd.NeedsConnection())
}

func TestParse_Write(t *testing.T) {
	cmd := parse(t, "--ip-address", "h", "write", "V_SOLL", "-100.5")
	assert.Equal(t, []string{"V_SOLL"}, cmd.Registers)
	assert.Equal(t, "-100.5", cmd.Value)

	assert.Equal(t, 2, exitCode(t, "write", "V_SOLL"))
}

func TestParse_WatchRate(t *testing.T) {
	cmd := parse(t, "watch", "P_IST", "--rate", "0.25", "V_IST")
	assert.Equal(t, []string{"P_IST", "V_IST"}, cmd.Registers)
	assert.Equal(t, 250*time.Millisecond, cmd.Rate)

	cmd = parse(t, "watch", "ERR_STAT")
	assert.Zero(t, cmd.Rate)

	assert.Equal(t, 2, exitCode(t, "watch", "--rate", "1"))
	assert.Equal(t, 2, exitCode(t, "watch", "--rate", "-1", "P_IST"))
	assert.Equal(t, 2, exitCode(t, "watch", "--rate", "0", "P_IST"))
	assert.Equal(t, 2, exitCode(t, "watch", "-rate=NaN", "P_IST"))
	assert.Equal(t, 2, exitCode(t, "watch", "-rate=+Inf", "P_IST"))
}

func TestParse_Others(t *testing.T) {
	assert.Equal(t, "velocity", parse(t, "mode", "velocity").Mode)
	assert.Equal(t, CmdReset, parse(t, "reset").Name)
	assert.Equal(t, CmdSave, parse(t, "SAVE").Name)

	list := parse(t, "list", "p_")
	assert.Equal(t, "p_", list.Filter)
	assert.False(t, list.NeedsConnection())

	assert.Equal(t, 2, exitCode(t, "frobnicate"))
	assert.Equal(t, 2, exitCode(t))
	assert.Equal(t, 2, exitCode(t, "-u", "300", "read", "P_IST"))
	assert.Equal(t, 2, exitCode(t, "reset", "now"))
}

func TestParse_Help(t *testing.T) {
	var out bytes.Buffer
	cmd, exit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cmd)
	assert.Contains(t, out.String(), "watch")
}

func TestApply_FlagsWin(t *testing.T) {
	cfg := &config.Config{Connection: config.ConnectionConfig{Host: "from-file", Port: 502, UnitID: 1}}

	cmd := parse(t, "-i", "10.0.0.9", "-p", "1502", "-u", "4", "-v", "-log-format", "json", "reset")
	cmd.Apply(cfg)

	assert.Equal(t, "10.0.0.9", cfg.Connection.Host)
	assert.Equal(t, 1502, cfg.Connection.Port)
	assert.Equal(t, uint8(4), cfg.Connection.UnitID)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	untouched := &config.Config{Connection: config.ConnectionConfig{Host: "keep"}}
	parse(t, "list").Apply(untouched)
	assert.Equal(t, "keep", untouched.Connection.Host)
}
