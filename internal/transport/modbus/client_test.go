package modbus

import (
	"errors"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/goburrow/modbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/motorctl/internal/transport"
)

type timeoutErr struct{}

func (timeoutErr) Error() string { return "i/o timeout" }
func (timeoutErr) Timeout() bool { return true }
func (timeoutErr) Temporary() bool { return true }

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{Mode: ModeRTU})
	assert.Error(t, err)

	_, err = New(Config{Mode: "udp", Endpoint: "x:502"})
	assert.Error(t, err)

	c, err := New(Config{Endpoint: "10.0.0.5:502", UnitID: 1, Timeout: time.Second})
	require.NoError(t, err)
	assert.False(t, c.IsOpen())
	assert.Equal(t, "tcp://10.0.0.5:502", c.String())
	assert.NoError(t, c.Close())

	c, err = New(Config{Mode: "RTU", Device: "/dev/ttyUSB0", BaudRate: 19200, DataBits: 8, Parity: "N", StopBits: 1})
	require.NoError(t, err)
	assert.Equal(t, "rtu:///dev/ttyUSB0", c.String())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want uint16
	}{
		{"exception", &modbus.ModbusError{FunctionCode: 0x83, ExceptionCode: 2}, transport.CodeException},
		{"timeout", fmt.Errorf("wrapped: %w", timeoutErr{}), transport.CodeTimeout},
		{"eof", io.EOF, transport.CodeSocketClose},
		{"frame", errors.New("modbus: response data size '3' does not match count '4'"), transport.CodeFrame},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, transport.CodeConnect},
		{"other", errors.New("boom"), transport.CodeRecv},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify("read", transport.CodeRecv, tc.err)
			assert.Equal(t, tc.want, transport.Code(err))
			assert.ErrorIs(t, err, tc.err)
		})
	}

	var te *transport.Error
	require.ErrorAs(t, classify("write", transport.CodeSend, &modbus.ModbusError{ExceptionCode: 3}), &te)
	assert.Equal(t, byte(3), te.Exception)
}

func TestPackUnpackRegisters(t *testing.T) {
	regs := []uint16{0x0000, 0x0AD2, 0xFFFF}
	b := packRegisters(regs)
	assert.Equal(t, []byte{0x00, 0x00, 0x0A, 0xD2, 0xFF, 0xFF}, b)
	assert.Equal(t, regs, unpackRegisters(b))
}
