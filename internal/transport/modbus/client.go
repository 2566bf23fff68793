// internal/transport/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/motorctl/internal/transport"
)

const (
	ModeTCP = "tcp"
	ModeRTU = "rtu"
)

// handler is what both goburrow handlers provide.
type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Client is a single connection to one motor.
// It serializes requests; at most one transaction is in flight.
type Client struct {
	mu      sync.Mutex
	handler handler
	client  modbus.Client
	open    bool
	desc    string
}

type Config struct {
	Mode     string // tcp (default) or rtu
	Endpoint string // host:port for tcp
	UnitID   uint8
	Timeout  time.Duration

	// rtu only
	Device   string
	BaudRate int
	DataBits int
	Parity   string
	StopBits int
}

// New builds a client. It does not connect; call Open.
func New(cfg Config) (*Client, error) {
	var h handler
	var desc string

	switch strings.ToLower(cfg.Mode) {
	case "", ModeTCP:
		if cfg.Endpoint == "" {
			return nil, errors.New("modbus client: endpoint required")
		}
		th := modbus.NewTCPClientHandler(cfg.Endpoint)
		th.Timeout = cfg.Timeout
		th.SlaveId = cfg.UnitID
		h, desc = th, "tcp://"+cfg.Endpoint

	case ModeRTU:
		if cfg.Device == "" {
			return nil, errors.New("modbus client: serial device required")
		}
		rh := modbus.NewRTUClientHandler(cfg.Device)
		rh.BaudRate = cfg.BaudRate
		rh.DataBits = cfg.DataBits
		rh.Parity = cfg.Parity
		rh.StopBits = cfg.StopBits
		rh.Timeout = cfg.Timeout
		rh.SlaveId = cfg.UnitID
		h, desc = rh, "rtu://"+cfg.Device

	default:
		return nil, fmt.Errorf("modbus client: unknown mode %q", cfg.Mode)
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
		desc:    desc,
	}, nil
}

func (c *Client) String() string { return c.desc }

// Open connects. Opening an open client is a no-op.
func (c *Client) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		return nil
	}
	if err := c.handler.Connect(); err != nil {
		return &transport.Error{Op: "open", Code: connectCode(err), Err: err}
	}
	c.open = true
	return nil
}

func (c *Client) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil
	}
	c.open = false
	return c.handler.Close()
}

// ReadHoldingRegisters reads qty words starting at addr (FC 3).
func (c *Client) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, classify("read", transport.CodeRecv, err)
	}
	if len(payload) != 2*int(qty) {
		return nil, &transport.Error{
			Op:   "read",
			Code: transport.CodeFrame,
			Err:  fmt.Errorf("got %d bytes, want %d", len(payload), 2*int(qty)),
		}
	}
	return unpackRegisters(payload), nil
}

// WriteRegisters writes all words in one request (FC 16).
func (c *Client) WriteRegisters(addr uint16, regs []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	qty := uint16(len(regs))
	payload := packRegisters(regs)

	if _, err := c.client.WriteMultipleRegisters(addr, qty, payload); err != nil {
		return classify("write", transport.CodeSend, err)
	}
	return nil
}

// classify maps goburrow and net errors onto transport codes.
func classify(op string, fallback uint16, err error) error {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return &transport.Error{Op: op, Code: transport.CodeException, Exception: me.ExceptionCode, Err: err}
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &transport.Error{Op: op, Code: transport.CodeTimeout, Err: err}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return &transport.Error{Op: op, Code: transport.CodeSocketClose, Err: err}
	}
	if strings.HasPrefix(err.Error(), "modbus:") {
		// goburrow reports framing and echo mismatches this way
		return &transport.Error{Op: op, Code: transport.CodeFrame, Err: err}
	}
	var oe *net.OpError
	if errors.As(err, &oe) && oe.Op == "dial" {
		return &transport.Error{Op: op, Code: connectCode(err), Err: err}
	}

	return &transport.Error{Op: op, Code: fallback, Err: err}
}

func connectCode(err error) uint16 {
	var de *net.DNSError
	if errors.As(err, &de) {
		return transport.CodeResolve
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return transport.CodeTimeout
	}
	return transport.CodeConnect
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
