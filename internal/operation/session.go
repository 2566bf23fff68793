// internal/operation/session.go
package operation

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/tamzrod/motorctl/internal/codec"
	"github.com/tamzrod/motorctl/internal/registers"
	"github.com/tamzrod/motorctl/internal/transport"
)

var (
	ErrReadOnly     = errors.New("register is read-only")
	ErrInvalidValue = errors.New("invalid value")
	ErrUnknownMode  = errors.New("unknown mode")
)

// Transport is the raw word-level channel the session drives.
// Addresses and quantities are in 16-bit words.
type Transport interface {
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error)
	WriteRegisters(addr uint16, regs []uint16) error
}

// Stage is where an operation stopped.
type Stage uint8

const (
	StageResolving Stage = iota
	StageTransporting
	StageDecoding
	StageEncoding
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageResolving:
		return "resolving"
	case StageTransporting:
		return "transporting"
	case StageDecoding:
		return "decoding"
	case StageEncoding:
		return "encoding"
	default:
		return "done"
	}
}

// Result is the outcome of one register operation.
// Err == nil means success; otherwise Stage says where it failed.
type Result struct {
	ID       string // identifier as supplied by the caller
	Register registers.Descriptor
	Resolved bool

	Value      codec.Value
	Raw        []uint16
	Annotation registers.Annotation
	Annotated  bool

	Input string // write only: the raw input string, kept for diagnostics

	Stage Stage
	Err   error
}

func (r Result) OK() bool { return r.Err == nil }

// TransportCode is the transport last-error code, 0 when the failure
// (if any) was not a transport failure.
func (r Result) TransportCode() uint16 {
	var te *transport.Error
	if errors.As(r.Err, &te) {
		return te.Code
	}
	return transport.CodeNone
}

// Session performs register operations over one shared transport.
// Every operation holds the session lock for its whole duration, so at
// most one transaction is in flight.
type Session struct {
	mu      sync.Mutex
	tr      Transport
	catalog *registers.Catalog
	log     *slog.Logger
}

// NewSession wires a transport to a catalog. A nil logger means slog.Default().
func NewSession(tr Transport, catalog *registers.Catalog, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{tr: tr, catalog: catalog, log: log}
}

// Resolve looks up a register, logging misses.
func (s *Session) Resolve(id string) (registers.Descriptor, error) {
	d, err := s.catalog.Resolve(id)
	if err != nil {
		s.log.Error("register lookup failed", "id", id, "err", err)
	}
	return d, err
}

// transportError normalizes collaborator failures into *transport.Error.
func transportError(op string, err error) error {
	var te *transport.Error
	if errors.As(err, &te) {
		return err
	}
	return &transport.Error{Op: op, Code: transport.Code(err), Err: err}
}
