// internal/transport/errors.go
package transport

import (
	"errors"
	"fmt"
)

// Last-error codes, numbered as classic Modbus TCP clients report them.
const (
	CodeNone        uint16 = 0
	CodeResolve     uint16 = 1
	CodeConnect     uint16 = 2
	CodeSend        uint16 = 3
	CodeRecv        uint16 = 4
	CodeTimeout     uint16 = 5
	CodeFrame       uint16 = 6
	CodeException   uint16 = 7
	CodeCRC         uint16 = 8
	CodeSocketClose uint16 = 9
)

// Error is a raw I/O failure with an opaque code.
type Error struct {
	Op        string // "read", "write", "open"
	Code      uint16
	Exception byte // device exception code when Code == CodeException
	Err       error
}

func (e *Error) Error() string {
	if e.Code == CodeException {
		return fmt.Sprintf("%s: modbus exception %d (code %d): %v", e.Op, e.Exception, e.Code, e.Err)
	}
	return fmt.Sprintf("%s failed (code %d): %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode satisfies the coder contract Code looks for.
func (e *Error) ErrorCode() uint16 { return e.Code }

// Code extracts a best-effort code from an error without assuming concrete types.
// If the error does not expose a code, returns 1 (generic error).
func Code(err error) uint16 {
	if err == nil {
		return CodeNone
	}

	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}

	type coderA interface{ Code() uint16 }
	type coderB interface{ ErrorCode() uint16 }
	type coderC interface{ ModbusCode() uint16 }

	var a coderA
	if errors.As(err, &a) {
		return a.Code()
	}
	var b coderB
	if errors.As(err, &b) {
		return b.ErrorCode()
	}
	var c coderC
	if errors.As(err, &c) {
		return c.ModbusCode()
	}

	return 1
}
