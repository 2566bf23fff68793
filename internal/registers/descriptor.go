// internal/registers/descriptor.go
package registers

import (
	"github.com/tamzrod/motorctl/internal/codec"
)

// WordWidth is the number of 16-bit words behind every logical register.
const WordWidth = 2

// Access is a register's access mode.
type Access uint8

const (
	ReadWrite Access = iota
	ReadOnly
)

func (a Access) String() string {
	if a == ReadOnly {
		return "RO"
	}
	return "RW"
}

// Descriptor is the static metadata of one 32-bit logical register.
// Descriptors are values; the catalog hands out copies.
type Descriptor struct {
	Name        string
	Number      uint16
	Access      Access
	Codec       codec.Strategy
	Meaning     ValueMap
	Description string
}

// Address is the transport address of the low word.
// The high word lives at Address()+1.
func (d Descriptor) Address() uint16 { return 2 * d.Number }

// Words is the transport quantity covering the register.
func (d Descriptor) Words() uint16 { return WordWidth }

func (d Descriptor) SizeBits() int { return WordWidth * 16 }

func (d Descriptor) ReadOnly() bool { return d.Access == ReadOnly }

// Writable reports whether an encoder exists for the register.
func (d Descriptor) Writable() bool { return d.Access == ReadWrite }

func (d Descriptor) Decode(words []uint16) (codec.Value, error) {
	return d.Codec.Decode(words)
}
