// internal/codec/codec.go
package codec

import (
	"errors"
	"fmt"
)

// ErrEncoding reports a violated word/bit-width invariant.
var ErrEncoding = errors.New("codec: encoding error")

// Signedness selects two's-complement or plain binary interpretation.
type Signedness uint8

const (
	Signed Signedness = iota
	Unsigned
)

func (s Signedness) String() string {
	if s == Unsigned {
		return "unsigned"
	}
	return "signed"
}

// PackInteger serializes v as a big-endian integer of bitWidth bits
// and splits the bytes into 16-bit words, most significant word first.
func PackInteger(sign Signedness, bitWidth int, v int64) ([]uint16, error) {
	if err := checkWidth(bitWidth); err != nil {
		return nil, err
	}
	if err := checkRange(sign, bitWidth, v); err != nil {
		return nil, err
	}

	n := bitWidth / 16
	u := uint64(v)
	words := make([]uint16, n)
	for i := n - 1; i >= 0; i-- {
		words[i] = uint16(u)
		u >>= 16
	}
	return words, nil
}

// UnpackInteger is the inverse of PackInteger.
// The words must cover exactly bitWidth bits.
func UnpackInteger(sign Signedness, bitWidth int, words []uint16) (int64, error) {
	if len(words) == 0 {
		return 0, fmt.Errorf("%w: no words to unpack", ErrEncoding)
	}
	if err := checkWidth(bitWidth); err != nil {
		return 0, err
	}
	if len(words)*16 != bitWidth {
		return 0, fmt.Errorf("%w: %d words do not hold a %d-bit value", ErrEncoding, len(words), bitWidth)
	}

	var u uint64
	for _, w := range words {
		u = u<<16 | uint64(w)
	}

	if sign == Unsigned {
		if bitWidth == 64 && u>>63 != 0 {
			return 0, fmt.Errorf("%w: unsigned 64-bit value %d overflows int64", ErrEncoding, u)
		}
		return int64(u), nil
	}

	// sign-extend from bitWidth
	shift := 64 - uint(bitWidth)
	return int64(u<<shift) >> shift, nil
}

func checkWidth(bitWidth int) error {
	if bitWidth <= 0 || bitWidth%16 != 0 || bitWidth > 64 {
		return fmt.Errorf("%w: bit width %d is not a whole number of 16-bit words (max 64)", ErrEncoding, bitWidth)
	}
	return nil
}

func checkRange(sign Signedness, bitWidth int, v int64) error {
	if sign == Unsigned {
		if v < 0 || (bitWidth < 64 && uint64(v)>>uint(bitWidth) != 0) {
			return fmt.Errorf("%w: %d out of range for unsigned %d-bit", ErrEncoding, v, bitWidth)
		}
		return nil
	}
	if bitWidth == 64 {
		return nil
	}
	limit := int64(1) << uint(bitWidth-1)
	if v < -limit || v >= limit {
		return fmt.Errorf("%w: %d out of range for signed %d-bit", ErrEncoding, v, bitWidth)
	}
	return nil
}

// ExplodeBits returns the low n bits of v, least significant first.
func ExplodeBits(v uint64, n int) []bool {
	out := make([]bool, n)
	for i := 0; i < n && i < 64; i++ {
		out[i] = (v>>uint(i))&1 == 1
	}
	return out
}

// ImplodeBits is the exact inverse of ExplodeBits.
func ImplodeBits(bits []bool) uint64 {
	var v uint64
	for i, b := range bits {
		if b && i < 64 {
			v |= 1 << uint(i)
		}
	}
	return v
}
