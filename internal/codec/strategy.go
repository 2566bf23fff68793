// internal/codec/strategy.go
package codec

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the closed set of register codecs.
type Kind uint8

const (
	KindSigned Kind = iota
	KindUnsigned
	KindScaledSigned
	KindScaledUnsigned
	KindBitfield
)

func (k Kind) String() string {
	switch k {
	case KindSigned:
		return "signed"
	case KindUnsigned:
		return "unsigned"
	case KindScaledSigned:
		return "scaled-signed"
	case KindScaledUnsigned:
		return "scaled-unsigned"
	case KindBitfield:
		return "bitfield"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a decoded register value: an integer or a real.
type Value struct {
	i    int64
	f    float64
	real bool
}

func IntValue(v int64) Value { return Value{i: v} }
func RealValue(v float64) Value { return Value{f: v, real: true} }
func (v Value) IsReal() bool { return v.real }

// Int returns the integer value; reals are truncated toward zero.
func (v Value) Int() int64 {
	if v.real {
		return int64(v.f)
	}
	return v.i
}

func (v Value) Float() float64 {
	if v.real {
		return v.f
	}
	return float64(v.i)
}

func (v Value) String() string {
	if v.real {
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	}
	return strconv.FormatInt(v.i, 10)
}

// Strategy converts between a register's raw words and its typed value.
//
// Scaled kinds decode as raw*Mul/Div and encode as trunc(x*Div/Mul).
// Mul and Div are device calibration constants and are kept exactly as
// published, so the arithmetic order above matters.
type Strategy struct {
	Kind     Kind
	BitWidth int
	Mul      float64
	Div      float64
}

func SignedInt(bitWidth int) Strategy { return Strategy{Kind: KindSigned, BitWidth: bitWidth} }
func UnsignedInt(bitWidth int) Strategy { return Strategy{Kind: KindUnsigned, BitWidth: bitWidth} }
func Bitfield(bitWidth int) Strategy { return Strategy{Kind: KindBitfield, BitWidth: bitWidth} }

func ScaledSigned(bitWidth int, mul, div float64) Strategy {
	return Strategy{Kind: KindScaledSigned, BitWidth: bitWidth, Mul: mul, Div: div}
}

func ScaledUnsigned(bitWidth int, mul, div float64) Strategy {
	return Strategy{Kind: KindScaledUnsigned, BitWidth: bitWidth, Mul: mul, Div: div}
}

// Words is the number of 16-bit words the strategy occupies.
func (s Strategy) Words() int { return s.BitWidth / 16 }

func (s Strategy) Scaled() bool {
	return s.Kind == KindScaledSigned || s.Kind == KindScaledUnsigned
}

func (s Strategy) signedness() Signedness {
	switch s.Kind {
	case KindSigned, KindScaledSigned:
		return Signed
	default:
		return Unsigned
	}
}

// Validate checks the strategy is usable. Catalog construction calls it.
func (s Strategy) Validate() error {
	if err := checkWidth(s.BitWidth); err != nil {
		return err
	}
	if s.Kind > KindBitfield {
		return fmt.Errorf("%w: unknown codec %s", ErrEncoding, s.Kind)
	}
	if s.Scaled() && (s.Mul == 0 || s.Div == 0) {
		return fmt.Errorf("%w: scaled codec needs non-zero factors", ErrEncoding)
	}
	return nil
}

// Decode turns raw words into a value.
func (s Strategy) Decode(words []uint16) (Value, error) {
	raw, err := UnpackInteger(s.signedness(), s.BitWidth, words)
	if err != nil {
		return Value{}, err
	}
	if s.Scaled() {
		return RealValue(float64(raw) * s.Mul / s.Div), nil
	}
	return IntValue(raw), nil
}

// Encode turns a value into raw words. Non-integral input is truncated
// toward zero after scaling.
func (s Strategy) Encode(x float64) ([]uint16, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, fmt.Errorf("%w: %v is not a finite number", ErrEncoding, x)
	}
	if s.Scaled() {
		x = x * s.Div / s.Mul
	}
	t := math.Trunc(x)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return nil, fmt.Errorf("%w: %v out of range", ErrEncoding, x)
	}
	return PackInteger(s.signedness(), s.BitWidth, int64(t))
}

// EncodeBits packs a bit list (least significant first) for bitfield codecs.
func (s Strategy) EncodeBits(bits []bool) ([]uint16, error) {
	if s.Kind != KindBitfield {
		return nil, fmt.Errorf("%w: %s codec does not take bits", ErrEncoding, s.Kind)
	}
	if len(bits) > s.BitWidth {
		return nil, fmt.Errorf("%w: %d bits exceed %d-bit register", ErrEncoding, len(bits), s.BitWidth)
	}
	return PackInteger(Unsigned, s.BitWidth, int64(ImplodeBits(bits)))
}
