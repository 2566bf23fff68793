// internal/registers/valuemap.go
package registers

import (
	"sort"
	"strconv"
	"strings"
)

// MeaningKind tags a ValueMap.
type MeaningKind uint8

const (
	MeaningNone MeaningKind = iota
	MeaningEnum
	MeaningBits
)

func (k MeaningKind) String() string {
	switch k {
	case MeaningEnum:
		return "enum"
	case MeaningBits:
		return "bits"
	default:
		return "none"
	}
}

// ValueMap is the optional symbolic annotation of a register value.
// The zero value carries no meaning.
//
// Enumerations are closed: a value outside the set is a miss.
// Bit maps are open: unmapped set bits are still reported.
type ValueMap struct {
	kind    MeaningKind
	symbols []string         // enum, ordinal -> name
	bits    map[uint8]string // bits, position -> name
}

// Enum builds an enumeration whose ordinals are the argument positions.
func Enum(symbols ...string) ValueMap {
	s := make([]string, len(symbols))
	copy(s, symbols)
	return ValueMap{kind: MeaningEnum, symbols: s}
}

// Bits builds a bit map.
func Bits(names map[uint8]string) ValueMap {
	b := make(map[uint8]string, len(names))
	for k, v := range names {
		b[k] = v
	}
	return ValueMap{kind: MeaningBits, bits: b}
}

func (m ValueMap) Kind() MeaningKind { return m.kind }

func (m ValueMap) Mapped() bool { return m.kind != MeaningNone }

// Symbol returns the enumeration name for v.
func (m ValueMap) Symbol(v int64) (string, bool) {
	if m.kind != MeaningEnum || v < 0 || v >= int64(len(m.symbols)) {
		return "", false
	}
	return m.symbols[v], true
}

// Ordinal returns the enumeration value of a symbol, case-insensitive.
func (m ValueMap) Ordinal(symbol string) (int64, bool) {
	if m.kind != MeaningEnum {
		return 0, false
	}
	for i, s := range m.symbols {
		if strings.EqualFold(s, symbol) {
			return int64(i), true
		}
	}
	return 0, false
}

// Symbols lists enumeration names in ordinal order.
func (m ValueMap) Symbols() []string {
	out := make([]string, len(m.symbols))
	copy(out, m.symbols)
	return out
}

// BitName returns the mapped name of a bit position.
func (m ValueMap) BitName(bit uint8) (string, bool) {
	if m.kind != MeaningBits {
		return "", false
	}
	name, ok := m.bits[bit]
	return name, ok
}

// BitPositions lists mapped bit positions in ascending order.
func (m ValueMap) BitPositions() []uint8 {
	out := make([]uint8, 0, len(m.bits))
	for b := range m.bits {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BitPosition finds a bit by its mapped name, case-insensitive, or by the
// "Bit N" form Format uses for unmapped positions.
func (m ValueMap) BitPosition(name string) (uint8, bool) {
	if m.kind != MeaningBits {
		return 0, false
	}
	for _, b := range m.BitPositions() {
		if strings.EqualFold(m.bits[b], name) {
			return b, true
		}
	}
	fields := strings.Fields(name)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bit") {
		return 0, false
	}
	n, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}
