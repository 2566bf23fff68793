// internal/registers/meaning.go
package registers

import (
	"fmt"
	"strings"

	"github.com/tamzrod/motorctl/internal/codec"
)

// Annotation markers.
const (
	UnknownEnumValue = "Unknown Enum Value"
	NoBitsSet        = "None_Set"
)

// Annotation is the human meaning of a decoded value.
type Annotation struct {
	Kind    MeaningKind
	Symbols []string // enum: one name; bits: set-bit names ascending, or [NoBitsSet]
	Unknown bool     // enum value outside the set
}

func (a Annotation) String() string {
	switch a.Kind {
	case MeaningEnum:
		if a.Unknown {
			return UnknownEnumValue
		}
		return strings.Join(a.Symbols, "")
	case MeaningBits:
		return "Bits: " + strings.Join(a.Symbols, ", ")
	default:
		return ""
	}
}

// Format annotates v using m. ok is false when m carries no meaning.
func Format(v codec.Value, m ValueMap) (a Annotation, ok bool) {
	switch m.Kind() {
	case MeaningEnum:
		name, found := m.Symbol(v.Int())
		if !found {
			return Annotation{Kind: MeaningEnum, Unknown: true}, true
		}
		return Annotation{Kind: MeaningEnum, Symbols: []string{name}}, true

	case MeaningBits:
		var set []string
		for i, on := range codec.ExplodeBits(uint64(uint32(v.Int())), 32) {
			if !on {
				continue
			}
			name, found := m.BitName(uint8(i))
			if !found {
				name = fmt.Sprintf("Bit %d", i)
			}
			set = append(set, name)
		}
		if len(set) == 0 {
			set = []string{NoBitsSet}
		}
		return Annotation{Kind: MeaningBits, Symbols: set}, true

	default:
		return Annotation{}, false
	}
}
