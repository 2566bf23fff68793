// internal/registers/catalog.go
package registers

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrNotFound reports an identifier that names no catalog register.
var ErrNotFound = errors.New("register not found")

// Catalog is an immutable register table.
// It is safe for concurrent use.
type Catalog struct {
	byName map[string]Descriptor
	sorted []Descriptor // by Number ascending
}

// NewCatalog validates the definitions and builds a catalog.
func NewCatalog(defs []Descriptor) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[string]Descriptor, len(defs)),
		sorted: make([]Descriptor, 0, len(defs)),
	}

	numbers := make(map[uint16]string, len(defs))

	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("register %d: name required", d.Number)
		}
		key := strings.ToUpper(d.Name)
		if prev, exists := c.byName[key]; exists {
			return nil, fmt.Errorf("register name %q collides with %q", d.Name, prev.Name)
		}
		if prev, exists := numbers[d.Number]; exists {
			return nil, fmt.Errorf("register number %d used by %q and %q", d.Number, prev, d.Name)
		}
		if err := d.Codec.Validate(); err != nil {
			return nil, fmt.Errorf("register %q: %w", d.Name, err)
		}
		if d.Codec.Words() != WordWidth {
			return nil, fmt.Errorf("register %q: codec spans %d words, want %d", d.Name, d.Codec.Words(), WordWidth)
		}
		if int(d.Number)*2+1 > 0xFFFF {
			return nil, fmt.Errorf("register %q: number %d beyond transport address space", d.Name, d.Number)
		}

		c.byName[key] = d
		numbers[d.Number] = d.Name
		c.sorted = append(c.sorted, d)
	}

	sort.Slice(c.sorted, func(i, j int) bool { return c.sorted[i].Number < c.sorted[j].Number })

	return c, nil
}

// MustNewCatalog is NewCatalog for static tables; invalid tables panic.
func MustNewCatalog(defs []Descriptor) *Catalog {
	c, err := NewCatalog(defs)
	if err != nil {
		panic("registers: " + err.Error())
	}
	return c
}

func (c *Catalog) Len() int { return len(c.sorted) }

// Lookup finds a register by name, case-insensitive.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	d, ok := c.byName[strings.ToUpper(name)]
	return d, ok
}

// ByNumber finds a register by its logical number.
func (c *Catalog) ByNumber(n int) (Descriptor, bool) {
	for _, d := range c.sorted {
		if int(d.Number) == n {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Resolve maps a symbolic name or a decimal register number to a descriptor.
// Names take precedence over numbers.
func (c *Catalog) Resolve(id string) (Descriptor, error) {
	if d, ok := c.Lookup(id); ok {
		return d, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: unknown register %q", ErrNotFound, id)
	}
	return c.ResolveNumber(n)
}

// ResolveNumber maps a register number to a descriptor.
func (c *Catalog) ResolveNumber(n int) (Descriptor, error) {
	if d, ok := c.ByNumber(n); ok {
		return d, nil
	}
	return Descriptor{}, fmt.Errorf("%w: no register number %d", ErrNotFound, n)
}

// List returns registers ordered by number.
// A non-empty filter keeps registers whose name contains it (case-insensitive)
// or whose number equals it.
func (c *Catalog) List(filter string) []Descriptor {
	term := strings.ToLower(strings.TrimSpace(filter))

	out := make([]Descriptor, 0, len(c.sorted))
	for _, d := range c.sorted {
		if term != "" &&
			!strings.Contains(strings.ToLower(d.Name), term) &&
			term != strconv.Itoa(int(d.Number)) {
			continue
		}
		out = append(out, d)
	}
	return out
}
