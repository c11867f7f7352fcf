package thermo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Composition maps species names to (possibly unnormalized) fractions.
type Composition map[string]float64

// ParseComposition reads a "NAME:value, NAME:value" string. Whitespace is
// ignored and duplicate names are summed. The result is normalized to 1.
func ParseComposition(s string) (Composition, error) {
	comp := make(Composition)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, val, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not NAME:value", ErrBadComposition, part)
		}
		name = strings.TrimSpace(name)
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadComposition, part, err)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: fraction of %s must be finite and >= 0", ErrBadComposition, name)
		}
		comp[name] += v
	}
	return comp.Normalized()
}

// Normalized returns a copy scaled to sum to 1.
func (c Composition) Normalized() (Composition, error) {
	total := 0.0
	for _, v := range c {
		total += v
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: fractions sum to %g", ErrBadComposition, total)
	}
	out := make(Composition, len(c))
	for k, v := range c {
		out[k] = v / total
	}
	return out, nil
}

// String formats the composition in alphabetical species order, skipping
// zero and unknown entries.
func (c Composition) String() string {
	var parts []string
	for _, name := range KnownSpecies() {
		if v, ok := c[name]; ok && v > 0 {
			parts = append(parts, fmt.Sprintf("%s:%g", name, v))
		}
	}
	return strings.Join(parts, ", ")
}
