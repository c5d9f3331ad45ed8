package catalog

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Kind tags a filter definition.
type Kind string

const (
	KindChoice Kind = "choice"
	KindRange  Kind = "range"
)

// Slider bounds used for every range filter on screen, whatever the definition declares.
const (
	SliderMin     int64 = 50000
	SliderMax     int64 = 2000000
	SliderStep    int64 = 5000
	SliderDefault int64 = 500000
)

// Option is one selectable entry of a choice filter.
type Option struct {
	ID    int
	Label string
}

// Definition describes one filter. Choice filters use Options; range filters use Min/Max/Step.
type Definition struct {
	Kind    Kind
	ID      int
	Name    string
	Options []Option
	Min     int64
	Max     int64
	Step    int64
	Default *string
}

// HasOption reports whether label matches one of the choice options exactly.
func (d Definition) HasOption(label string) bool {
	for _, o := range d.Options {
		if o.Label == label {
			return true
		}
	}
	return false
}

// Value is the current selection for a filter id. A nil Value means unset.
type Value struct {
	ID    int
	Value *string
}

// Catalog is the ordered, immutable set of filter definitions.
type Catalog struct {
	defs []Definition
	byID map[int]int
}

func New(defs ...Definition) Catalog {
	c := Catalog{defs: make([]Definition, len(defs)), byID: make(map[int]int, len(defs))}
	copy(c.defs, defs)
	for i, d := range defs {
		c.byID[d.ID] = i
	}
	return c
}

// Definitions returns a copy of the definitions in display order.
func (c Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

func (c Catalog) Lookup(id int) (Definition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

func (c Catalog) Len() int { return len(c.defs) }

// Defaults returns a fresh value list: every filter unset except those with a default.
func (c Catalog) Defaults() []Value {
	out := make([]Value, 0, len(c.defs))
	for _, d := range c.defs {
		v := Value{ID: d.ID}
		if d.Default != nil {
			v.Value = Ptr(*d.Default)
		}
		out = append(out, v)
	}
	return out
}

// Ptr returns a pointer to a copy of s.
func Ptr(s string) *string { return &s }

// StepRange moves a slider value by delta steps, clamped to the slider bounds.
// Unset or unparsable values start from SliderDefault.
func StepRange(current *string, delta int) string {
	n := SliderDefault
	if current != nil {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(*current), 10, 64); err == nil {
			n = parsed
		}
	}
	n += int64(delta) * SliderStep
	if n < SliderMin {
		n = SliderMin
	}
	if n > SliderMax {
		n = SliderMax
	}
	return strconv.FormatInt(n, 10)
}

// CycleOption returns the option after (delta>0) or before (delta<0) current.
// The unset entry sits before the first option, so cycling wraps through nil.
func CycleOption(d Definition, current *string, delta int) *string {
	n := len(d.Options) + 1
	idx := 0
	if current != nil {
		for i, o := range d.Options {
			if o.Label == *current {
				idx = i + 1
				break
			}
		}
	}
	idx = ((idx+delta)%n + n) % n
	if idx == 0 {
		return nil
	}
	return Ptr(d.Options[idx-1].Label)
}

// Suggest returns the option label closest to value, compared case-insensitively.
// It returns "" for range filters, exact matches and empty input.
func Suggest(d Definition, value string) string {
	if d.Kind != KindChoice || value == "" || d.HasOption(value) {
		return ""
	}
	needle := strings.ToLower(strings.TrimSpace(value))
	best, bestDist := "", -1
	for _, o := range d.Options {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(o.Label))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = o.Label, dist
		}
	}
	return best
}
