package tier

import (
	"cmp"
	"fmt"
)

// Mode is the secondary axis of every tiered parameter.
type Mode int

const (
	Roam Mode = iota
	Race
)

// NumModes and NumLevels size every tiered parameter grid.
const (
	NumModes  = 2
	NumLevels = 10
)

func (m Mode) String() string {
	switch m {
	case Roam:
		return "roam"
	case Race:
		return "race"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Valid reports whether m is Roam or Race.
func (m Mode) Valid() bool { return m == Roam || m == Race }

// Level is an escalation (heat) level in [1, NumLevels].
type Level int

// Valid reports whether l is inside [1, NumLevels].
func (l Level) Valid() bool { return l >= 1 && l <= NumLevels }

// ClampLevel forces l into [1, NumLevels].
func ClampLevel(l Level) Level {
	if l < 1 {
		return 1
	}
	if l > NumLevels {
		return NumLevels
	}
	return l
}

// Selector is anything that follows the active (mode, level) cell.
type Selector interface {
	SelectTier(mode Mode, level Level)
}

// Group re-selects several parameters together.
type Group []Selector

func (g Group) SelectTier(mode Mode, level Level) {
	for _, s := range g {
		if s != nil {
			s.SelectTier(mode, level)
		}
	}
}

// Tiered holds one value per (mode, level) cell plus the current selection.
// The zero selection is Roam / level 1.
type Tiered[T any] struct {
	values [NumModes][NumLevels]T
	mode   Mode
	index  int
}

// NewTiered returns a parameter with every cell set to def.
func NewTiered[T any](def T) *Tiered[T] {
	t := &Tiered[T]{}
	t.Fill(def)
	return t
}

// Fill sets every cell to v.
func (t *Tiered[T]) Fill(v T) {
	for m := range t.values {
		for i := range t.values[m] {
			t.values[m][i] = v
		}
	}
}

// At returns the value of one cell. Out-of-range input is clamped.
func (t *Tiered[T]) At(mode Mode, level Level) T {
	m, i := cell(mode, level)
	return t.values[m][i]
}

// Set overwrites one cell. Out-of-range input is clamped.
func (t *Tiered[T]) Set(mode Mode, level Level, v T) {
	m, i := cell(mode, level)
	t.values[m][i] = v
}

// Current returns the value of the selected cell.
func (t *Tiered[T]) Current() T {
	return t.values[t.mode][t.index]
}

// Selected returns the currently selected cell.
func (t *Tiered[T]) Selected() (Mode, Level) {
	return t.mode, Level(t.index + 1)
}

func (t *Tiered[T]) SelectTier(mode Mode, level Level) {
	m, i := cell(mode, level)
	t.mode = Mode(m)
	t.index = i
}

func cell(mode Mode, level Level) (int, int) {
	m := int(Roam)
	if mode == Race {
		m = int(Race)
	}
	return m, int(ClampLevel(level)) - 1
}

// Interval is a min/max pair of tiered values with min <= max per cell.
type Interval[T cmp.Ordered] struct {
	Min Tiered[T]
	Max Tiered[T]
}

// NewInterval returns an interval with every cell set to [lo, hi].
func NewInterval[T cmp.Ordered](lo, hi T) *Interval[T] {
	iv := &Interval[T]{}
	iv.Min.Fill(lo)
	iv.Max.Fill(hi)
	iv.Normalize()
	return iv
}

// Current returns the selected bounds.
func (iv *Interval[T]) Current() (T, T) {
	return iv.Min.Current(), iv.Max.Current()
}

// Normalize clamps min down to max in every cell.
func (iv *Interval[T]) Normalize() {
	for m := Roam; m <= Race; m++ {
		for l := Level(1); l <= NumLevels; l++ {
			if lo, hi := iv.Min.At(m, l), iv.Max.At(m, l); lo > hi {
				iv.Min.Set(m, l, hi)
			}
		}
	}
}

func (iv *Interval[T]) SelectTier(mode Mode, level Level) {
	iv.Min.SelectTier(mode, level)
	iv.Max.SelectTier(mode, level)
}

// Optional pairs a tiered value with a tiered enabled flag.
type Optional[T any] struct {
	Enabled Tiered[bool]
	Value   Tiered[T]
}

// Current returns the selected value and whether it is enabled.
func (o *Optional[T]) Current() (T, bool) {
	return o.Value.Current(), o.Enabled.Current()
}

func (o *Optional[T]) SelectTier(mode Mode, level Level) {
	o.Enabled.SelectTier(mode, level)
	o.Value.SelectTier(mode, level)
}

// OptionalInterval pairs an interval with a tiered enabled flag.
type OptionalInterval[T cmp.Ordered] struct {
	Enabled Tiered[bool]
	Interval[T]
}

// Current returns the selected bounds and whether they are enabled.
func (o *OptionalInterval[T]) Current() (T, T, bool) {
	lo, hi := o.Interval.Current()
	return lo, hi, o.Enabled.Current()
}

func (o *OptionalInterval[T]) SelectTier(mode Mode, level Level) {
	o.Enabled.SelectTier(mode, level)
	o.Interval.SelectTier(mode, level)
}
