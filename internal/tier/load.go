package tier

import (
	"cmp"
	"fmt"
	"math"
)

// Row is one configuration row of typed scalar columns.
type Row []any

// Entry is one key/row pair of an open-ended section.
type Entry struct {
	Key string
	Row Row
}

// Source hands out typed configuration rows. Parsing the underlying text
// is the source's business.
type Source interface {
	// Lookup returns the row stored under key in section.
	Lookup(section, key string) (Row, bool)
	// Entries returns every row of section in file order.
	Entries(section string) []Entry
}

// Format names the per-level keys of a row set.
type Format struct {
	Roam    string // fmt pattern taking the level, e.g. "heat%02d"
	Race    string
	Default string // key substituted for missing or unparsable rows; "" disables
}

// DefaultFormat is the key layout used by every tuning file.
var DefaultFormat = Format{Roam: "heat%02d", Race: "race%02d", Default: "default"}

// Key returns the row key for one cell.
func (f Format) Key(mode Mode, level Level) string {
	pattern := f.Roam
	if mode == Race {
		pattern = f.Race
	}
	return fmt.Sprintf(pattern, int(level))
}

// Parser decodes one row into a value.
type Parser[T any] func(Row) (T, bool)

// Fix corrects a parsed value, typically by clamping it.
type Fix[T any] func(T) T

// Clamp returns a Fix forcing values into [lo, hi].
func Clamp[T cmp.Ordered](lo, hi T) Fix[T] {
	return func(v T) T {
		return min(max(v, lo), hi)
	}
}

// AtLeast returns a Fix raising values below lo.
func AtLeast[T cmp.Ordered](lo T) Fix[T] {
	return func(v T) T { return max(v, lo) }
}

// Int parses column col as an integer.
func Int(col int) Parser[int] {
	return func(r Row) (int, bool) {
		if col >= len(r) {
			return 0, false
		}
		switch v := r[col].(type) {
		case int:
			return v, true
		case int64:
			return int(v), true
		case float64:
			if v == math.Trunc(v) {
				return int(v), true
			}
		}
		return 0, false
	}
}

// Float parses column col as a float; integers are accepted.
func Float(col int) Parser[float64] {
	return func(r Row) (float64, bool) {
		if col >= len(r) {
			return 0, false
		}
		switch v := r[col].(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, false
			}
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		}
		return 0, false
	}
}

// Bool parses column col as a flag.
func Bool(col int) Parser[bool] {
	return func(r Row) (bool, bool) {
		if col >= len(r) {
			return false, false
		}
		v, ok := r[col].(bool)
		return v, ok
	}
}

// String parses column col as a non-empty string.
func String(col int) Parser[string] {
	return func(r Row) (string, bool) {
		if col >= len(r) {
			return "", false
		}
		v, ok := r[col].(string)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}
}

// pair is the parsed form of an interval row.
type pair[T any] struct{ lo, hi T }

func pairParser[T any](lo, hi Parser[T]) Parser[pair[T]] {
	return func(r Row) (pair[T], bool) {
		a, ok := lo(r)
		if !ok {
			return pair[T]{}, false
		}
		b, ok := hi(r)
		if !ok {
			return pair[T]{}, false
		}
		return pair[T]{a, b}, true
	}
}

// optional is the parsed form of an optional row: [enabled, value...].
type optional[T any] struct {
	enabled bool
	value   T
}

// Disabled rows may omit the value columns.
func optionalParser[T any](value Parser[T]) Parser[optional[T]] {
	return func(r Row) (optional[T], bool) {
		enabled, ok := Bool(0)(r)
		if !ok {
			return optional[T]{}, false
		}
		if !enabled {
			v, _ := value(r[1:])
			return optional[T]{enabled: false, value: v}, true
		}
		v, ok := value(r[1:])
		if !ok {
			return optional[T]{}, false
		}
		return optional[T]{enabled: true, value: v}, true
	}
}

// loadRows walks the 20 cells of section and calls set for every row that
// parses, falling back to the default row. It reports whether every cell
// was set.
func loadRows[T any](src Source, section string, f Format, parse Parser[T], set func(Mode, Level, T)) bool {
	var (
		def    T
		hasDef bool
	)
	if f.Default != "" {
		if row, ok := src.Lookup(section, f.Default); ok {
			def, hasDef = parse(row)
		}
	}
	complete := true
	for m := Roam; m <= Race; m++ {
		for l := Level(1); l <= NumLevels; l++ {
			v, ok := def, false
			if row, found := src.Lookup(section, f.Key(m, l)); found {
				if parsed, good := parse(row); good {
					v, ok = parsed, true
				}
			}
			if !ok && hasDef {
				v, ok = def, true
			}
			if !ok {
				complete = false
				continue
			}
			set(m, l, v)
		}
	}
	return complete
}

// Load fills t from the 20 rows of section. Cells whose row is missing or
// unparsable take the default row; when there is none the cell keeps its
// prior value and Load reports false.
func Load[T any](t *Tiered[T], src Source, section string, f Format, parse Parser[T], fix Fix[T]) bool {
	return loadRows(src, section, f, parse, func(m Mode, l Level, v T) {
		if fix != nil {
			v = fix(v)
		}
		t.Set(m, l, v)
	})
}

// LoadInterval fills iv from rows of the form [min, max] and then enforces
// min <= max per cell.
func LoadInterval[T cmp.Ordered](iv *Interval[T], src Source, section string, f Format, parse func(col int) Parser[T], fix Fix[T]) bool {
	ok := loadRows(src, section, f, pairParser(parse(0), parse(1)), func(m Mode, l Level, v pair[T]) {
		if fix != nil {
			v.lo, v.hi = fix(v.lo), fix(v.hi)
		}
		iv.Min.Set(m, l, v.lo)
		iv.Max.Set(m, l, v.hi)
	})
	iv.Normalize()
	return ok
}

// LoadOptional fills o from rows of the form [enabled, value].
func LoadOptional[T any](o *Optional[T], src Source, section string, f Format, parse func(col int) Parser[T], fix Fix[T]) bool {
	return loadRows(src, section, f, optionalParser(parse(0)), func(m Mode, l Level, v optional[T]) {
		if fix != nil {
			v.value = fix(v.value)
		}
		o.Enabled.Set(m, l, v.enabled)
		o.Value.Set(m, l, v.value)
	})
}

// LoadOptionalInterval fills o from rows of the form [enabled, min, max].
func LoadOptionalInterval[T cmp.Ordered](o *OptionalInterval[T], src Source, section string, f Format, parse func(col int) Parser[T], fix Fix[T]) bool {
	ok := loadRows(src, section, f, optionalParser(pairParser(parse(0), parse(1))), func(m Mode, l Level, v optional[pair[T]]) {
		lo, hi := v.value.lo, v.value.hi
		if fix != nil {
			lo, hi = fix(lo), fix(hi)
		}
		o.Enabled.Set(m, l, v.enabled)
		o.Min.Set(m, l, lo)
		o.Max.Set(m, l, hi)
	})
	o.Normalize()
	return ok
}
