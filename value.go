package xframe

import (
	"math"
)

// Value is a single cell of tabular data. Cells hold int64, float64,
// string, bool, []Value (list columns), map[string]Value (mapping
// columns), or nil for a missing value.
type Value = interface{}

// Row is an ordered sequence of Values whose length always equals the
// column count of the owning table.
type Row []Value

// Clone returns a copy of this Row. Cell values are shared.
func (r Row) Clone() Row {
	dup := make(Row, len(r))
	copy(dup, r)
	return dup
}

// IsMissing returns true iff v is a missing marker (nil or NaN)
func IsMissing(v Value) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return true
	}
	return false
}

// IsMissingOrEmpty returns true iff v is missing, or is a zero-length
// list or mapping value
func IsMissingOrEmpty(v Value) bool {
	if IsMissing(v) {
		return true
	}
	switch t := v.(type) {
	case []Value:
		return len(t) == 0
	case map[string]Value:
		return len(t) == 0
	}
	return false
}
