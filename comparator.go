package xframe

import (
	"fmt"
	"strings"
)

// RowComparator defines a total order over Rows by lexicographic
// comparison of an ordered list of (column index, ascending) pairs,
// short-circuiting on the first column where values differ and
// honoring each column's direction.
type RowComparator struct {
	indexes   []int
	ascending []bool
}

// NewRowComparator builds a RowComparator for the given column indexes
// and per-column ascending flags. Both slices must have equal length.
func NewRowComparator(indexes []int, ascending []bool) (*RowComparator, error) {
	if len(indexes) != len(ascending) {
		return nil, fmt.Errorf("comparator has %d indexes but %d direction flags", len(indexes), len(ascending))
	}
	return &RowComparator{indexes: indexes, ascending: ascending}, nil
}

// Less returns true iff a sorts strictly before b.
// Comparison is reversed on columns marked descending.
func (c *RowComparator) Less(a Row, b Row) bool {
	for i, idx := range c.indexes {
		cmp := CompareValues(a[idx], b[idx])
		if cmp < 0 {
			return c.ascending[i]
		}
		if cmp > 0 {
			return !c.ascending[i]
		}
	}
	return false
}

// Greater returns true iff a sorts strictly after b
func (c *RowComparator) Greater(a Row, b Row) bool {
	return c.Less(b, a)
}

// Equal returns true iff a and b are equal on every comparison column
func (c *RowComparator) Equal(a Row, b Row) bool {
	for _, idx := range c.indexes {
		if CompareValues(a[idx], b[idx]) != 0 {
			return false
		}
	}
	return true
}

// LessEq returns true iff a sorts before b or is equal to it on every
// comparison column
func (c *RowComparator) LessEq(a Row, b Row) bool {
	return c.Less(a, b) || c.Equal(a, b)
}

// GreaterEq returns true iff a sorts after b or is equal to it on every
// comparison column
func (c *RowComparator) GreaterEq(a Row, b Row) bool {
	return c.Greater(a, b) || c.Equal(a, b)
}

// CompareValues imposes a total order on scalar cell values: missing
// values sort before everything, then bools (false before true), then
// numbers (int64 and float64 compare cross-type), then strings.
func CompareValues(l Value, r Value) int {
	lm, rm := IsMissing(l), IsMissing(r)
	if lm && rm {
		return 0
	}
	if lm {
		return -1
	}
	if rm {
		return 1
	}
	lf, lNum := asFloat(l)
	rf, rNum := asFloat(r)
	if lNum && rNum {
		if lf < rf {
			return -1
		}
		if lf > rf {
			return 1
		}
		return 0
	}
	if lb, ok := l.(bool); ok {
		if rb, ok := r.(bool); ok {
			if lb == rb {
				return 0
			}
			if !lb {
				return -1
			}
			return 1
		}
	}
	ls, lStr := l.(string)
	rs, rStr := r.(string)
	if lStr && rStr {
		return strings.Compare(ls, rs)
	}
	// mixed incomparable types order by their textual form so the
	// comparator stays total
	return strings.Compare(fmt.Sprint(l), fmt.Sprint(r))
}

func asFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	return 0, false
}
