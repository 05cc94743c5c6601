package frame

import (
	"fmt"
	"math/rand"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
	"github.com/cchayden/xpatterns-xframe/rdd"
	"github.com/cchayden/xpatterns-xframe/schema"
)

// takeThreshold is the row count below which bounded windows are pulled
// into memory and redistributed instead of index-filtered. An index
// filter keeps partitioning but costs a full positional pass.
const takeThreshold = 100

// Append concatenates another Frame's rows onto this one. Both Frames
// must have identical column names and types. Rows are not
// deduplicated.
func (f *Frame) Append(other *Frame) (*Frame, error) {
	if err := f.schema.Equals(other.schema); err != nil {
		return nil, err
	}
	return f.derive(f.rows.Union(other.rows), f.schema.Clone()), nil
}

// CopyRange keeps rows whose zero-based position i satisfies
// start <= i < stop and (i - start) % step == 0
func (f *Frame) CopyRange(start int64, step int64, stop int64) (*Frame, error) {
	if step <= 0 {
		return nil, errors.InvalidArgumentError{Arg: "step", Message: "must be positive"}
	}
	filtered := f.rows.ZipWithIndex().Filter(func(el interface{}) (bool, error) {
		i := el.(*rdd.Indexed).Pos
		return i >= start && i < stop && (i-start)%step == 0, nil
	})
	rows := filtered.Map(func(el interface{}) (interface{}, error) {
		return el.(*rdd.Indexed).Value, nil
	})
	return f.derive(rows, f.schema.Clone()), nil
}

// DropMissingValues removes rows with missing values in the given
// columns (all columns when the list is empty). With allBehavior false
// a row is dropped if any listed column is missing; with allBehavior
// true only if every listed column is missing. With split true the
// dropped rows are returned as a second Frame instead of discarded.
func (f *Frame) DropMissingValues(columns []string, allBehavior bool, split bool) (*Frame, *Frame, error) {
	names := columns
	if len(names) == 0 {
		names = f.schema.ColumnNames()
	}
	idxs := make([]int, len(names))
	for i, name := range names {
		idx, err := f.schema.IndexOf(name)
		if err != nil {
			return nil, nil, err
		}
		idxs[i] = idx
	}
	keep := func(el interface{}) (bool, error) {
		row := el.(xframe.Row)
		if allBehavior {
			// drop only when every listed column is missing
			for _, idx := range idxs {
				if !xframe.IsMissing(row[idx]) {
					return true, nil
				}
			}
			return false, nil
		}
		for _, idx := range idxs {
			if xframe.IsMissing(row[idx]) {
				return false, nil
			}
		}
		return true, nil
	}
	kept := f.derive(f.rows.Filter(keep), f.schema.Clone())
	if !split {
		return kept, nil, nil
	}
	dropped := f.derive(f.rows.Filter(func(el interface{}) (bool, error) {
		ok, err := keep(el)
		return !ok, err
	}), f.schema.Clone())
	return kept, dropped, nil
}

// AddRowNumber prepends a positional counter column starting at start.
// This requires a full index pass over the row sequence.
func (f *Frame) AddRowNumber(name string, start int64) (*Frame, error) {
	names := append([]string{name}, f.schema.ColumnNames()...)
	types := append([]xframe.ColumnType{xframe.IntType}, f.schema.ColumnTypes()...)
	sch, err := schema.CreateSchema(names, types)
	if err != nil {
		return nil, err
	}
	rows := f.rows.ZipWithIndex().Map(func(el interface{}) (interface{}, error) {
		idx := el.(*rdd.Indexed)
		row := idx.Value.(xframe.Row)
		out := make(xframe.Row, 0, len(row)+1)
		out = append(out, idx.Pos+start)
		out = append(out, row...)
		return out, nil
	})
	return f.derive(rows, sch), nil
}

// Head returns the first n rows as a Frame. Small requests are pulled
// into memory and redistributed; larger ones are index-filtered.
func (f *Frame) Head(n int64) (*Frame, error) {
	if n <= takeThreshold {
		els, err := f.rows.Take(int(n))
		if err != nil {
			return nil, err
		}
		return f.derive(rdd.Parallelize(f.ctx, els), f.schema.Clone()), nil
	}
	indexed := f.rows.ZipWithIndex()
	rows := indexed.Filter(func(el interface{}) (bool, error) {
		return el.(*rdd.Indexed).Pos < n, nil
	}).Map(func(el interface{}) (interface{}, error) {
		return el.(*rdd.Indexed).Value, nil
	})
	return f.derive(rows, f.schema.Clone()), nil
}

// Tail returns the last n rows as a Frame
func (f *Frame) Tail(n int64) (*Frame, error) {
	indexed := f.rows.ZipWithIndex()
	var start int64
	err := indexed.Cached(func() error {
		count, err := indexed.Count()
		if err != nil {
			return err
		}
		start = count - n
		return nil
	})
	if err != nil {
		return nil, err
	}
	rows := indexed.Filter(func(el interface{}) (bool, error) {
		return el.(*rdd.Indexed).Pos >= start, nil
	}).Map(func(el interface{}) (interface{}, error) {
		return el.(*rdd.Indexed).Value, nil
	})
	return f.derive(rows, f.schema.Clone()), nil
}

// Sample keeps each row with probability fraction. The seed gives
// per-partition determinism only, not a single global draw order.
func (f *Frame) Sample(fraction float64, seed int64) *Frame {
	return f.derive(f.rows.Sample(fraction, seed), f.schema.Clone())
}

// RandomSplit divides the rows into two Frames: the first holds
// approximately fraction of them, sampled without replacement, the
// second holds the rest. Each row's draw is seeded by its position, so
// a fixed seed reproduces the same split.
func (f *Frame) RandomSplit(fraction float64, seed int64) (*Frame, *Frame, error) {
	draws := f.rows.ZipWithIndex().Map(func(el interface{}) (interface{}, error) {
		idx := el.(*rdd.Indexed)
		rng := rand.New(rand.NewSource(seed + idx.Pos))
		return rng.Float64(), nil
	})
	labeled := rdd.SafeZip(f.rows, draws)
	var first, second []interface{}
	err := labeled.Cached(func() error {
		els, err := labeled.Collect()
		if err != nil {
			return err
		}
		for _, el := range els {
			z := el.(*rdd.Zipped)
			if z.Right.(float64) < fraction {
				first = append(first, z.Left)
			} else {
				second = append(second, z.Left)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return f.derive(rdd.Parallelize(f.ctx, first), f.schema.Clone()),
		f.derive(rdd.Parallelize(f.ctx, second), f.schema.Clone()), nil
}

// Unique removes duplicate rows. Row order is not preserved.
func (f *Frame) Unique() (*Frame, error) {
	types := f.schema.ColumnTypes()
	encoded := f.rows.Map(func(el interface{}) (interface{}, error) {
		enc, err := xframe.Key(el.(xframe.Row)).Encode()
		if err != nil {
			return nil, err
		}
		return enc, nil
	})
	rows := encoded.Distinct().Map(func(el interface{}) (interface{}, error) {
		key, err := xframe.DecodeKey(el.(string), types)
		if err != nil {
			return nil, err
		}
		return xframe.Row(key), nil
	})
	return f.derive(rows, f.schema.Clone()), nil
}

// LogicalFilter keeps rows whose corresponding selector value is
// truthy. The selector Array must have the same logical length as the
// Frame; the two are fused positionally with a safe zip.
func (f *Frame) LogicalFilter(selector *Array) (*Frame, error) {
	zipped := rdd.SafeZip(f.rows, selector.values)
	rows := zipped.Filter(func(el interface{}) (bool, error) {
		return truthy(el.(*rdd.Zipped).Right), nil
	}).Map(func(el interface{}) (interface{}, error) {
		return el.(*rdd.Zipped).Left, nil
	})
	return f.derive(rows, f.schema.Clone()), nil
}

// FlatMap expands every row into zero or more rows of a new schema
func (f *Frame) FlatMap(names []string, types []xframe.ColumnType, fn func(xframe.Row) ([]xframe.Row, error)) (*Frame, error) {
	sch, err := schema.CreateSchema(names, types)
	if err != nil {
		return nil, err
	}
	rows := f.rows.FlatMap(func(el interface{}) ([]interface{}, error) {
		expanded, err := fn(el.(xframe.Row))
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(expanded))
		for i, row := range expanded {
			out[i] = row
		}
		return out, nil
	})
	return f.derive(rows, sch), nil
}

// Transform maps every row to a single value, producing an Array of the
// given type. Results are coerced to dtype; a value that cannot be
// coerced is an error.
func (f *Frame) Transform(dtype xframe.ColumnType, fn func(xframe.Row) (xframe.Value, error)) (*Array, error) {
	values := f.rows.Map(func(el interface{}) (interface{}, error) {
		v, err := fn(el.(xframe.Row))
		if err != nil {
			return nil, err
		}
		return coerceValue(v, dtype)
	})
	return CreateArray(f.ctx, values, dtype), nil
}

func truthy(v xframe.Value) bool {
	if xframe.IsMissing(v) {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return len(t) > 0
	case []xframe.Value:
		return len(t) > 0
	case map[string]xframe.Value:
		return len(t) > 0
	}
	return true
}

func stringify(v xframe.Value) string {
	return fmt.Sprint(v)
}

func coerceValue(v xframe.Value, dtype xframe.ColumnType) (xframe.Value, error) {
	if xframe.IsMissing(v) {
		return nil, nil
	}
	switch dtype {
	case xframe.IntType:
		switch t := v.(type) {
		case int64:
			return t, nil
		case int:
			return int64(t), nil
		case float64:
			return int64(t), nil
		case bool:
			if t {
				return int64(1), nil
			}
			return int64(0), nil
		}
	case xframe.FloatType:
		switch t := v.(type) {
		case float64:
			return t, nil
		case int64:
			return float64(t), nil
		case int:
			return float64(t), nil
		}
	case xframe.BoolType:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return truthy(v), nil
	case xframe.StringType:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return stringify(v), nil
	case xframe.ListType:
		if l, ok := v.([]xframe.Value); ok {
			return l, nil
		}
	case xframe.MapType:
		if m, ok := v.(map[string]xframe.Value); ok {
			return m, nil
		}
	}
	return nil, errors.CastError{Value: stringify(v), Type: dtype.String()}
}
