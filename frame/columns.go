package frame

import (
	"fmt"
	"sort"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
	"github.com/cchayden/xpatterns-xframe/rdd"
	"github.com/cchayden/xpatterns-xframe/schema"
)

// SelectColumn projects a single named column as an Array. The
// projection is a pure per-row map and preserves partitioning.
func (f *Frame) SelectColumn(name string) (*Array, error) {
	idx, err := f.schema.IndexOf(name)
	if err != nil {
		return nil, err
	}
	values := f.rows.Map(func(el interface{}) (interface{}, error) {
		return el.(xframe.Row)[idx], nil
	})
	return CreateArray(f.ctx, values, f.schema.ColumnTypes()[idx]), nil
}

// SelectColumns projects the named columns, in the given order, as a
// new Frame
func (f *Frame) SelectColumns(names []string) (*Frame, error) {
	idxs := make([]int, len(names))
	types := make([]xframe.ColumnType, len(names))
	allTypes := f.schema.ColumnTypes()
	for i, name := range names {
		idx, err := f.schema.IndexOf(name)
		if err != nil {
			return nil, err
		}
		idxs[i] = idx
		types[i] = allTypes[idx]
	}
	sch, err := schema.CreateSchema(names, types)
	if err != nil {
		return nil, err
	}
	rows := f.mapRows(func(row xframe.Row) (xframe.Row, error) {
		out := make(xframe.Row, len(idxs))
		for i, idx := range idxs {
			out[i] = row[idx]
		}
		return out, nil
	})
	return f.derive(rows, sch), nil
}

// AddColumn appends an Array as a new column. The Array must have the
// same logical length as the Frame; the two are fused positionally with
// a safe zip because their partition layouts may differ. An empty name
// synthesizes X<k>; a colliding name fails with DuplicateNameError
// rather than auto-suffixing.
func (f *Frame) AddColumn(data *Array, name string) (*Frame, error) {
	if name == "" {
		name = fmt.Sprintf("X%d", f.schema.NumColumns())
	}
	if f.schema.HasColumn(name) {
		return nil, errors.DuplicateNameError{Name: name}
	}
	sch := f.schema.Clone()
	if err := sch.AppendColumn(name, data.elemType); err != nil {
		return nil, err
	}
	zipped := rdd.SafeZip(f.rows, data.values)
	rows := zipped.Map(func(el interface{}) (interface{}, error) {
		z := el.(*rdd.Zipped)
		row := z.Left.(xframe.Row)
		out := make(xframe.Row, len(row)+1)
		copy(out, row)
		out[len(row)] = z.Right
		return out, nil
	})
	return f.derive(rows, sch), nil
}

// AddColumnsArray appends several Arrays as new columns, in order
func (f *Frame) AddColumnsArray(cols []*Array, names []string) (*Frame, error) {
	if len(cols) != len(names) {
		return nil, errors.SchemaMismatchError{
			Message: fmt.Sprintf("%d columns but %d names", len(cols), len(names)),
		}
	}
	out := f
	for i, col := range cols {
		next, err := out.AddColumn(col, names[i])
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// AddColumnsFrame appends every column of another Frame. Colliding
// names from the other Frame are suffixed.
func (f *Frame) AddColumnsFrame(other *Frame) (*Frame, error) {
	names := f.schema.ColumnNames()
	types := f.schema.ColumnTypes()
	for i, name := range other.schema.ColumnNames() {
		names = append(names, schema.UniqueName(names, name))
		types = append(types, other.schema.ColumnTypes()[i])
	}
	sch, err := schema.CreateSchema(names, types)
	if err != nil {
		return nil, err
	}
	zipped := rdd.SafeZip(f.rows, other.rows)
	rows := zipped.Map(func(el interface{}) (interface{}, error) {
		z := el.(*rdd.Zipped)
		left := z.Left.(xframe.Row)
		right := z.Right.(xframe.Row)
		out := make(xframe.Row, 0, len(left)+len(right))
		out = append(out, left...)
		out = append(out, right...)
		return out, nil
	})
	return f.derive(rows, sch), nil
}

// RemoveColumn drops a single named column
func (f *Frame) RemoveColumn(name string) (*Frame, error) {
	return f.RemoveColumns([]string{name})
}

// RemoveColumns drops the named columns. Indexes are popped from
// highest to lowest so earlier removals do not invalidate later ones.
func (f *Frame) RemoveColumns(names []string) (*Frame, error) {
	idxs := make([]int, len(names))
	for i, name := range names {
		idx, err := f.schema.IndexOf(name)
		if err != nil {
			return nil, err
		}
		idxs[i] = idx
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idxs)))

	newNames := f.schema.ColumnNames()
	newTypes := f.schema.ColumnTypes()
	for _, idx := range idxs {
		newNames = append(newNames[:idx], newNames[idx+1:]...)
		newTypes = append(newTypes[:idx], newTypes[idx+1:]...)
	}
	sch, err := schema.CreateSchema(newNames, newTypes)
	if err != nil {
		return nil, err
	}
	rows := f.mapRows(func(row xframe.Row) (xframe.Row, error) {
		out := row.Clone()
		for _, idx := range idxs {
			out = append(out[:idx], out[idx+1:]...)
		}
		return out, nil
	})
	return f.derive(rows, sch), nil
}

// SwapColumns exchanges the positions of two columns
func (f *Frame) SwapColumns(col1 string, col2 string) (*Frame, error) {
	i1, err := f.schema.IndexOf(col1)
	if err != nil {
		return nil, err
	}
	i2, err := f.schema.IndexOf(col2)
	if err != nil {
		return nil, err
	}
	names := f.schema.ColumnNames()
	types := f.schema.ColumnTypes()
	names[i1], names[i2] = names[i2], names[i1]
	types[i1], types[i2] = types[i2], types[i1]
	sch, err := schema.CreateSchema(names, types)
	if err != nil {
		return nil, err
	}
	rows := f.mapRows(func(row xframe.Row) (xframe.Row, error) {
		out := row.Clone()
		out[i1], out[i2] = out[i2], out[i1]
		return out, nil
	})
	return f.derive(rows, sch), nil
}

// SetColumnName renames a column in place. It does not deduplicate; the
// caller is responsible for avoiding collisions.
func (f *Frame) SetColumnName(oldName string, newName string) (*Frame, error) {
	sch := f.schema.Clone()
	if err := sch.Rename(oldName, newName); err != nil {
		return nil, err
	}
	return f.derive(f.rows, sch), nil
}

// ReplaceSingleColumn replaces the column of a single-column Frame
func (f *Frame) ReplaceSingleColumn(data *Array) (*Frame, error) {
	if f.schema.NumColumns() != 1 {
		return nil, errors.SchemaMismatchError{
			Message: fmt.Sprintf("replace_single_column requires one column, frame has %d", f.schema.NumColumns()),
		}
	}
	names := f.schema.ColumnNames()
	sch, err := schema.CreateSchema(names, []xframe.ColumnType{data.elemType})
	if err != nil {
		return nil, err
	}
	rows := data.values.Map(func(el interface{}) (interface{}, error) {
		return xframe.Row{el}, nil
	})
	return f.derive(rows, sch), nil
}

// ReplaceSelectedColumn replaces the named column's values with an
// Array of equal length, fused positionally with a safe zip
func (f *Frame) ReplaceSelectedColumn(name string, data *Array) (*Frame, error) {
	idx, err := f.schema.IndexOf(name)
	if err != nil {
		return nil, err
	}
	types := f.schema.ColumnTypes()
	types[idx] = data.elemType
	sch, err := schema.CreateSchema(f.schema.ColumnNames(), types)
	if err != nil {
		return nil, err
	}
	zipped := rdd.SafeZip(f.rows, data.values)
	rows := zipped.Map(func(el interface{}) (interface{}, error) {
		z := el.(*rdd.Zipped)
		out := z.Left.(xframe.Row).Clone()
		out[idx] = z.Right
		return out, nil
	})
	return f.derive(rows, sch), nil
}
