package frame

import (
	"fmt"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
	"github.com/cchayden/xpatterns-xframe/schema"
)

// StackList widens a list-typed column into one row per list element.
// An empty or missing list drops the row entirely when dropNA is set,
// and otherwise emits one row with a missing value in its place. An
// empty newName synthesizes a unique X name.
func (f *Frame) StackList(column string, newName string, newType xframe.ColumnType, dropNA bool) (*Frame, error) {
	idx, err := f.schema.IndexOf(column)
	if err != nil {
		return nil, err
	}
	names := f.schema.ColumnNames()
	if newName == "" {
		newName = schema.UniqueName(names, "X")
	}
	names[idx] = newName
	types := f.schema.ColumnTypes()
	types[idx] = newType
	sch, err := schema.CreateSchema(names, types)
	if err != nil {
		return nil, err
	}
	rows := f.rows.FlatMap(func(el interface{}) ([]interface{}, error) {
		row := el.(xframe.Row)
		var list []xframe.Value
		if !xframe.IsMissing(row[idx]) {
			l, ok := row[idx].([]xframe.Value)
			if !ok {
				return nil, errors.SchemaMismatchError{
					Message: fmt.Sprintf("stack_list column %s holds non-list value", column),
				}
			}
			list = l
		}
		out := make([]interface{}, 0, len(list))
		for _, v := range list {
			if dropNA && xframe.IsMissingOrEmpty(v) {
				continue
			}
			stacked := row.Clone()
			stacked[idx] = v
			out = append(out, stacked)
		}
		if len(out) > 0 || dropNA {
			return out, nil
		}
		stacked := row.Clone()
		stacked[idx] = nil
		return []interface{}{stacked}, nil
	})
	return f.derive(rows, sch), nil
}

// StackDict widens a mapping-typed column into one row per entry,
// replacing the column with a key column and inserting a value column
// immediately after it. Empty names synthesize unique K and V names.
func (f *Frame) StackDict(column string, newNames [2]string, newTypes [2]xframe.ColumnType, dropNA bool) (*Frame, error) {
	idx, err := f.schema.IndexOf(column)
	if err != nil {
		return nil, err
	}
	names := f.schema.ColumnNames()
	keyName := newNames[0]
	if keyName == "" {
		keyName = schema.UniqueName(names, "K")
	}
	names[idx] = keyName
	valName := newNames[1]
	if valName == "" {
		valName = schema.UniqueName(names, "V")
	}
	names = append(names[:idx+1], append([]string{valName}, names[idx+1:]...)...)
	types := f.schema.ColumnTypes()
	types[idx] = newTypes[0]
	types = append(types[:idx+1], append([]xframe.ColumnType{newTypes[1]}, types[idx+1:]...)...)
	sch, err := schema.CreateSchema(names, types)
	if err != nil {
		return nil, err
	}
	expand := func(row xframe.Row, key xframe.Value, val xframe.Value) xframe.Row {
		out := make(xframe.Row, 0, len(row)+1)
		out = append(out, row[:idx]...)
		out = append(out, key, val)
		out = append(out, row[idx+1:]...)
		return out
	}
	rows := f.rows.FlatMap(func(el interface{}) ([]interface{}, error) {
		row := el.(xframe.Row)
		var entries map[string]xframe.Value
		if !xframe.IsMissing(row[idx]) {
			m, ok := row[idx].(map[string]xframe.Value)
			if !ok {
				return nil, errors.SchemaMismatchError{
					Message: fmt.Sprintf("stack_dict column %s holds non-mapping value", column),
				}
			}
			entries = m
		}
		out := make([]interface{}, 0, len(entries))
		for k, v := range entries {
			if dropNA && xframe.IsMissingOrEmpty(v) {
				continue
			}
			out = append(out, expand(row, k, v))
		}
		if len(out) > 0 || dropNA {
			return out, nil
		}
		return []interface{}{expand(row, nil, nil)}, nil
	})
	return f.derive(rows, sch), nil
}

// PackType selects the shape PackColumns narrows into
type PackType int

const (
	// PackList packs column values into a list
	PackList PackType = iota
	// PackArray packs column values into a fixed-width numeric array
	PackArray
	// PackDict packs (column name, value) entries into a mapping
	PackDict
)

// PackColumns narrows several columns into a single Array of list,
// fixed-width numeric array, or mapping values. Missing values are
// replaced by fillNA when it is non-nil; for mapping output, entries
// whose value is still missing after substitution are omitted. dictKeys
// supplies the mapping keys and defaults to the column names.
func (f *Frame) PackColumns(columns []string, dictKeys []string, packType PackType, fillNA xframe.Value) (*Array, error) {
	idxs := make([]int, len(columns))
	for i, name := range columns {
		idx, err := f.schema.IndexOf(name)
		if err != nil {
			return nil, err
		}
		idxs[i] = idx
	}
	if packType == PackDict {
		if len(dictKeys) == 0 {
			dictKeys = columns
		}
		if len(dictKeys) != len(columns) {
			return nil, errors.SchemaMismatchError{
				Message: fmt.Sprintf("%d dict keys for %d packed columns", len(dictKeys), len(columns)),
			}
		}
	}
	substitute := func(v xframe.Value) xframe.Value {
		if xframe.IsMissing(v) && fillNA != nil {
			return fillNA
		}
		return v
	}
	var elemType xframe.ColumnType
	var pack func(vals []xframe.Value) (xframe.Value, error)
	switch packType {
	case PackList:
		elemType = xframe.ListType
		pack = func(vals []xframe.Value) (xframe.Value, error) {
			out := make([]xframe.Value, len(vals))
			for i, v := range vals {
				out[i] = substitute(v)
			}
			return out, nil
		}
	case PackArray:
		elemType = xframe.ListType
		pack = func(vals []xframe.Value) (xframe.Value, error) {
			out := make([]xframe.Value, len(vals))
			for i, v := range vals {
				sub := substitute(v)
				if xframe.IsMissing(sub) {
					out[i] = nil
					continue
				}
				coerced, err := coerceValue(sub, xframe.FloatType)
				if err != nil {
					return nil, err
				}
				out[i] = coerced
			}
			return out, nil
		}
	case PackDict:
		elemType = xframe.MapType
		pack = func(vals []xframe.Value) (xframe.Value, error) {
			out := make(map[string]xframe.Value, len(vals))
			for i, v := range vals {
				sub := substitute(v)
				if xframe.IsMissing(sub) {
					continue
				}
				out[dictKeys[i]] = sub
			}
			return out, nil
		}
	default:
		return nil, errors.NotImplementedError{Op: fmt.Sprintf("pack_columns type %d", packType)}
	}
	values := f.rows.Map(func(el interface{}) (interface{}, error) {
		row := el.(xframe.Row)
		vals := make([]xframe.Value, len(idxs))
		for i, idx := range idxs {
			vals[i] = row[idx]
		}
		return pack(vals)
	})
	return CreateArray(f.ctx, values, elemType), nil
}
