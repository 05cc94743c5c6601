package xframe

import (
	"encoding/json"
	"strconv"

	"github.com/cchayden/xpatterns-xframe/errors"
)

// ColumnType is a tag identifying the element type of a column. The set
// of tags is closed: integer, float, string, boolean, list and mapping.
type ColumnType int

const (
	// IntType tags a column of int64 values
	IntType ColumnType = iota
	// FloatType tags a column of float64 values
	FloatType
	// StringType tags a column of string values
	StringType
	// BoolType tags a column of bool values
	BoolType
	// ListType tags a column of []Value values
	ListType
	// MapType tags a column of map[string]Value values
	MapType
)

// String returns the canonical name of this ColumnType
func (t ColumnType) String() string {
	switch t {
	case IntType:
		return "integer"
	case FloatType:
		return "float"
	case StringType:
		return "string"
	case BoolType:
		return "boolean"
	case ListType:
		return "list"
	case MapType:
		return "mapping"
	default:
		return "unknown"
	}
}

// ColumnTypeFromName resolves a canonical type name back to its tag
func ColumnTypeFromName(name string) (ColumnType, error) {
	switch name {
	case "integer":
		return IntType, nil
	case "float":
		return FloatType, nil
	case "string":
		return StringType, nil
	case "boolean":
		return BoolType, nil
	case "list":
		return ListType, nil
	case "mapping":
		return MapType, nil
	default:
		return StringType, errors.NotFoundError{Name: name}
	}
}

// IsNumeric returns true iff this type holds numbers
func (t ColumnType) IsNumeric() bool {
	return t == IntType || t == FloatType
}

// IsSortable returns true iff columns of this type form a total order
// and may be used as sort keys. List and mapping columns do not.
func (t ColumnType) IsSortable() bool {
	return t == IntType || t == FloatType || t == StringType
}

// CastString converts a raw string field to a Value of this type.
// The empty string casts to zero for numeric types. List and mapping
// fields are decoded as JSON. Failures surface as CastError.
func (t ColumnType) CastString(raw string) (Value, error) {
	if len(raw) == 0 && t.IsNumeric() {
		if t == IntType {
			return int64(0), nil
		}
		return float64(0), nil
	}
	switch t {
	case IntType:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.CastError{Value: raw, Type: t.String()}
		}
		return i, nil
	case FloatType:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.CastError{Value: raw, Type: t.String()}
		}
		return f, nil
	case BoolType:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.CastError{Value: raw, Type: t.String()}
		}
		return b, nil
	case StringType:
		return raw, nil
	case ListType:
		var l []Value
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			return nil, errors.CastError{Value: raw, Type: t.String()}
		}
		return l, nil
	case MapType:
		var m map[string]Value
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, errors.CastError{Value: raw, Type: t.String()}
		}
		return m, nil
	default:
		return nil, errors.CastError{Value: raw, Type: t.String()}
	}
}
