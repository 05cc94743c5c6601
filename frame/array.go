package frame

import (
	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/rdd"
)

// Array is a single named-off column: one type tag plus a distributed
// value sequence. Values are either properly typed or a missing marker
// (nil or NaN). Produced by column projection, consumed by column
// addition.
type Array struct {
	ctx      *rdd.Context
	values   *rdd.Dataset
	elemType xframe.ColumnType
}

// CreateArray builds an Array from a value Dataset and its element type
func CreateArray(ctx *rdd.Context, values *rdd.Dataset, elemType xframe.ColumnType) *Array {
	return &Array{ctx: ctx, values: values, elemType: elemType}
}

// FromValues builds an Array by distributing a slice of values across
// the Context's partitions
func FromValues(ctx *rdd.Context, elemType xframe.ColumnType, values []xframe.Value) *Array {
	elements := make([]interface{}, len(values))
	copy(elements, values)
	return CreateArray(ctx, rdd.Parallelize(ctx, elements), elemType)
}

// Type returns the element type tag of this Array
func (a *Array) Type() xframe.ColumnType {
	return a.elemType
}

// Values returns the underlying value Dataset
func (a *Array) Values() *rdd.Dataset {
	return a.values
}

// Len counts the elements. This is an action.
func (a *Array) Len() (int64, error) {
	return a.values.Count()
}

// Collect returns all values in positional order. This is an action.
func (a *Array) Collect() ([]xframe.Value, error) {
	els, err := a.values.Collect()
	if err != nil {
		return nil, err
	}
	vals := make([]xframe.Value, len(els))
	copy(vals, els)
	return vals, nil
}
