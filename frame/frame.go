// Package frame implements the column store: a table of named, typed
// columns over a partitioned, lazily-evaluated row sequence, plus the
// single-column Array view. Every operation returns a new Frame value;
// rows are never mutated in place.
package frame

import (
	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/rdd"
	"github.com/cchayden/xpatterns-xframe/schema"
)

// Frame is a table: ordered column names, parallel column types, and a
// distributed row sequence. The row sequence is lazily evaluated; the
// materialized flag records whether a full pass has been forced.
type Frame struct {
	ctx          *rdd.Context
	rows         *rdd.Dataset
	schema       *schema.Schema
	materialized bool
}

// CreateFrame builds a Frame from a row Dataset and its Schema. Every
// element of rows must be an xframe.Row whose length equals the
// Schema's column count.
func CreateFrame(ctx *rdd.Context, rows *rdd.Dataset, sch *schema.Schema) *Frame {
	return &Frame{ctx: ctx, rows: rows, schema: sch}
}

// FromRows builds a Frame by distributing a slice of rows across the
// Context's partitions
func FromRows(ctx *rdd.Context, names []string, types []xframe.ColumnType, rows []xframe.Row) (*Frame, error) {
	sch, err := schema.CreateSchema(names, types)
	if err != nil {
		return nil, err
	}
	elements := make([]interface{}, len(rows))
	for i, row := range rows {
		elements[i] = row
	}
	return CreateFrame(ctx, rdd.Parallelize(ctx, elements), sch), nil
}

// derive returns a new Frame over the same Context with new rows and
// schema. Used by every transformation.
func (f *Frame) derive(rows *rdd.Dataset, sch *schema.Schema) *Frame {
	return &Frame{ctx: f.ctx, rows: rows, schema: sch}
}

// Context returns the execution context this Frame is bound to
func (f *Frame) Context() *rdd.Context {
	return f.ctx
}

// Rows returns the underlying row Dataset
func (f *Frame) Rows() *rdd.Dataset {
	return f.rows
}

// Schema returns a copy of this Frame's Schema
func (f *Frame) Schema() *schema.Schema {
	return f.schema.Clone()
}

// ColumnNames returns the column names, in order
func (f *Frame) ColumnNames() []string {
	return f.schema.ColumnNames()
}

// ColumnTypes returns the column types, in order
func (f *Frame) ColumnTypes() []xframe.ColumnType {
	return f.schema.ColumnTypes()
}

// NumColumns returns the number of columns
func (f *Frame) NumColumns() int {
	return f.schema.NumColumns()
}

// NumRows counts the rows. This is an action: it forces a full pass and
// marks the Frame materialized.
func (f *Frame) NumRows() (int64, error) {
	n, err := f.rows.Count()
	if err != nil {
		return 0, err
	}
	f.materialized = true
	return n, nil
}

// IsMaterialized returns true iff a full pass over the rows has been
// forced through this Frame
func (f *Frame) IsMaterialized() bool {
	return f.materialized
}

// Materialize forces a full evaluation pass
func (f *Frame) Materialize() error {
	_, err := f.NumRows()
	return err
}

// Collect returns all rows in positional order. This is an action.
func (f *Frame) Collect() ([]xframe.Row, error) {
	els, err := f.rows.Collect()
	if err != nil {
		return nil, err
	}
	f.materialized = true
	rows := make([]xframe.Row, len(els))
	for i, el := range els {
		rows[i] = el.(xframe.Row)
	}
	return rows, nil
}

// Width returns a diagnostic Array holding the length of every row
func (f *Frame) Width() *Array {
	widths := f.rows.Map(func(el interface{}) (interface{}, error) {
		return int64(len(el.(xframe.Row))), nil
	})
	return CreateArray(f.ctx, widths, xframe.IntType)
}

// mapRows derives a new row Dataset by transforming every row. The
// transform must not mutate its input.
func (f *Frame) mapRows(fn func(xframe.Row) (xframe.Row, error)) *rdd.Dataset {
	return f.rows.Map(func(el interface{}) (interface{}, error) {
		return fn(el.(xframe.Row))
	})
}
