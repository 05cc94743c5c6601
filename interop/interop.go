// Package interop moves frames in and out of external tabular engines.
// Column types are translated through a small name table; anything the
// external side reports that has no entry comes back as a string.
package interop

import (
	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
	"github.com/cchayden/xpatterns-xframe/frame"
	"github.com/cchayden/xpatterns-xframe/rdd"
	"github.com/cchayden/xpatterns-xframe/schema"
)

// Table is the flat relation exchanged with an Engine: column names,
// external type names, and fully materialized rows.
type Table struct {
	ColumnNames []string
	ColumnTypes []string
	Rows        []xframe.Row
}

// Engine is the narrow surface an external tabular engine must offer
// for a SQL round-trip: accept a named table, answer a query.
type Engine interface {
	RegisterTable(name string, table Table) error
	Query(statement string) (Table, error)
}

// TypeName translates an internal column type to the external name.
func TypeName(t xframe.ColumnType) string {
	switch t {
	case xframe.BoolType:
		return "boolean"
	case xframe.IntType:
		return "integer"
	case xframe.FloatType:
		return "float"
	case xframe.ListType:
		return "array"
	case xframe.MapType:
		return "map"
	default:
		return "string"
	}
}

// TypeFromName translates an external type name to the internal column
// type. Unknown names come back as string.
func TypeFromName(name string) xframe.ColumnType {
	switch name {
	case "boolean":
		return xframe.BoolType
	case "integer", "short", "long":
		return xframe.IntType
	case "float", "double":
		return xframe.FloatType
	case "array":
		return xframe.ListType
	case "map":
		return xframe.MapType
	default:
		return xframe.StringType
	}
}

// Export materializes the frame and registers it with the engine under
// the given table name.
func Export(f *frame.Frame, eng Engine, name string) error {
	rows, err := f.Collect()
	if err != nil {
		return err
	}
	types := f.ColumnTypes()
	external := make([]string, len(types))
	for i, t := range types {
		external[i] = TypeName(t)
	}
	return eng.RegisterTable(name, Table{
		ColumnNames: f.ColumnNames(),
		ColumnTypes: external,
		Rows:        rows,
	})
}

// Query runs a statement on the engine and imports the result as a new
// frame.
func Query(ctx *rdd.Context, eng Engine, statement string) (*frame.Frame, error) {
	table, err := eng.Query(statement)
	if err != nil {
		return nil, err
	}
	return Import(ctx, table)
}

// Import converts an engine result table into a frame.
func Import(ctx *rdd.Context, table Table) (*frame.Frame, error) {
	if len(table.ColumnNames) != len(table.ColumnTypes) {
		return nil, errors.SchemaMismatchError{Message: "table column names and types differ in length"}
	}
	types := make([]xframe.ColumnType, len(table.ColumnTypes))
	for i, name := range table.ColumnTypes {
		types[i] = TypeFromName(name)
	}
	sch, err := schema.CreateSchema(table.ColumnNames, types)
	if err != nil {
		return nil, err
	}
	elements := make([]interface{}, len(table.Rows))
	for i, row := range table.Rows {
		if len(row) != len(types) {
			return nil, errors.SchemaMismatchError{Message: "table row width does not match its schema"}
		}
		elements[i] = row.Clone()
	}
	return frame.CreateFrame(ctx, rdd.Parallelize(ctx, elements), sch), nil
}

// ImportDataframe would ingest a pandas-style in-memory dataframe.
// Nothing produces one on this side yet.
func ImportDataframe(ctx *rdd.Context, df interface{}) (*frame.Frame, error) {
	return nil, errors.NotImplementedError{Op: "dataframe import"}
}
