package interop

import (
	"testing"

	"github.com/stretchr/testify/require"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
	"github.com/cchayden/xpatterns-xframe/frame"
	"github.com/cchayden/xpatterns-xframe/rdd"
)

func testContext() *rdd.Context {
	return rdd.CreateContext(rdd.WithParallelism(4))
}

// fakeEngine records registered tables and answers queries from them
type fakeEngine struct {
	tables map[string]Table
	last   string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{tables: map[string]Table{}}
}

func (e *fakeEngine) RegisterTable(name string, table Table) error {
	e.tables[name] = table
	return nil
}

func (e *fakeEngine) Query(statement string) (Table, error) {
	e.last = statement
	for _, table := range e.tables {
		return table, nil
	}
	return Table{}, errors.NotFoundError{Name: statement}
}

func TestTypeNameTranslation(t *testing.T) {
	require.Equal(t, "integer", TypeName(xframe.IntType))
	require.Equal(t, "float", TypeName(xframe.FloatType))
	require.Equal(t, "string", TypeName(xframe.StringType))
	require.Equal(t, "boolean", TypeName(xframe.BoolType))
	require.Equal(t, "array", TypeName(xframe.ListType))
	require.Equal(t, "map", TypeName(xframe.MapType))
}

func TestTypeFromNameTranslation(t *testing.T) {
	require.Equal(t, xframe.IntType, TypeFromName("integer"))
	require.Equal(t, xframe.IntType, TypeFromName("long"))
	require.Equal(t, xframe.IntType, TypeFromName("short"))
	require.Equal(t, xframe.FloatType, TypeFromName("double"))
	require.Equal(t, xframe.BoolType, TypeFromName("boolean"))
	require.Equal(t, xframe.ListType, TypeFromName("array"))
	require.Equal(t, xframe.MapType, TypeFromName("map"))
	// anything unrecognized defaults to string
	require.Equal(t, xframe.StringType, TypeFromName("decimal(10,2)"))
}

func TestExportQueryRoundTrip(t *testing.T) {
	ctx := testContext()
	f, err := frame.FromRows(ctx,
		[]string{"id", "name"},
		[]xframe.ColumnType{xframe.IntType, xframe.StringType},
		[]xframe.Row{
			{int64(1), "alice"},
			{int64(2), "bob"},
		})
	require.Nil(t, err)

	eng := newFakeEngine()
	require.Nil(t, Export(f, eng, "people"))
	require.Equal(t, []string{"integer", "string"}, eng.tables["people"].ColumnTypes)

	back, err := Query(ctx, eng, "select * from people")
	require.Nil(t, err)
	require.Equal(t, "select * from people", eng.last)
	require.Equal(t, f.ColumnNames(), back.ColumnNames())
	require.Equal(t, f.ColumnTypes(), back.ColumnTypes())

	rows, err := back.Collect()
	require.Nil(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, xframe.Row{int64(1), "alice"}, rows[0])
}

func TestImportRejectsRaggedTable(t *testing.T) {
	_, err := Import(testContext(), Table{
		ColumnNames: []string{"a", "b"},
		ColumnTypes: []string{"integer"},
	})
	require.NotNil(t, err)
	require.IsType(t, errors.SchemaMismatchError{}, err)

	_, err = Import(testContext(), Table{
		ColumnNames: []string{"a"},
		ColumnTypes: []string{"integer"},
		Rows:        []xframe.Row{{int64(1), int64(2)}},
	})
	require.NotNil(t, err)
}

func TestImportDataframeFailsLoudly(t *testing.T) {
	_, err := ImportDataframe(testContext(), nil)
	require.NotNil(t, err)
	require.IsType(t, errors.NotImplementedError{}, err)
}

func TestParquetSchemaString(t *testing.T) {
	names := []string{"id", "name", "score", "ok"}
	types := []xframe.ColumnType{xframe.IntType, xframe.StringType, xframe.FloatType, xframe.BoolType}
	s, err := parquetSchemaString(names, types, nil)
	require.Nil(t, err)
	require.Contains(t, s, "type=INT64, name=id")
	require.Contains(t, s, "convertedtype=UTF8, encoding=PLAIN, name=name")
	require.Contains(t, s, "type=DOUBLE, name=score")
	require.Contains(t, s, "type=BOOLEAN, name=ok")
	require.Contains(t, s, "name=parquet_go_root, repetitiontype=REQUIRED")
}

func TestParquetSchemaListNeedsSample(t *testing.T) {
	names := []string{"tags"}
	types := []xframe.ColumnType{xframe.ListType}

	_, err := parquetSchemaString(names, types, []xframe.Row{{[]xframe.Value{}}})
	require.NotNil(t, err)
	require.IsType(t, errors.SchemaMismatchError{}, err)

	s, err := parquetSchemaString(names, types, []xframe.Row{{[]xframe.Value{"x"}}})
	require.Nil(t, err)
	require.Contains(t, s, "type=LIST, name=tags")
	require.Contains(t, s, "name=element")
}

func TestParquetSchemaMapNeedsSample(t *testing.T) {
	names := []string{"attrs"}
	types := []xframe.ColumnType{xframe.MapType}

	_, err := parquetSchemaString(names, types, []xframe.Row{{map[string]xframe.Value{}}})
	require.NotNil(t, err)

	s, err := parquetSchemaString(names, types, []xframe.Row{{map[string]xframe.Value{"k": int64(1)}}})
	require.Nil(t, err)
	require.Contains(t, s, "type=MAP, name=attrs")
	require.Contains(t, s, "name=key")
	require.Contains(t, s, "type=INT64, name=value")
}

func TestParquetSaveLoadRoundTrip(t *testing.T) {
	ctx := testContext()
	path := t.TempDir() + "/frame.parquet"
	f, err := frame.FromRows(ctx,
		[]string{"id", "name", "score"},
		[]xframe.ColumnType{xframe.IntType, xframe.StringType, xframe.FloatType},
		[]xframe.Row{
			{int64(1), "alice", 9.5},
			{int64(2), "bob", 7.0},
		})
	require.Nil(t, err)

	require.Nil(t, SaveParquet(f, path))

	back, err := LoadParquet(ctx, path)
	require.Nil(t, err)
	require.Equal(t, f.ColumnNames(), back.ColumnNames())
	require.Equal(t, f.ColumnTypes(), back.ColumnTypes())

	rows, err := back.Collect()
	require.Nil(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, xframe.Row{int64(1), "alice", 9.5}, rows[0])
}
