package csv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/frame"
	"github.com/cchayden/xpatterns-xframe/rdd"
)

func testContext() *rdd.Context {
	return rdd.CreateContext(rdd.WithParallelism(4))
}

func TestReadWithHeaderAndNAValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NAValues = []string{""}
	hints := map[string]xframe.ColumnType{AllColumnsHint: xframe.IntType}

	f, dropped, err := Read(testContext(), strings.NewReader("a,b\n1,2\n3,\n"), cfg, hints)
	require.Nil(t, err)
	require.Equal(t, int64(0), dropped)
	require.Equal(t, []string{"a", "b"}, f.ColumnNames())
	require.Equal(t, []xframe.ColumnType{xframe.IntType, xframe.IntType}, f.ColumnTypes())

	rows, err := f.Collect()
	require.Nil(t, err)
	require.Equal(t, []xframe.Row{
		{int64(1), int64(2)},
		{int64(3), nil},
	}, rows)
}

func TestReadNoHeaderSynthesizesNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseHeader = false

	f, dropped, err := Read(testContext(), strings.NewReader("x,y\nz,w\n"), cfg, nil)
	require.Nil(t, err)
	require.Equal(t, int64(0), dropped)
	require.Equal(t, []string{"X.0", "X.1"}, f.ColumnNames())

	n, err := f.NumRows()
	require.Nil(t, err)
	require.Equal(t, int64(2), n)
}

func TestReadDropsShortRows(t *testing.T) {
	cfg := DefaultConfig()

	f, dropped, err := Read(testContext(), strings.NewReader("a,b\n1,2\nonly-one\n3,4\n"), cfg, nil)
	require.Nil(t, err)
	require.Equal(t, int64(1), dropped)

	n, err := f.NumRows()
	require.Nil(t, err)
	require.Equal(t, int64(2), n)
}

func TestReadComments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CommentChar = "#"

	f, _, err := Read(testContext(), strings.NewReader("a,b\n# a full comment line\n1,2 # trailing\n"), cfg,
		map[string]xframe.ColumnType{"a": xframe.IntType})
	require.Nil(t, err)
	rows, err := f.Collect()
	require.Nil(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(1), rows[0][0])
	require.Equal(t, "2", rows[0][1])
}

func TestReadQuotedFields(t *testing.T) {
	cfg := DefaultConfig()

	f, _, err := Read(testContext(), strings.NewReader("a,b\n\"x,y\",\"he said \"\"hi\"\"\"\n"), cfg, nil)
	require.Nil(t, err)
	rows, err := f.Collect()
	require.Nil(t, err)
	require.Equal(t, "x,y", rows[0][0])
	require.Equal(t, `he said "hi"`, rows[0][1])
}

func TestReadRowLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RowLimit = 2

	f, _, err := Read(testContext(), strings.NewReader("a\n1\n2\n3\n4\n"), cfg,
		map[string]xframe.ColumnType{AllColumnsHint: xframe.IntType})
	require.Nil(t, err)
	rows, err := f.Collect()
	require.Nil(t, err)
	require.Equal(t, []xframe.Row{{int64(1)}, {int64(2)}}, rows)
}

func TestReadPositionalHints(t *testing.T) {
	cfg := DefaultConfig()
	hints := map[string]xframe.ColumnType{"__X1__": xframe.FloatType}

	f, _, err := Read(testContext(), strings.NewReader("a,b\nx,1.5\n"), cfg, hints)
	require.Nil(t, err)
	require.Equal(t, []xframe.ColumnType{xframe.StringType, xframe.FloatType}, f.ColumnTypes())

	rows, err := f.Collect()
	require.Nil(t, err)
	require.Equal(t, 1.5, rows[0][1])
}

func TestReadUnknownHintColumn(t *testing.T) {
	cfg := DefaultConfig()
	_, _, err := Read(testContext(), strings.NewReader("a\n1\n"), cfg,
		map[string]xframe.ColumnType{"zzz": xframe.IntType})
	require.NotNil(t, err)
}

func TestReadCastFailureSurfaces(t *testing.T) {
	cfg := DefaultConfig()
	_, _, err := Read(testContext(), strings.NewReader("a\nnot-a-number\n"), cfg,
		map[string]xframe.ColumnType{"a": xframe.IntType})
	require.NotNil(t, err)
}

func TestReadDuplicateHeaderNames(t *testing.T) {
	cfg := DefaultConfig()
	f, _, err := Read(testContext(), strings.NewReader("a,a\n1,2\n"), cfg, nil)
	require.Nil(t, err)
	require.Equal(t, []string{"a", "a.1"}, f.ColumnNames())
}

func TestConfigValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Delimiter = ""
	_, _, err := Read(testContext(), strings.NewReader("a\n1\n"), cfg, nil)
	require.NotNil(t, err)

	cfg = DefaultConfig()
	cfg.Delimiter = "ab"
	_, _, err = Read(testContext(), strings.NewReader("a\n1\n"), cfg, nil)
	require.NotNil(t, err)
}

func TestDialectSkipInitialSpace(t *testing.T) {
	d := dialect{delimiter: ',', quote: '"', skipInitialSpace: true}
	fields, err := d.split("a, b,  c")
	require.Nil(t, err)
	require.Equal(t, []string{"a", "b", "c"}, fields)

	// leading spaces of the first field are swallowed too, matching the
	// csv dialect convention that a line start begins a field
	fields, err = d.split("  a, b")
	require.Nil(t, err)
	require.Equal(t, []string{"a", "b"}, fields)
}

func TestDialectUnterminatedQuote(t *testing.T) {
	d := dialect{delimiter: ',', quote: '"'}
	_, err := d.split(`a,"unterminated`)
	require.NotNil(t, err)
}

func TestWriteCollectionCells(t *testing.T) {
	ctx := testContext()
	f, err := frame.FromRows(ctx,
		[]string{"tags", "attrs"},
		[]xframe.ColumnType{xframe.ListType, xframe.MapType},
		[]xframe.Row{
			{[]xframe.Value{"a", "b"}, map[string]xframe.Value{"k": int64(1)}},
		})
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, Write(f, &buf, DefaultConfig()))
	require.Equal(t, "tags,attrs\n\"[\"\"a\"\",\"\"b\"\"]\",\"{\"\"k\"\":1}\"\n", buf.String())
}

func TestWriteRoundTrip(t *testing.T) {
	ctx := testContext()
	f, err := frame.FromRows(ctx,
		[]string{"id", "name"},
		[]xframe.ColumnType{xframe.IntType, xframe.StringType},
		[]xframe.Row{
			{int64(1), "plain"},
			{int64(2), "with,comma"},
			{nil, "missing id"},
		})
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, Write(f, &buf, DefaultConfig()))

	cfg := DefaultConfig()
	cfg.NAValues = []string{""}
	back, dropped, err := Read(ctx, bytes.NewReader(buf.Bytes()), cfg,
		map[string]xframe.ColumnType{"id": xframe.IntType})
	require.Nil(t, err)
	require.Equal(t, int64(0), dropped)
	require.Equal(t, f.ColumnNames(), back.ColumnNames())

	rows, err := back.Collect()
	require.Nil(t, err)
	require.Equal(t, []xframe.Row{
		{int64(1), "plain"},
		{int64(2), "with,comma"},
		{nil, "missing id"},
	}, rows)
}
