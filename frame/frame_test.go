package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/rdd"
)

func testContext() *rdd.Context {
	return rdd.CreateContext(rdd.WithParallelism(4))
}

func testFrame(t *testing.T) *Frame {
	f, err := FromRows(testContext(),
		[]string{"id", "name", "score"},
		[]xframe.ColumnType{xframe.IntType, xframe.StringType, xframe.FloatType},
		[]xframe.Row{
			{int64(1), "alice", 9.5},
			{int64(2), "bob", 7.0},
			{int64(3), "carol", 8.25},
		})
	require.Nil(t, err)
	return f
}

func TestFromRowsBasics(t *testing.T) {
	f := testFrame(t)
	require.Equal(t, 3, f.NumColumns())
	require.Equal(t, []string{"id", "name", "score"}, f.ColumnNames())

	n, err := f.NumRows()
	require.Nil(t, err)
	require.Equal(t, int64(3), n)
	require.True(t, f.IsMaterialized())
}

func TestCollectPreservesOrder(t *testing.T) {
	f := testFrame(t)
	rows, err := f.Collect()
	require.Nil(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "alice", rows[0][1])
	require.Equal(t, "carol", rows[2][1])
}

func TestFromRowsBadSchema(t *testing.T) {
	_, err := FromRows(testContext(), []string{"a", "a"},
		[]xframe.ColumnType{xframe.IntType, xframe.IntType}, nil)
	require.NotNil(t, err)
}

func TestWidth(t *testing.T) {
	f := testFrame(t)
	widths, err := f.Width().Collect()
	require.Nil(t, err)
	require.Equal(t, []xframe.Value{int64(3), int64(3), int64(3)}, widths)
}

func TestSchemaIsACopy(t *testing.T) {
	f := testFrame(t)
	s := f.Schema()
	require.Nil(t, s.Rename("id", "renamed"))
	require.Equal(t, []string{"id", "name", "score"}, f.ColumnNames())
}
