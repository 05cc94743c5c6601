package frame

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	xframe "github.com/cchayden/xpatterns-xframe"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saved")
	f, err := FromRows(testContext(),
		[]string{"id", "name", "score", "ok"},
		[]xframe.ColumnType{xframe.IntType, xframe.StringType, xframe.FloatType, xframe.BoolType},
		[]xframe.Row{
			{int64(1), "alice", 9.5, true},
			{int64(2), "bob", 7.0, false},
			{nil, "carol", nil, true},
		})
	require.Nil(t, err)

	require.Nil(t, f.Save(dir))

	back, err := Load(testContext(), dir)
	require.Nil(t, err)
	require.Equal(t, f.ColumnNames(), back.ColumnNames())
	require.Equal(t, f.ColumnTypes(), back.ColumnTypes())

	want, err := f.Collect()
	require.Nil(t, err)
	got, err := back.Collect()
	require.Nil(t, err)
	require.Equal(t, want, got)
}

func TestSaveLoadListAndMapColumns(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saved")
	f, err := FromRows(testContext(),
		[]string{"tags", "attrs"},
		[]xframe.ColumnType{xframe.ListType, xframe.MapType},
		[]xframe.Row{
			{[]xframe.Value{"a", int64(1)}, map[string]xframe.Value{"k": int64(2)}},
		})
	require.Nil(t, err)

	require.Nil(t, f.Save(dir))
	back, err := Load(testContext(), dir)
	require.Nil(t, err)

	rows, err := back.Collect()
	require.Nil(t, err)
	require.Len(t, rows, 1)
	list, ok := rows[0][0].([]xframe.Value)
	require.True(t, ok)
	require.Equal(t, "a", list[0])
}

func TestLoadMissingMetadata(t *testing.T) {
	_, err := Load(testContext(), filepath.Join(t.TempDir(), "nope"))
	require.NotNil(t, err)
}

func TestSaveOverwritesExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saved")
	f := testFrame(t)
	require.Nil(t, f.Save(dir))
	require.Nil(t, f.Save(dir))

	back, err := Load(testContext(), dir)
	require.Nil(t, err)
	n, err := back.NumRows()
	require.Nil(t, err)
	require.Equal(t, int64(3), n)
}
