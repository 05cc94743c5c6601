package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
)

func TestSortSingleColumn(t *testing.T) {
	f := testFrame(t)
	out, err := f.Sort([]string{"score"}, []bool{true})
	require.Nil(t, err)

	rows, err := out.Collect()
	require.Nil(t, err)
	require.Equal(t, "bob", rows[0][1])
	require.Equal(t, "carol", rows[1][1])
	require.Equal(t, "alice", rows[2][1])
}

func TestSortDescending(t *testing.T) {
	f := testFrame(t)
	out, err := f.Sort([]string{"score"}, []bool{false})
	require.Nil(t, err)

	rows, err := out.Collect()
	require.Nil(t, err)
	require.Equal(t, "alice", rows[0][1])
}

func TestSortMultiColumn(t *testing.T) {
	f, err := FromRows(testContext(),
		[]string{"g", "n"},
		[]xframe.ColumnType{xframe.StringType, xframe.IntType},
		[]xframe.Row{
			{"b", int64(1)},
			{"a", int64(2)},
			{"a", int64(1)},
		})
	require.Nil(t, err)

	out, err := f.Sort([]string{"g", "n"}, []bool{true, false})
	require.Nil(t, err)
	rows, err := out.Collect()
	require.Nil(t, err)
	require.Equal(t, xframe.Row{"a", int64(2)}, rows[0])
	require.Equal(t, xframe.Row{"a", int64(1)}, rows[1])
	require.Equal(t, xframe.Row{"b", int64(1)}, rows[2])
}

func TestSortIdempotent(t *testing.T) {
	f := testFrame(t)
	once, err := f.Sort([]string{"name"}, []bool{true})
	require.Nil(t, err)
	twice, err := once.Sort([]string{"name"}, []bool{true})
	require.Nil(t, err)

	a, err := once.Collect()
	require.Nil(t, err)
	b, err := twice.Collect()
	require.Nil(t, err)
	require.Equal(t, a, b)
}

func TestSortMissingOrdersFirst(t *testing.T) {
	f, err := FromRows(testContext(),
		[]string{"n"}, []xframe.ColumnType{xframe.IntType},
		[]xframe.Row{{int64(2)}, {nil}, {int64(1)}})
	require.Nil(t, err)

	out, err := f.Sort([]string{"n"}, []bool{true})
	require.Nil(t, err)
	rows, err := out.Collect()
	require.Nil(t, err)
	require.Nil(t, rows[0][0])
	require.Equal(t, int64(1), rows[1][0])
}

func TestSortRejectsUnsortableColumn(t *testing.T) {
	f, err := FromRows(testContext(),
		[]string{"tags"}, []xframe.ColumnType{xframe.ListType},
		[]xframe.Row{{[]xframe.Value{"a"}}})
	require.Nil(t, err)

	_, err = f.Sort([]string{"tags"}, []bool{true})
	require.NotNil(t, err)
	require.IsType(t, errors.SchemaMismatchError{}, err)
}
