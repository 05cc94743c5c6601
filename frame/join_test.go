package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
)

func leftFrame(t *testing.T) *Frame {
	f, err := FromRows(testContext(),
		[]string{"k", "l"},
		[]xframe.ColumnType{xframe.StringType, xframe.IntType},
		[]xframe.Row{
			{"a", int64(1)},
			{"b", int64(2)},
		})
	require.Nil(t, err)
	return f
}

func rightFrame(t *testing.T) *Frame {
	f, err := FromRows(testContext(),
		[]string{"k", "r"},
		[]xframe.ColumnType{xframe.StringType, xframe.IntType},
		[]xframe.Row{
			{"b", int64(20)},
			{"c", int64(30)},
		})
	require.Nil(t, err)
	return f
}

func TestInnerJoin(t *testing.T) {
	out, err := leftFrame(t).Join(rightFrame(t), InnerJoin, map[string]string{"k": "k"})
	require.Nil(t, err)
	require.Equal(t, []string{"k", "l", "r"}, out.ColumnNames())

	rows, err := out.Collect()
	require.Nil(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, xframe.Row{"b", int64(2), int64(20)}, rows[0])
}

func TestLeftJoinNullFills(t *testing.T) {
	out, err := leftFrame(t).Join(rightFrame(t), LeftJoin, map[string]string{"k": "k"})
	require.Nil(t, err)

	rows, err := out.Collect()
	require.Nil(t, err)
	require.Len(t, rows, 2)

	byKey := make(map[string]xframe.Row)
	for _, row := range rows {
		byKey[row[0].(string)] = row
	}
	require.Equal(t, int64(20), byKey["b"][2])
	require.Nil(t, byKey["a"][2])
}

func TestRightJoinKeepsRightRows(t *testing.T) {
	out, err := leftFrame(t).Join(rightFrame(t), RightJoin, map[string]string{"k": "k"})
	require.Nil(t, err)

	rows, err := out.Collect()
	require.Nil(t, err)
	require.Len(t, rows, 2)

	byKey := make(map[string]xframe.Row)
	for _, row := range rows {
		byKey[row[0].(string)] = row
	}
	// the unmatched right row keeps its key and null-fills the left payload
	require.Equal(t, int64(30), byKey["c"][2])
	require.Nil(t, byKey["c"][1])
}

func TestOuterJoinIsNotACrossProduct(t *testing.T) {
	out, err := leftFrame(t).Join(rightFrame(t), OuterJoin, map[string]string{"k": "k"})
	require.Nil(t, err)

	rows, err := out.Collect()
	require.Nil(t, err)
	// one matched row and one unmatched per side; a cross product of the
	// 2x2 inputs would have four rows
	require.Len(t, rows, 3)

	byKey := make(map[string]xframe.Row)
	for _, row := range rows {
		byKey[row[0].(string)] = row
	}
	require.Equal(t, xframe.Row{"a", int64(1), nil}, byKey["a"])
	require.Equal(t, xframe.Row{"b", int64(2), int64(20)}, byKey["b"])
	require.Equal(t, xframe.Row{"c", nil, int64(30)}, byKey["c"])
}

func TestJoinRenamesCollidingPayload(t *testing.T) {
	left := leftFrame(t)
	right, err := rightFrame(t).SetColumnName("r", "l")
	require.Nil(t, err)

	out, err := left.Join(right, InnerJoin, map[string]string{"k": "k"})
	require.Nil(t, err)
	require.Equal(t, []string{"k", "l", "l.1"}, out.ColumnNames())
}

func TestJoinDifferentKeyNames(t *testing.T) {
	left := leftFrame(t)
	right, err := rightFrame(t).SetColumnName("k", "key")
	require.Nil(t, err)

	out, err := left.Join(right, InnerJoin, map[string]string{"k": "key"})
	require.Nil(t, err)
	rows, err := out.Collect()
	require.Nil(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "b", rows[0][0])
}

func TestJoinEmptyKeys(t *testing.T) {
	_, err := leftFrame(t).Join(rightFrame(t), InnerJoin, nil)
	require.NotNil(t, err)
	require.IsType(t, errors.InvalidJoinError{}, err)
}
