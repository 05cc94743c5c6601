package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
)

func TestCreateSchemaBasic(t *testing.T) {
	s, err := CreateSchema([]string{"id", "name"}, []xframe.ColumnType{xframe.IntType, xframe.StringType})
	require.Nil(t, err)
	require.Equal(t, 2, s.NumColumns())
	require.Equal(t, []string{"id", "name"}, s.ColumnNames())

	idx, err := s.IndexOf("name")
	require.Nil(t, err)
	require.Equal(t, 1, idx)

	typ, err := s.TypeOf("id")
	require.Nil(t, err)
	require.Equal(t, xframe.IntType, typ)
}

func TestCreateSchemaLengthMismatch(t *testing.T) {
	_, err := CreateSchema([]string{"a", "b"}, []xframe.ColumnType{xframe.IntType})
	require.NotNil(t, err)
}

func TestCreateSchemaDuplicateName(t *testing.T) {
	_, err := CreateSchema([]string{"a", "a"}, []xframe.ColumnType{xframe.IntType, xframe.IntType})
	require.NotNil(t, err)
	require.IsType(t, errors.DuplicateNameError{}, err)
}

func TestIndexOfMissingColumn(t *testing.T) {
	s, err := CreateSchema([]string{"a"}, []xframe.ColumnType{xframe.IntType})
	require.Nil(t, err)
	_, err = s.IndexOf("b")
	require.NotNil(t, err)
	require.IsType(t, errors.NotFoundError{}, err)
}

func TestSchemaEquals(t *testing.T) {
	s1, err := CreateSchema([]string{"a", "b"}, []xframe.ColumnType{xframe.IntType, xframe.StringType})
	require.Nil(t, err)
	s2, err := CreateSchema([]string{"a", "b"}, []xframe.ColumnType{xframe.IntType, xframe.StringType})
	require.Nil(t, err)
	require.Nil(t, s1.Equals(s2))

	s3, err := CreateSchema([]string{"a", "b"}, []xframe.ColumnType{xframe.IntType, xframe.FloatType})
	require.Nil(t, err)
	require.NotNil(t, s1.Equals(s3))
}

func TestUniqueNameSuffixes(t *testing.T) {
	existing := []string{"id", "id.1"}
	require.Equal(t, "id.2", UniqueName(existing, "id"))
	require.Equal(t, "fresh", UniqueName(existing, "fresh"))
}

func TestSchemaUniqueName(t *testing.T) {
	s, err := CreateSchema([]string{"x"}, []xframe.ColumnType{xframe.IntType})
	require.Nil(t, err)
	require.Equal(t, "x.1", s.UniqueName("x"))
}

func TestRename(t *testing.T) {
	s, err := CreateSchema([]string{"a", "b"}, []xframe.ColumnType{xframe.IntType, xframe.StringType})
	require.Nil(t, err)
	require.Nil(t, s.Rename("a", "z"))
	require.Equal(t, []string{"z", "b"}, s.ColumnNames())

	require.NotNil(t, s.Rename("missing", "w"))
}

func TestAppendColumn(t *testing.T) {
	s, err := CreateSchema([]string{"a"}, []xframe.ColumnType{xframe.IntType})
	require.Nil(t, err)
	require.Nil(t, s.AppendColumn("b", xframe.FloatType))
	require.Equal(t, 2, s.NumColumns())

	err = s.AppendColumn("a", xframe.IntType)
	require.NotNil(t, err)
	require.IsType(t, errors.DuplicateNameError{}, err)
}

func TestCloneIsIndependent(t *testing.T) {
	s, err := CreateSchema([]string{"a"}, []xframe.ColumnType{xframe.IntType})
	require.Nil(t, err)
	c := s.Clone()
	require.Nil(t, c.Rename("a", "b"))
	require.Equal(t, []string{"a"}, s.ColumnNames())
	require.Equal(t, []string{"b"}, c.ColumnNames())
}
