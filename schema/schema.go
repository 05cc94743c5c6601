// Package schema tracks the ordered column names and parallel column
// types of a table. Names are unique within a Schema; collisions
// introduced by table operations are resolved by appending a numeric
// suffix (name, name.1, name.2, ...).
package schema

import (
	"fmt"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
)

// Schema is an ordered sequence of column names plus a parallel
// sequence of column type tags
type Schema struct {
	names []string
	types []xframe.ColumnType
}

// CreateSchema builds a Schema from parallel name and type slices
func CreateSchema(names []string, types []xframe.ColumnType) (*Schema, error) {
	if len(names) != len(types) {
		return nil, errors.SchemaMismatchError{
			Message: fmt.Sprintf("%d column names but %d column types", len(names), len(types)),
		}
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, errors.DuplicateNameError{Name: name}
		}
		seen[name] = true
	}
	s := &Schema{
		names: make([]string, len(names)),
		types: make([]xframe.ColumnType, len(types)),
	}
	copy(s.names, names)
	copy(s.types, types)
	return s, nil
}

// NumColumns returns the number of columns in this Schema
func (s *Schema) NumColumns() int {
	return len(s.names)
}

// ColumnNames returns a copy of the column names, in order
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// ColumnTypes returns a copy of the column types, in order
func (s *Schema) ColumnTypes() []xframe.ColumnType {
	types := make([]xframe.ColumnType, len(s.types))
	copy(types, s.types)
	return types
}

// IndexOf returns the position of the named column, or NotFoundError
func (s *Schema) IndexOf(name string) (int, error) {
	for i, n := range s.names {
		if n == name {
			return i, nil
		}
	}
	return -1, errors.NotFoundError{Name: name}
}

// HasColumn returns true iff this Schema contains the named column
func (s *Schema) HasColumn(name string) bool {
	_, err := s.IndexOf(name)
	return err == nil
}

// TypeOf returns the type tag of the named column
func (s *Schema) TypeOf(name string) (xframe.ColumnType, error) {
	i, err := s.IndexOf(name)
	if err != nil {
		return xframe.StringType, err
	}
	return s.types[i], nil
}

// Clone returns a copy of this Schema
func (s *Schema) Clone() *Schema {
	dup, _ := CreateSchema(s.names, s.types)
	return dup
}

// Equals returns nil iff the two Schemas have identical names and types
// in identical order
func (s *Schema) Equals(other *Schema) error {
	if len(s.names) != len(other.names) {
		return errors.SchemaMismatchError{
			Message: fmt.Sprintf("%d columns vs %d columns", len(s.names), len(other.names)),
		}
	}
	for i := range s.names {
		if s.names[i] != other.names[i] {
			return errors.SchemaMismatchError{
				Message: fmt.Sprintf("column %d named %s vs %s", i, s.names[i], other.names[i]),
			}
		}
		if s.types[i] != other.types[i] {
			return errors.SchemaMismatchError{
				Message: fmt.Sprintf("column %s typed %s vs %s", s.names[i], s.types[i], other.types[i]),
			}
		}
	}
	return nil
}

// UniqueName resolves proposed against the existing column names,
// appending .1, .2, ... until it no longer collides
func (s *Schema) UniqueName(proposed string) string {
	return UniqueName(s.names, proposed)
}

// UniqueName resolves proposed against existing, appending .1, .2, ...
// until it no longer collides
func UniqueName(existing []string, proposed string) string {
	candidate := proposed
	for i := 1; contains(existing, candidate); i++ {
		candidate = fmt.Sprintf("%s.%d", proposed, i)
	}
	return candidate
}

// Rename changes the name of a column in place. It does not
// deduplicate; callers wanting suffixing use UniqueName first.
func (s *Schema) Rename(oldName string, newName string) error {
	i, err := s.IndexOf(oldName)
	if err != nil {
		return err
	}
	s.names[i] = newName
	return nil
}

// AppendColumn adds a column to the end of this Schema, failing with
// DuplicateNameError on a name collision
func (s *Schema) AppendColumn(name string, colType xframe.ColumnType) error {
	if s.HasColumn(name) {
		return errors.DuplicateNameError{Name: name}
	}
	s.names = append(s.names, name)
	s.types = append(s.types, colType)
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
