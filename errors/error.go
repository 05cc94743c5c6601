package errors

import (
	"fmt"
)

// NotFoundError occurs when a named column or table does not exist
type NotFoundError struct{ Name string }

// Error returns a textual representation of this NotFoundError
func (e NotFoundError) Error() string {
	return fmt.Sprintf("Column name does not exist: %s", e.Name)
}

// DuplicateNameError occurs when a column is explicitly added with a name which is already present
type DuplicateNameError struct{ Name string }

// Error returns a textual representation of this DuplicateNameError
func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("Column name already exists: %s", e.Name)
}

// UnsupportedOperatorError occurs when an aggregation operator name is not recognized
type UnsupportedOperatorError struct{ Op string }

// Error returns a textual representation of this UnsupportedOperatorError
func (e UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("Unrecognized aggregation operator: %s", e.Op)
}

// InvalidJoinError occurs when the join key sets are empty or mismatched
type InvalidJoinError struct{ Message string }

// Error returns a textual representation of this InvalidJoinError
func (e InvalidJoinError) Error() string {
	return fmt.Sprintf("Invalid join: %s", e.Message)
}

// InvalidArgumentError occurs when an operation argument is outside its
// valid range
type InvalidArgumentError struct {
	Arg     string
	Message string
}

// Error returns a textual representation of this InvalidArgumentError
func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("Invalid argument %s: %s", e.Arg, e.Message)
}

// SchemaMismatchError occurs when two tables or a table and an array have
// incompatible column sets or lengths, or when a column cannot be
// schema-inferred for an external format
type SchemaMismatchError struct{ Message string }

// Error returns a textual representation of this SchemaMismatchError
func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("Schema mismatch: %s", e.Message)
}

// NotImplementedError occurs when a known-unimplemented code path is exercised.
// These paths fail loudly rather than silently no-op.
type NotImplementedError struct{ Op string }

// Error returns a textual representation of this NotImplementedError
func (e NotImplementedError) Error() string {
	return fmt.Sprintf("Not implemented: %s", e.Op)
}

// CastError occurs when a raw value cannot be cast to a declared column type
type CastError struct {
	Value string
	Type  string
}

// Error returns a textual representation of this CastError
func (e CastError) Error() string {
	return fmt.Sprintf("Cannot cast %#v to %s", e.Value, e.Type)
}

// EmptyDatasetError occurs when an action requiring at least one element is run against an empty dataset
type EmptyDatasetError struct{}

// Error returns a textual representation of this EmptyDatasetError
func (e EmptyDatasetError) Error() string {
	return "Dataset contains no elements"
}
