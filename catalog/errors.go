package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for schema definition and lookup.
var (
	// ErrUnknownColumn is returned when a column name is not declared on a table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrColumnUnbound is returned when a column is used before it belongs to a table.
	ErrColumnUnbound = errors.New("column is not bound to a table")

	// ErrInvalidTable is returned by Define for malformed table definitions.
	ErrInvalidTable = errors.New("invalid table definition")

	// ErrDuplicate is returned when a table or column name is defined twice.
	ErrDuplicate = errors.New("duplicate name")
)

// SchemaError reports a failure tied to a table or one of its columns.
type SchemaError struct {
	Table  string
	Column string
	Err    error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Table != "" && e.Column != "":
		return fmt.Sprintf("%s.%s: %v", e.Table, e.Column, e.Err)
	case e.Column != "":
		return fmt.Sprintf("column %s: %v", e.Column, e.Err)
	case e.Table != "":
		return fmt.Sprintf("table %s: %v", e.Table, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }
