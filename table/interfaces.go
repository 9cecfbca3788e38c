package table

import (
	"context"
)

// Table is a lazily evaluated tabular dataset. Operators build a logical
// plan; no input is read and no work happens until Collect is called by a
// terminal action (typically a partitioned table write).
type Table interface {
	// Select projects the table to the given columns.
	// Referencing a column absent from any row fails the evaluation.
	Select(columns ...string) Table

	// Where retains only the rows matching the predicate
	Where(predicate Predicate) Table

	// DropDuplicates removes rows that are exact duplicates across all columns
	DropDuplicates() Table

	// WithColumn derives a new column (replacing any existing column of the
	// same name) from each row
	WithColumn(column string, derive DeriveFunc) Table

	// JoinLeftOuter joins this table against the right table on an equality
	// condition, preserving all left rows; right columns are null when no
	// right row matches
	JoinLeftOuter(right Table, on JoinCondition) Table

	// Collect evaluates the plan and returns the resulting rows
	Collect(ctx context.Context) ([]Row, error)
}

// Predicate decides whether a row is retained by Where
type Predicate func(Row) (bool, error)

// DeriveFunc computes a derived column value from a row
type DeriveFunc func(Row) (any, error)

// Engine creates tables from stored datasets. Implementations are
// interchangeable: the object-store engine for production runs, FromRows for
// in-memory tables in tests.
type Engine interface {
	// ReadJSON returns a lazy table over the newline-delimited JSON objects
	// in all input files matching the glob pattern. The files are not read
	// until the table is collected.
	ReadJSON(pattern string) Table
}

// Equals returns a predicate matching rows whose column equals the given
// string value; a missing column is a schema error
func Equals(column string, value string) Predicate {
	return func(r Row) (bool, error) {
		v, err := r.String(column)
		if err != nil {
			return false, err
		}
		return v == value, nil
	}
}
