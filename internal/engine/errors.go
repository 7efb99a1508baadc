package engine

import "fmt"

// DataSourceError wraps a fetch or parse failure. Fatal for the run, no retry.
type DataSourceError struct {
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source %s: %v", e.Source, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// UnknownParameterError means an observation (or a requested set column)
// refers to something nothing was declared for. A configuration mistake,
// not a data defect.
type UnknownParameterError struct {
	Parameter string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("no declaration for %q (parameter or set column)", e.Parameter)
}

// IncompleteEntityError means an entity carries two different labels for one
// parameter, violating mutual exclusivity. Dual-valued source rows must be
// filtered before the pipeline runs.
type IncompleteEntityError struct {
	Entity    string
	Parameter string
}

func (e *IncompleteEntityError) Error() string {
	return fmt.Sprintf("entity %s has multiple labels for parameter %s", e.Entity, e.Parameter)
}
