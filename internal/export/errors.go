package export

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRecords is returned when the record provider yields nothing to export.
	ErrNoRecords = errors.New("no records to export")

	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = errors.New("invalid export period")
)

// ExportError wraps a failed export step with the period it concerned.
type ExportError struct {
	// Op is the step that failed (e.g. "load", "write").
	Op string

	// Period is the export period.
	Period Period

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export: %s failed for %s: %v", e.Op, e.Period, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExportError) Unwrap() error {
	return e.Err
}

// Is implements error matching.
func (e *ExportError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newExportError(op string, p Period, err error) error {
	if err == nil {
		return nil
	}
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return err
	}
	return &ExportError{Op: op, Period: p, Err: err}
}
