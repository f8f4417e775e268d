package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is returned when a request, profile, or table fails a
// structural rule (e.g. an empty upload, a semester table with a gap).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// MissingColumnError is returned when the roster header lacks one or more
// required columns. It is fatal to the whole run.
// Handlers should map this to HTTP 422 Unprocessable Entity.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Columns, ", "))
}

// MissingFieldError is returned when a required cell is blank on one row.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing value for %q", e.Field)
}

// DateParseError records a signup date that could not be parsed.
// It never fails a row: the processing date is used instead.
type DateParseError struct {
	Value string
}

func (e *DateParseError) Error() string {
	if e.Value == "" {
		return "no signup date; using processing date"
	}
	return fmt.Sprintf("unrecognised signup date %q; using processing date", e.Value)
}

// NumericCoercionError records a shift count that is not a number.
// It never fails a row: the literal cell text is used instead.
type NumericCoercionError struct {
	Field string
	Value string
}

func (e *NumericCoercionError) Error() string {
	return fmt.Sprintf("%s value %q is not numeric; used as written", e.Field, e.Value)
}

// RowError ties a row-level error to its position in the roster.
// Line is the spreadsheet line number: the header is line 1, so the first
// data row is line 2.
type RowError struct {
	Line  int
	Email string
	Err   error
}

func (e *RowError) Error() string {
	if e.Email != "" {
		return fmt.Sprintf("row %d (%s): %v", e.Line, e.Email, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
