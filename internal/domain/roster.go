// Package domain contains the core data types for the assistant mail merge.
// This package has no dependencies on other internal packages and is
// imported by every other internal package (roster, render, service, handler).
package domain

import "strings"

// Input column names, as they appear in the coordinator's roster export.
const (
	ColSignupDate  = "Signup Date"
	ColSignupTime  = "Signup Time"
	ColFirstName   = "First Name"
	ColEmail       = "Email"
	ColComplete    = "Complete"
	ColPrepDone    = "Prep Done"
	ColClosingDone = "Closing Done"
	ColPrepLeft    = "Prep Left"
	ColClosingLeft = "Closing Left"
)

// RequiredColumns lists every column a roster must carry, in the order they
// are reported when missing.
var RequiredColumns = []string{
	ColSignupDate, ColSignupTime, ColFirstName, ColEmail, ColComplete,
	ColPrepDone, ColClosingDone, ColPrepLeft, ColClosingLeft,
}

// Table is a parsed roster: a header row plus data rows in file order.
// Rows may be shorter than Header; missing trailing cells read as empty.
type Table struct {
	Header []string
	Rows   [][]string
	// Lines optionally holds the source line number of each row. When nil,
	// rows are assumed to follow the header with no gaps.
	Lines []int
	// BlankLines lists source lines whose cells were all blank. They carry
	// no data and are not in Rows.
	BlankLines []int
}

// Line returns the 1-based source line number of data row i.
func (t Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// Columns returns a map from trimmed header name to column index.
// When a header name repeats, the first occurrence wins.
func (t Table) Columns() map[string]int {
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

// Cell returns the value at row/col, or "" when the row is short.
func (t Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// InputRow is one assistant's signup record after column lookup.
// Blank cells are represented as empty strings; forward-fill of SignupDate
// and SignupTime has already been applied by the time a renderer sees it.
type InputRow struct {
	SignupDate string
	SignupTime string
	FirstName  string // trimmed
	Email      string
	Complete   bool

	// Shift counts, kept as raw cell text so formatting can fall back to
	// the literal value when it is not numeric.
	PrepDone    string
	ClosingDone string
	PrepLeft    string
	ClosingLeft string
}

// ParseInputRow builds an InputRow from raw cell values keyed by column
// name and validates it. The Complete flag is true only for a
// case-insensitive "TRUE"; a blank Complete cell is a missing field rather
// than an implicit FALSE.
func ParseInputRow(cells map[string]string) (InputRow, error) {
	complete := strings.TrimSpace(cells[ColComplete])
	row := InputRow{
		SignupDate:  strings.TrimSpace(cells[ColSignupDate]),
		SignupTime:  strings.TrimSpace(cells[ColSignupTime]),
		FirstName:   strings.TrimSpace(cells[ColFirstName]),
		Email:       strings.TrimSpace(cells[ColEmail]),
		Complete:    strings.EqualFold(complete, "TRUE"),
		PrepDone:    strings.TrimSpace(cells[ColPrepDone]),
		ClosingDone: strings.TrimSpace(cells[ColClosingDone]),
		PrepLeft:    strings.TrimSpace(cells[ColPrepLeft]),
		ClosingLeft: strings.TrimSpace(cells[ColClosingLeft]),
	}
	switch {
	case row.FirstName == "":
		return row, &MissingFieldError{Field: ColFirstName}
	case row.Email == "":
		return row, &MissingFieldError{Field: ColEmail}
	case complete == "":
		return row, &MissingFieldError{Field: ColComplete}
	}
	return row, row.Validate()
}

// Validate reports the first required field that is blank on this row.
// Shift counts are only required when the assistant is not complete.
func (r InputRow) Validate() error {
	type field struct{ name, value string }
	required := []field{
		{ColFirstName, r.FirstName},
		{ColEmail, r.Email},
	}
	if !r.Complete {
		required = append(required,
			field{ColPrepDone, r.PrepDone},
			field{ColClosingDone, r.ClosingDone},
			field{ColPrepLeft, r.PrepLeft},
			field{ColClosingLeft, r.ClosingLeft},
		)
	}
	for _, f := range required {
		if f.value == "" {
			return &MissingFieldError{Field: f.name}
		}
	}
	return nil
}
