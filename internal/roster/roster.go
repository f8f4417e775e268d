// Package roster reads coordinator roster CSVs into domain.Table values and
// writes mail-merge records back out as CSV.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
)

// ErrEmpty is returned by Read when the document has no header row.
var ErrEmpty = fmt.Errorf("%w: roster is empty", domain.ErrValidation)

// Read parses a roster CSV. A byte-order mark is honoured (UTF-8 or UTF-16,
// as spreadsheet exports produce) and removed. Rows may have fewer cells
// than the header. Rows whose cells are all blank are left out of
// Table.Rows and their source lines recorded in Table.BlankLines; the
// source line of every kept row is recorded in Table.Lines.
func Read(r io.Reader) (domain.Table, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, ErrEmpty
	}
	if err != nil {
		return domain.Table{}, readErr("header", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	table := domain.Table{Header: header, Rows: [][]string{}, Lines: []int{}}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, readErr("row", err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			table.BlankLines = append(table.BlankLines, line)
			continue
		}
		table.Rows = append(table.Rows, rec)
		table.Lines = append(table.Lines, line)
	}
	return table, nil
}

// Write encodes records as CSV with a header row of domain.OutputColumns.
// An empty slice still produces the header.
func Write(w io.Writer, records []domain.OutputRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.OutputColumns); err != nil {
		return fmt.Errorf("roster.Write: header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(rec.Values()); err != nil {
			return fmt.Errorf("roster.Write: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("roster.Write: flush: %w", err)
	}
	return nil
}

// readErr classifies a CSV read failure. Malformed CSV is the uploader's
// fault and wraps domain.ErrValidation; anything else (a closed connection,
// an oversized body) is passed through for the caller to map.
func readErr(what string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %s: %v", domain.ErrValidation, what, err)
	}
	return fmt.Errorf("roster.Read: %s: %w", what, err)
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
