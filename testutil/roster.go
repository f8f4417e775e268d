// Package testutil provides shared fixtures for package tests: roster
// tables and CSV documents in the coordinator's column layout, and a quiet
// logger.
package testutil

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"testing"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
)

// RosterHeader is the column order used by every fixture.
var RosterHeader = []string{
	domain.ColSignupDate, domain.ColSignupTime, domain.ColFirstName, domain.ColEmail,
	domain.ColComplete, domain.ColPrepDone, domain.ColClosingDone, domain.ColPrepLeft,
	domain.ColClosingLeft,
}

// Row is one fixture roster row; fields map one-to-one onto RosterHeader.
type Row struct {
	Date, Time, Name, Email, Complete            string
	PrepDone, ClosingDone, PrepLeft, ClosingLeft string
}

func (r Row) cells() []string {
	return []string{
		r.Date, r.Time, r.Name, r.Email, r.Complete,
		r.PrepDone, r.ClosingDone, r.PrepLeft, r.ClosingLeft,
	}
}

// Ana is a complete assistant signing up in the fall term.
func Ana() Row {
	return Row{
		Date: "2025-09-02", Time: "10:00", Name: "Ana", Email: "ana@x.edu", Complete: "TRUE",
		PrepDone: "4", ClosingDone: "2", PrepLeft: "0", ClosingLeft: "0",
	}
}

// Bo is an incomplete assistant with no date of their own.
func Bo() Row {
	return Row{
		Name: "Bo", Email: "bo@x.edu", Complete: "FALSE",
		PrepDone: "1.0", ClosingDone: "0", PrepLeft: "1", ClosingLeft: "2.5",
	}
}

// Table builds a domain.Table with RosterHeader and the given rows.
func Table(rows ...Row) domain.Table {
	t := domain.Table{Header: append([]string(nil), RosterHeader...)}
	for _, r := range rows {
		t.Rows = append(t.Rows, r.cells())
	}
	return t
}

// CSV encodes rows as a roster CSV document.
func CSV(t *testing.T, rows ...Row) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(RosterHeader); err != nil {
		t.Fatalf("testutil.CSV: header: %v", err)
	}
	for _, r := range rows {
		if err := w.Write(r.cells()); err != nil {
			t.Fatalf("testutil.CSV: row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("testutil.CSV: flush: %v", err)
	}
	return buf.Bytes()
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
