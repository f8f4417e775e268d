package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
	"github.com/pkordes/assistant-mailmerge/testutil"
)

// run executes the CLI in-process and returns stdout and stderr.
func run(t *testing.T, stdin []byte, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(bytes.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeRoster(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func readMerge(t *testing.T, data string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestBuild_WritesMergeToStdout(t *testing.T) {
	path := writeRoster(t, testutil.CSV(t, testutil.Ana(), testutil.Bo()))

	out, _, err := run(t, nil, "build", path, "--link", "https://sheet.example")

	require.NoError(t, err)
	records := readMerge(t, out)
	require.Len(t, records, 3)
	assert.Equal(t, domain.OutputColumns, records[0])
	assert.Equal(t, "ana@x.edu", records[1][3])
	assert.Equal(t, "studiomanagers@example.edu", records[1][4])
	assert.Equal(t, "FA25 Assistant Schedule: *Sign Up for Your Shifts!*", records[1][6])
	assert.Contains(t, records[2][7], `<a href="https://sheet.example">FA25 Assistant Schedule</a>`)
}

func TestBuild_ReadsStdinAndWritesFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "ready_to_mail_merge.csv")

	out, _, err := run(t, testutil.CSV(t, testutil.Ana()),
		"build", "-", "-o", outPath, "--link", "https://sheet.example",
		"--from", "me@x.edu", "--bcc", "log@x.edu")

	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	records := readMerge(t, string(data))
	require.Len(t, records, 2)
	assert.Equal(t, "me@x.edu", records[1][4])
	assert.Equal(t, "log@x.edu", records[1][5])
}

func TestBuild_SkipsFailedRowsAndLogsThem(t *testing.T) {
	bad := testutil.Ana()
	bad.Name = ""
	bad.Email = "bad@x.edu"
	path := writeRoster(t, testutil.CSV(t, testutil.Ana(), bad))

	out, stderr, err := run(t, nil, "build", path, "--link", "https://sheet.example")

	require.NoError(t, err)
	assert.Len(t, readMerge(t, out), 2)
	assert.Contains(t, stderr, "row skipped")
	assert.Contains(t, stderr, "bad@x.edu")
}

func TestBuild_StrictFailsOnBadRow(t *testing.T) {
	bad := testutil.Ana()
	bad.Name = ""
	path := writeRoster(t, testutil.CSV(t, testutil.Ana(), bad))

	out, _, err := run(t, nil, "build", path, "--link", "https://sheet.example", "--strict")

	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Line)
	assert.Empty(t, out)
}

func TestBuild_MissingColumnIsFatal(t *testing.T) {
	path := writeRoster(t, []byte("First Name,Email\nAna,ana@x.edu\n"))

	_, _, err := run(t, nil, "build", path, "--link", "https://sheet.example")

	var mce *domain.MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Contains(t, mce.Columns, domain.ColComplete)
}

func TestBuild_RequiresLink(t *testing.T) {
	path := writeRoster(t, testutil.CSV(t, testutil.Ana()))

	_, _, err := run(t, nil, "build", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "link")
}

func TestBuild_MissingFile(t *testing.T) {
	_, _, err := run(t, nil, "build", filepath.Join(t.TempDir(), "nope.csv"), "--link", "x")

	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSemester_PrintsCode(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-12-03", "SP26"},
		{"2/14/2026", "SP26"},
		{"2026-05-01", "SU26"},
		{"September 2, 2025", "FA25"},
	}
	for _, tc := range tests {
		t.Run(tc.date, func(t *testing.T) {
			out, _, err := run(t, nil, "semester", tc.date)
			require.NoError(t, err)
			assert.Equal(t, tc.want+"\n", out)
		})
	}
}

func TestSemester_RejectsUnknownDate(t *testing.T) {
	_, _, err := run(t, nil, "semester", "someday")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "someday")
}
