package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSemesterTable_Code_DefaultRules(t *testing.T) {
	table := domain.MustSemesterTable(domain.DefaultSemesterRules())

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"december rolls into next spring", date(2025, time.December, 10), "SP26"},
		{"january", date(2026, time.January, 5), "SP26"},
		{"february", date(2026, time.February, 14), "SP26"},
		{"march", date(2026, time.March, 31), "SP26"},
		{"april", date(2025, time.April, 1), "SU25"},
		{"may", date(2025, time.May, 20), "SU25"},
		{"june", date(2025, time.June, 30), "SU25"},
		{"july", date(2025, time.July, 1), "FA25"},
		{"september", date(2025, time.September, 2), "FA25"},
		{"november", date(2025, time.November, 30), "FA25"},
		{"century rollover", date(2099, time.December, 1), "SP00"},
		{"single digit suffix is padded", date(2009, time.October, 1), "FA09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Code(tt.date))
		})
	}
}

func TestSemesterTable_Code_CustomRules(t *testing.T) {
	// Month 6 counted as fall, as some coordinators draw the boundary.
	table, err := domain.NewSemesterTable([]domain.SemesterRule{
		{Season: "SP", Months: []int{12}, YearOffset: 1},
		{Season: "SP", Months: []int{1, 2, 3}},
		{Season: "SU", Months: []int{4, 5}},
		{Season: "FA", Months: []int{6, 7, 8, 9, 10, 11}},
	})
	require.NoError(t, err)

	assert.Equal(t, "FA25", table.Code(date(2025, time.June, 15)))
	assert.Equal(t, "SU25", table.Code(date(2025, time.May, 15)))
}

func TestNewSemesterTable_Gap(t *testing.T) {
	_, err := domain.NewSemesterTable([]domain.SemesterRule{
		{Season: "SP", Months: []int{1, 2, 3, 12}},
		{Season: "SU", Months: []int{4, 5}},
		{Season: "FA", Months: []int{8, 9, 10, 11}},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.ErrorContains(t, err, "June, July")
}

func TestNewSemesterTable_Overlap(t *testing.T) {
	rules := domain.DefaultSemesterRules()
	rules = append(rules, domain.SemesterRule{Season: "XX", Months: []int{7}})

	_, err := domain.NewSemesterTable(rules)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "month 7")
}

func TestNewSemesterTable_MonthOutOfRange(t *testing.T) {
	_, err := domain.NewSemesterTable([]domain.SemesterRule{{Season: "SP", Months: []int{13}}})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "out of range")
}

func TestNewSemesterTable_BlankSeason(t *testing.T) {
	_, err := domain.NewSemesterTable([]domain.SemesterRule{{Season: "  ", Months: []int{1}}})

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseSignupDate_Layouts(t *testing.T) {
	fallback := date(2000, time.January, 1)

	for _, in := range []string{
		"2025-09-02",
		"2025/09/02",
		"9/2/2025",
		"09/02/2025",
		"9/2/25",
		"September 2, 2025",
		"Sep 2, 2025",
		"Tuesday, September 2, 2025",
		"2025-09-02 10:00:00",
		" 2025-09-02 ",
	} {
		t.Run(in, func(t *testing.T) {
			got, err := domain.ParseSignupDate(in, fallback)
			require.NoError(t, err)
			assert.Equal(t, 2025, got.Year())
			assert.Equal(t, time.September, got.Month())
			assert.Equal(t, 2, got.Day())
		})
	}
}

func TestParseSignupDate_FallsBack(t *testing.T) {
	fallback := date(2026, time.February, 3)

	got, err := domain.ParseSignupDate("next tuesday", fallback)

	assert.Equal(t, fallback, got)
	var dpe *domain.DateParseError
	require.ErrorAs(t, err, &dpe)
	assert.Equal(t, "next tuesday", dpe.Value)
}

func TestParseSignupDate_BlankFallsBack(t *testing.T) {
	fallback := date(2026, time.February, 3)

	got, err := domain.ParseSignupDate("", fallback)

	assert.Equal(t, fallback, got)
	assert.ErrorContains(t, err, "no signup date")
}
