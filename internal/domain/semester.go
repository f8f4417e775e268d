package domain

import (
	"fmt"
	"strings"
	"time"
)

// SemesterRule maps a set of calendar months to a season code.
// YearOffset is added to the calendar year before the two-digit suffix is
// taken, so December can belong to the following spring.
type SemesterRule struct {
	Season     string
	Months     []int
	YearOffset int
}

// DefaultSemesterRules is the canonical boundary table:
// Dec → next year's spring, Jan–Mar → spring, Apr–Jun → summer,
// Jul–Nov → fall.
func DefaultSemesterRules() []SemesterRule {
	return []SemesterRule{
		{Season: "SP", Months: []int{12}, YearOffset: 1},
		{Season: "SP", Months: []int{1, 2, 3}},
		{Season: "SU", Months: []int{4, 5, 6}},
		{Season: "FA", Months: []int{7, 8, 9, 10, 11}},
	}
}

// SemesterTable is a validated month → season lookup. Construct it with
// NewSemesterTable; the zero value maps every month to an empty season.
type SemesterTable struct {
	byMonth [13]SemesterRule
}

// NewSemesterTable validates rules and returns a table covering every month
// exactly once. A gap, an overlap, a month outside 1..12 or a blank season
// is reported as ErrValidation.
func NewSemesterTable(rules []SemesterRule) (SemesterTable, error) {
	var t SemesterTable
	seen := [13]bool{}
	for i, r := range rules {
		season := strings.TrimSpace(r.Season)
		if season == "" {
			return SemesterTable{}, fmt.Errorf("%w: semester rule %d has no season", ErrValidation, i+1)
		}
		for _, m := range r.Months {
			if m < 1 || m > 12 {
				return SemesterTable{}, fmt.Errorf("%w: semester rule %s: month %d out of range", ErrValidation, season, m)
			}
			if seen[m] {
				return SemesterTable{}, fmt.Errorf("%w: month %d is mapped more than once", ErrValidation, m)
			}
			seen[m] = true
			t.byMonth[m] = SemesterRule{Season: season, Months: []int{m}, YearOffset: r.YearOffset}
		}
	}
	var gaps []string
	for m := 1; m <= 12; m++ {
		if !seen[m] {
			gaps = append(gaps, time.Month(m).String())
		}
	}
	if len(gaps) > 0 {
		return SemesterTable{}, fmt.Errorf("%w: no semester for %s", ErrValidation, strings.Join(gaps, ", "))
	}
	return t, nil
}

// MustSemesterTable is like NewSemesterTable but panics on invalid rules.
// Use it only with rules known at compile time.
func MustSemesterTable(rules []SemesterRule) SemesterTable {
	t, err := NewSemesterTable(rules)
	if err != nil {
		panic("domain: " + err.Error())
	}
	return t
}

// Code returns the semester code for d, e.g. "FA25" or "SP26".
func (t SemesterTable) Code(d time.Time) string {
	r := t.byMonth[d.Month()]
	year := d.Year() + r.YearOffset
	return fmt.Sprintf("%s%02d", r.Season, year%100)
}

// signupDateLayouts are tried in order by ParseSignupDate. They cover the
// ISO form, the US spreadsheet forms and the long forms that sheet
// exports produce for date-formatted cells.
var signupDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006",
	"2 January 2006",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	time.RFC3339,
}

// ParseSignupDate parses a roster date cell. On failure it returns the
// fallback time and a *DateParseError describing the cell.
func ParseSignupDate(s string, fallback time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s != "" {
		for _, layout := range signupDateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d, nil
			}
		}
	}
	return fallback, &DateParseError{Value: s}
}
