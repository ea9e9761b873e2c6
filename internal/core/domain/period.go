package domain

import (
	"fmt"
	"time"
)

// Period identifies one rent month in "YYYY-MM" form.
type Period string

const periodLayout = "2006-01"

// PeriodOf returns the period for the calendar month containing t.
func PeriodOf(t time.Time) Period {
	return Period(t.Format(periodLayout))
}

// ParsePeriod validates and returns a Period from its string form.
func ParsePeriod(s string) (Period, error) {
	if _, err := time.Parse(periodLayout, s); err != nil {
		return "", fmt.Errorf("invalid period %q: %w", s, err)
	}
	return Period(s), nil
}

// Start returns midnight UTC on the first day of the period.
func (p Period) Start() time.Time {
	t, err := time.Parse(periodLayout, string(p))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Next returns the period for the following month.
func (p Period) Next() Period {
	return PeriodOf(p.Start().AddDate(0, 1, 0))
}

// Prev returns the period for the preceding month.
func (p Period) Prev() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}

func (p Period) String() string {
	return string(p)
}
