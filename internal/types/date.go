package types

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// CalendarDate is a YYYY-MM-DD day used to select log records by
// timestamp prefix. No timezone conversion is applied.
type CalendarDate string

func ParseCalendarDate(s string) (CalendarDate, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, ErrInvalidFormat)
	}
	return CalendarDate(s), nil
}

// Today returns the UTC calendar date of now, matching the date prefix of
// the UTC timestamps Claude Code writes.
func Today(now time.Time) CalendarDate {
	return CalendarDate(now.UTC().Format(dateLayout))
}

func (d CalendarDate) String() string {
	return string(d)
}

// Matches reports whether timestamp falls on d.
func (d CalendarDate) Matches(timestamp string) bool {
	return d != "" && strings.HasPrefix(timestamp, string(d))
}
