package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date wire format for due dates (no time component)
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in YYYY-MM-DD or RFC3339 form
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
}

// FormatDate renders a time as a wire calendar date, nil stays nil
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
