package service

import (
	"strings"
	"time"
)

// DateTimeLayout is the user-facing appointment time format.
const DateTimeLayout = "2006-01-02 15:04"

// ParseDateTime parses raw as YYYY-MM-DD HH:MM in UTC.
func ParseDateTime(raw string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return t, nil
}

// FormatDateTime renders t in the layout accepted by ParseDateTime.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}
