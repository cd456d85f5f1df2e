package utils

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the date encodings the remote service has been seen to use.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses an ISO or HTTP date string.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// MonthLabel renders t like "Jan 2024".
func MonthLabel(t time.Time) string {
	return t.Format("Jan 2006")
}

// MonthStart truncates t to the first instant of its month, keeping its location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
