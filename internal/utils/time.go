package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// FormatDate formats time to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS".
func FormatDateTime(t time.Time) string {
	return t.Format(layoutDateTime)
}
