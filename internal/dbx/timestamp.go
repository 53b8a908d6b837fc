package dbx

import "time"

// TimestampLayout is a fixed-width UTC layout. SQLite keeps timestamps as
// TEXT, so equal width makes string comparison chronological.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTimestamp renders t for a TEXT timestamp column.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a value written by FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
