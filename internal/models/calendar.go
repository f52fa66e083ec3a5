package models

import (
	"math"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
	secondsPerDay   = 86400
)

// DateString formats a day count since 1970-01-01 as YYYY-MM-DD in UTC.
// Non-finite day counts have no calendar form.
func DateString(days float64) (string, bool) {
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return "", false
	}
	secs := int64(math.Floor(days)) * secondsPerDay
	return time.Unix(secs, 0).UTC().Format(dateLayout), true
}

// TimestampString formats seconds since the epoch as YYYY-MM-DD HH:MM:SS in UTC.
func TimestampString(seconds float64) (string, bool) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", false
	}
	return time.Unix(int64(math.Floor(seconds)), 0).UTC().Format(timestampLayout), true
}
