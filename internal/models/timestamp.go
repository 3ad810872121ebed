package models

import "time"

// TimestampLayout matches what browsers emit from Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
