package service

import "time"

// IsObservationTime reports whether now falls outside the awake hours
// [start, end), i.e. hour < start || hour >= end, using now's own location.
//
// With start=6, end=22 that is 00:00-05:59 and 22:00-23:59. If start >= end
// every hour qualifies; config.Settings.Validate rejects such windows.
func IsObservationTime(now time.Time, start, end int) bool {
	h := now.Hour()
	return h < start || h >= end
}
