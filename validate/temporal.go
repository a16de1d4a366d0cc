// Copyright (c) HashiCorp, Inc.

package validate

import (
	"regexp"
	"strings"
	"time"
)

// dateShape matches spec §4.1's DATE grammar before we hand the value to
// time.Parse for calendar correctness (leap years included: time.Parse
// rejects "2023-02-29" because it validates day-of-month against the
// actual number of days in that month/year).
var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// timestampShape matches spec §4.1's TIMESTAMP grammar: no timezone
// suffix, 1-6 optional fractional digits.
var timestampShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d{1,6})?$`)

// IsDate reports whether s is a calendar-correct YYYY-MM-DD date.
func IsDate(s string) bool {
	if !dateShape.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsTimestamp reports whether s is a calendar-correct
// YYYY-MM-DDTHH:MM:SS[.FFFFFF] timestamp with no timezone suffix.
func IsTimestamp(s string) bool {
	if !timestampShape.MatchString(s) {
		return false
	}
	base := s
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		base = s[:idx]
	}
	_, err := time.Parse("2006-01-02T15:04:05", base)
	return err == nil
}
