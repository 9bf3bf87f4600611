package utils

import (
	"strings"
	"time"
)

// AgeFromDOB computes age in full years at "now" from a YYYY-MM-DD date of
// birth. Returns 0 for unparseable, negative, or implausible (>150) results.
func AgeFromDOB(dob string, now time.Time) int {
	dob = strings.TrimSpace(dob)
	if dob == "" {
		return 0
	}
	born, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0
	}

	age := now.Year() - born.Year()
	// Not yet reached this year's anniversary.
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age < 0 || age > 150 {
		return 0
	}
	return age
}
