package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgeFromDOB(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// exactly 30 years before now, same month/day
	assert.Equal(t, 30, AgeFromDOB("1995-06-15", now))
	// one day after the anniversary: still 29
	assert.Equal(t, 29, AgeFromDOB("1995-06-16", now))

	assert.Equal(t, 0, AgeFromDOB("", now))
	assert.Equal(t, 0, AgeFromDOB("not-a-date", now))
	// future DOB
	assert.Equal(t, 0, AgeFromDOB("2030-01-01", now))
	// implausibly old
	assert.Equal(t, 0, AgeFromDOB("1800-01-01", now))
}
