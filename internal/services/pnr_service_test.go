package services

import (
	"testing"
	"time"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatusType(t *testing.T) {
	cases := map[string]string{
		"CNF/B2/45":       models.StatusCNF,
		"Confirmed":       models.StatusCNF,
		"RAC 14":          models.StatusRAC,
		"W/L 12":          models.StatusWL,
		"WL 5":            models.StatusWL,
		"CAN/MOD":         models.StatusUnknown,
		"":                models.StatusUnknown,
		"GNWL 22/WL 12":   models.StatusWL,
		"cnf lower berth": models.StatusCNF,
	}
	for input, want := range cases {
		assert.Equal(t, want, DeriveStatusType(input), "input %q", input)
	}
}

func TestExtractPositions(t *testing.T) {
	current, original := ExtractPositions("WL 12/25")
	assert.Equal(t, 12, current)
	assert.Equal(t, 25, original)

	current, original = ExtractPositions("RAC 7")
	assert.Equal(t, 7, current)
	assert.Equal(t, 7, original)

	current, original = ExtractPositions("Confirmed")
	assert.Equal(t, 0, current)
	assert.Equal(t, 0, original)
}

func TestLookupRejectsBadPNR(t *testing.T) {
	svc := PnrService{}

	_, err := svc.Lookup("12345")
	assert.True(t, domain.IsCode(err, domain.CodeInvalidPNR))

	_, err = svc.Lookup("")
	assert.True(t, domain.IsCode(err, domain.CodeInvalidPNR))
}

func TestLookupMockWhenUnconfigured(t *testing.T) {
	svc := PnrService{}

	result, err := svc.Lookup("1234567890")
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "1234567890", result.PNR)
	assert.Equal(t, "12951", result.Journey.TrainNumber)
	assert.Equal(t, models.StatusWL, result.Status.Type)
	assert.Equal(t, 12, result.Status.CurrentPosition)
	assert.Equal(t, 25, result.Status.OriginalPosition)
	assert.NotEmpty(t, result.Clarity.Title)
}

func TestClarityVariesByStatus(t *testing.T) {
	wl := clarityFor(models.StatusWL, 12)
	rac := clarityFor(models.StatusRAC, 7)
	cnf := clarityFor(models.StatusCNF, 0)
	unknown := clarityFor(models.StatusUnknown, 0)

	assert.Contains(t, wl.Body, "waiting list")
	assert.Contains(t, rac.Body, "RAC")
	assert.Contains(t, cnf.Body, "confirmed")
	assert.NotEmpty(t, unknown.Tips)
}

func TestAPICacheTTLAndEviction(t *testing.T) {
	cache := newAPICache(50*time.Millisecond, 2)

	cache.put("a", []byte("1"))
	got, ok := cache.get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), got)

	// expired entries miss
	time.Sleep(60 * time.Millisecond)
	_, ok = cache.get("a")
	assert.False(t, ok)

	// capacity eviction drops the oldest key
	cache.put("a", []byte("1"))
	cache.put("b", []byte("2"))
	cache.put("c", []byte("3"))
	_, ok = cache.get("a")
	assert.False(t, ok)
	_, ok = cache.get("b")
	assert.True(t, ok)
	_, ok = cache.get("c")
	assert.True(t, ok)
}

func TestEstimateChartTime(t *testing.T) {
	// chart expected four hours before midnight of the travel date
	got := estimateChartTime("2025-12-20")
	want := time.Date(2025, 12, 20, 0, 0, 0, 0, time.Local).Add(-4 * time.Hour)
	assert.Equal(t, want.Format(time.RFC3339), got)

	// provider DD-MM-YYYY form
	got = estimateChartTime("20-12-2025")
	assert.Equal(t, want.Format(time.RFC3339), got)

	// garbage falls back to a non-empty timestamp
	assert.NotEmpty(t, estimateChartTime("soon"))
}
