package services

import (
	"testing"

	"trainbuddy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchTrainsValidatesStations(t *testing.T) {
	svc := TrainService{}

	_, err := svc.SearchTrains("", "NDLS", "")
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))

	_, err = svc.SearchTrains("BCT", "", "")
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))
}

func TestSearchTrainsMockFallback(t *testing.T) {
	svc := TrainService{}

	trains, err := svc.SearchTrains("bct", "ndls", "2025-12-20")
	require.NoError(t, err)
	require.NotEmpty(t, trains)
	assert.Equal(t, "12951", trains[0].TrainNumber)
	assert.Equal(t, "BCT", trains[0].FromStation)
	assert.Equal(t, "NDLS", trains[0].ToStation)
}

func TestGetScheduleMockFallback(t *testing.T) {
	svc := TrainService{}

	schedule, err := svc.GetSchedule("12951")
	require.NoError(t, err)
	assert.Equal(t, "12951", schedule.TrainNumber)
	require.NotEmpty(t, schedule.Route)
	assert.Equal(t, "BCT", schedule.Route[0].StationCode)
	assert.Equal(t, "NDLS", schedule.Route[len(schedule.Route)-1].StationCode)
}

func TestSearchStationsQueryLength(t *testing.T) {
	svc := TrainService{}

	_, err := svc.SearchStations("b")
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))

	stations, err := svc.SearchStations("mumbai")
	require.NoError(t, err)
	require.NotEmpty(t, stations)
	assert.Equal(t, "BCT", stations[0].Code)
}
