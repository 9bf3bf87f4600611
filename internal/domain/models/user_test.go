package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileCompleteness(t *testing.T) {
	var u User
	assert.Equal(t, 0, u.CalculateProfileCompleteness())

	u = User{
		Name:             "Asha",
		Email:            "asha@example.com",
		DOB:              "1995-06-15",
		ProfilePhotoURL:  "/uploads/photo-1.jpg",
		EmergencyContact: "+919812345678",
		Preferences: Preferences{
			SeatPreference:    "window",
			TrainClasses:      []string{"3A", "2A"},
			DietaryPreference: "veg",
		},
		Verification: Verification{IDVerified: true, SocialMediaLinked: true},
	}
	assert.Equal(t, 100, u.CalculateProfileCompleteness())

	// "no preference" earns nothing
	u.Preferences.SeatPreference = "no preference"
	u.Preferences.DietaryPreference = "no preference"
	assert.Equal(t, 88, u.CalculateProfileCompleteness())
}

func TestStatusFromAction(t *testing.T) {
	assert.Equal(t, RequestAccepted, StatusFromAction("accept"))
	assert.Equal(t, RequestRejected, StatusFromAction("REJECT"))
	assert.Equal(t, RequestRejected, StatusFromAction("Decline"))
	assert.Equal(t, RequestRejected, StatusFromAction("IGNORE"))
	assert.Equal(t, RequestCancelled, StatusFromAction(" cancel "))
	assert.Equal(t, "", StatusFromAction("SNOOZE"))
	assert.Equal(t, "", StatusFromAction(""))
}

func TestClampSeats(t *testing.T) {
	assert.Equal(t, 1, ClampSeats(0))
	assert.Equal(t, 1, ClampSeats(-3))
	assert.Equal(t, 2, ClampSeats(2))
	assert.Equal(t, 4, ClampSeats(99))
}

func TestSameTrip(t *testing.T) {
	a := Journey{TrainNumber: "12951", Class: "3A", BoardingDate: "2025-12-20", From: "BCT", To: "NDLS"}
	b := a
	b.From = "BVI" // boarding point differs, trip identity does not
	assert.True(t, a.SameTrip(b))

	b.Class = "2A"
	assert.False(t, a.SameTrip(b))
}
