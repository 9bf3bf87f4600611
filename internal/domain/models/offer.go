package models

import "time"

// Offer statuses.
const (
	OfferActive = "ACTIVE"
	OfferPaused = "PAUSED"
	OfferClosed = "CLOSED"
)

// Seat bounds for an offer.
const (
	MinSeatsAvailable = 1
	MaxSeatsAvailable = 4
)

// ClampSeats forces seatsAvailable into [1,4]; non-positive input falls back
// to a single seat.
func ClampSeats(n int) int {
	if n < MinSeatsAvailable {
		return MinSeatsAvailable
	}
	if n > MaxSeatsAvailable {
		return MaxSeatsAvailable
	}
	return n
}

// OfferSeat advertises spare seat capacity on a confirmed journey.
// Unique per (phoneNumber, pnr). Journey is a snapshot copied from the
// owner's VerifiedJourney at create/update time.
type OfferSeat struct {
	ID             int64     `json:"id"`
	PhoneNumber    string    `json:"phoneNumber"`
	PNR            string    `json:"pnr"`
	Journey        Journey   `json:"journey"`
	SeatsAvailable int       `json:"seatsAvailable"`
	Note           string    `json:"note,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
