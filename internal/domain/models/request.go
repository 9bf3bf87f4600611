package models

import (
	"strings"
	"time"
)

// Cooperation request statuses, shared by buddy requests and offer-seat
// requests.
const (
	RequestPending   = "PENDING"
	RequestAccepted  = "ACCEPTED"
	RequestRejected  = "REJECTED"
	RequestCancelled = "CANCELLED"
)

// StatusFromAction maps a respond action to a target status. Empty string
// means the action is unrecognized.
func StatusFromAction(action string) string {
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case "ACCEPT":
		return RequestAccepted
	case "REJECT", "DECLINE", "IGNORE":
		return RequestRejected
	case "CANCEL":
		return RequestCancelled
	default:
		return ""
	}
}

// BuddyRequest pairs two verified co-passengers on a PNR.
// Unique per (fromPhoneNumber, toPhoneNumber, pnr).
type BuddyRequest struct {
	ID              int64     `json:"id"`
	FromPhoneNumber string    `json:"fromPhoneNumber"`
	ToPhoneNumber   string    `json:"toPhoneNumber"`
	PNR             string    `json:"pnr"`
	Message         string    `json:"message,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// OfferSeatRequest asks an offer owner for one of their spare seats.
// Unique per (offerId, fromPhoneNumber). OfferID is a lookup reference, not
// ownership.
type OfferSeatRequest struct {
	ID              int64     `json:"id"`
	OfferID         int64     `json:"offerId"`
	FromPhoneNumber string    `json:"fromPhoneNumber"`
	ToPhoneNumber   string    `json:"toPhoneNumber"`
	PNR             string    `json:"pnr"`
	Message         string    `json:"message,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
