package models

import "time"

// Booking status types as derived from provider status text.
const (
	StatusCNF     = "CNF"
	StatusRAC     = "RAC"
	StatusWL      = "WL"
	StatusUnknown = "UNKNOWN"
)

// Journey is the canonical journey shape shared by verified journeys and
// offer snapshots.
type Journey struct {
	TrainNumber  string `json:"trainNumber"`
	TrainName    string `json:"trainName"`
	Class        string `json:"class"`
	From         string `json:"from"`
	To           string `json:"to"`
	BoardingDate string `json:"boardingDate"`
}

// SameTrip compares the three fields that define trip compatibility.
// Comparisons run on denormalized snapshots; a stale snapshot is accepted
// behavior, not something to re-sync here.
func (j Journey) SameTrip(other Journey) bool {
	return j.TrainNumber == other.TrainNumber &&
		j.Class == other.Class &&
		j.BoardingDate == other.BoardingDate
}

// VerifiedJourney is the sole proof that a phone number travels on a PNR.
// Upsert-only, keyed (phoneNumber, pnr).
type VerifiedJourney struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	PNR         string    `json:"pnr"`
	Journey     Journey   `json:"journey"`
	StatusType  string    `json:"statusType"`
	VerifiedAt  time.Time `json:"verifiedAt"`
}
