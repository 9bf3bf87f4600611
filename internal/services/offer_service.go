package services

import (
	"database/sql"
	"net/http"
	"time"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/domain/models"
	"trainbuddy/internal/repositories"
	"trainbuddy/internal/utils"
)

// OfferSearchResult is one row of an offer search. The owner's identity is
// reduced to a masked display name; their phone number and PNR never leave
// the server.
type OfferSearchResult struct {
	OfferID        int64          `json:"offerId"`
	DisplayName    string         `json:"displayName"`
	Journey        models.Journey `json:"journey"`
	SeatsAvailable int            `json:"seatsAvailable"`
	Note           string         `json:"note,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// OfferService implements the seat-offer marketplace: one offer per
// (phone, pnr), searches over active offers, and requests against them with
// the same authorization split as buddy requests.
type OfferService struct {
	Offers   repositories.OfferRepo
	Requests repositories.OfferRequestRepo
}

// Create upserts the caller's offer for their verified journey. Only a
// confirmed booking can promise a seat. Seats clamp to [1,4] and a closed
// offer comes back ACTIVE.
func (s OfferService) Create(caller models.VerifiedJourney, seatsAvailable int, note string) (models.OfferSeat, error) {
	if caller.StatusType != models.StatusCNF {
		return models.OfferSeat{}, domain.NewAPIError(domain.CodePNRNotConfirmed, "Only confirmed bookings can offer seats.", http.StatusBadRequest)
	}
	j := caller.Journey
	if j.TrainNumber == "" || j.Class == "" || j.BoardingDate == "" {
		return models.OfferSeat{}, domain.NewAPIError(domain.CodeJourneyMissing, "Verified journey is missing train details. Please re-check your PNR.", http.StatusBadRequest)
	}

	offer, err := s.Offers.Upsert(caller.PhoneNumber, caller.PNR, j, seatsAvailable, note)
	if err != nil {
		return models.OfferSeat{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return offer, nil
}

// Search lists other users' active offers on the caller's train/class/date.
func (s OfferService) Search(caller models.VerifiedJourney) ([]OfferSearchResult, error) {
	j := caller.Journey
	if j.TrainNumber == "" || j.Class == "" || j.BoardingDate == "" {
		return nil, domain.NewAPIError(domain.CodeJourneyMissing, "Verified journey is missing train details. Please re-check your PNR.", http.StatusBadRequest)
	}

	offers, err := s.Offers.SearchActive(caller.PhoneNumber, j, matchResultLimit)
	if err != nil {
		return nil, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}

	out := make([]OfferSearchResult, 0, len(offers))
	for _, o := range offers {
		out = append(out, OfferSearchResult{
			OfferID:        o.ID,
			DisplayName:    utils.MaskPhone(o.PhoneNumber),
			Journey:        o.Journey,
			SeatsAvailable: o.SeatsAvailable,
			Note:           o.Note,
			UpdatedAt:      o.UpdatedAt,
		})
	}
	return out, nil
}

// Request asks an offer owner for a seat. The trip check runs against the
// offer's journey snapshot, which may lag a later re-verification; that is
// accepted behavior.
func (s OfferService) Request(caller models.VerifiedJourney, offerID int64, message string) (models.OfferSeatRequest, error) {
	offer, err := s.Offers.GetByID(offerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.OfferSeatRequest{}, domain.NewAPIError(domain.CodeOfferNotFound, "Offer not found.", http.StatusNotFound)
		}
		return models.OfferSeatRequest{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}

	if offer.Status != models.OfferActive {
		return models.OfferSeatRequest{}, domain.NewAPIError(domain.CodeOfferNotActive, "This offer is no longer active.", http.StatusBadRequest)
	}
	if offer.PhoneNumber == caller.PhoneNumber {
		return models.OfferSeatRequest{}, domain.NewAPIError(domain.CodeInvalidRequest, "You cannot request your own offer.", http.StatusBadRequest)
	}
	if !offer.Journey.SameTrip(caller.Journey) {
		return models.OfferSeatRequest{}, domain.NewAPIError(domain.CodeTripMismatch, "This offer is not on your train, class and date.", http.StatusBadRequest)
	}

	req, err := s.Requests.Upsert(offer.ID, caller.PhoneNumber, offer.PhoneNumber, caller.PNR, message)
	if err != nil {
		return models.OfferSeatRequest{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return req, nil
}

// Respond applies an ACCEPT/REJECT/CANCEL action to a seat request. The offer
// owner decides accept/reject; the requester may only cancel.
func (s OfferService) Respond(callerPhone string, requestID int64, action string) (models.OfferSeatRequest, error) {
	status := models.StatusFromAction(action)
	if status == "" {
		return models.OfferSeatRequest{}, domain.NewAPIError(domain.CodeInvalidAction, "Action must be ACCEPT, REJECT or CANCEL.", http.StatusBadRequest)
	}

	req, err := s.Requests.GetByID(requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.OfferSeatRequest{}, domain.NewAPIError(domain.CodeRequestNotFound, "Request not found.", http.StatusNotFound)
		}
		return models.OfferSeatRequest{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}

	if err := authorizeTransition(status, callerPhone, req.FromPhoneNumber, req.ToPhoneNumber); err != nil {
		return models.OfferSeatRequest{}, err
	}

	if err := s.Requests.UpdateStatus(req.ID, status); err != nil {
		return models.OfferSeatRequest{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	req.Status = status
	return req, nil
}

// My returns the caller's own offer for the PNR, if any.
func (s OfferService) My(callerPhone, pnr string) (models.OfferSeat, bool, error) {
	offer, err := s.Offers.GetByPhonePNR(callerPhone, pnr)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.OfferSeat{}, false, nil
		}
		return models.OfferSeat{}, false, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return offer, true, nil
}

// Incoming lists seat requests addressed to the caller on a PNR.
func (s OfferService) Incoming(callerPhone, pnr string) ([]models.OfferSeatRequest, error) {
	reqs, err := s.Requests.ListIncoming(callerPhone, pnr, 0)
	if err != nil {
		return nil, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return reqs, nil
}

// Outgoing lists seat requests the caller sent on a PNR.
func (s OfferService) Outgoing(callerPhone, pnr string) ([]models.OfferSeatRequest, error) {
	reqs, err := s.Requests.ListOutgoing(callerPhone, pnr, 0)
	if err != nil {
		return nil, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return reqs, nil
}
