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

const matchResultLimit = 50

// BuddyCandidate is one row of a buddy search result. DisplayName falls back
// to a masked phone form when the candidate has no profile name.
type BuddyCandidate struct {
	BuddyID     int64          `json:"buddyId"`
	DisplayName string         `json:"displayName"`
	Age         int            `json:"age,omitempty"`
	Journey     models.Journey `json:"journey"`
	StatusType  string         `json:"statusType"`
	VerifiedAt  time.Time      `json:"verifiedAt"`
}

// BuddyService implements buddy matching: candidate search over confirmed
// verified journeys, deduplicated requests and authorized status transitions.
type BuddyService struct {
	Journeys repositories.VerifiedJourneyRepo
	Requests repositories.BuddyRequestRepo
}

// Search lists other confirmed travelers on the caller's train/class/date.
// The caller's own verified journey comes from the verification gate.
func (s BuddyService) Search(caller models.VerifiedJourney) ([]BuddyCandidate, error) {
	j := caller.Journey
	if j.TrainNumber == "" || j.Class == "" || j.BoardingDate == "" {
		return nil, domain.NewAPIError(domain.CodeJourneyMissing, "Verified journey is missing train details. Please re-check your PNR.", http.StatusBadRequest)
	}

	rows, err := s.Journeys.SearchConfirmedBuddies(caller.PhoneNumber, j, matchResultLimit)
	if err != nil {
		return nil, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}

	out := make([]BuddyCandidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, BuddyCandidate{
			BuddyID:     row.Journey.ID,
			DisplayName: displayName(row.Name, row.Journey.PhoneNumber),
			Age:         resolveAge(row.Age, row.DOB),
			Journey:     row.Journey.Journey,
			StatusType:  row.Journey.StatusType,
			VerifiedAt:  row.Journey.VerifiedAt,
		})
	}
	return out, nil
}

// Request sends (or revives) a buddy request to the owner of the target
// verified journey. The recipient is always derived from the target record.
func (s BuddyService) Request(caller models.VerifiedJourney, buddyID int64, message string) (models.BuddyRequest, error) {
	target, err := s.Journeys.GetByID(buddyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.BuddyRequest{}, domain.NewAPIError(domain.CodeBuddyNotFound, "Buddy not found.", http.StatusNotFound)
		}
		return models.BuddyRequest{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}

	if target.PhoneNumber == caller.PhoneNumber {
		return models.BuddyRequest{}, domain.NewAPIError(domain.CodeInvalidRequest, "You cannot send a buddy request to yourself.", http.StatusBadRequest)
	}
	if target.StatusType != models.StatusCNF {
		return models.BuddyRequest{}, domain.NewAPIError(domain.CodeBuddyNotCNF, "This traveler's booking is not confirmed.", http.StatusBadRequest)
	}
	if !target.Journey.SameTrip(caller.Journey) {
		return models.BuddyRequest{}, domain.NewAPIError(domain.CodeTripMismatch, "This traveler is not on your train, class and date.", http.StatusBadRequest)
	}

	req, err := s.Requests.Upsert(caller.PhoneNumber, target.PhoneNumber, caller.PNR, message)
	if err != nil {
		return models.BuddyRequest{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return req, nil
}

// Respond applies an ACCEPT/REJECT/CANCEL action to a request. Receivers
// decide accept/reject, senders may only cancel. Settled requests can be
// re-answered; the latest response wins.
func (s BuddyService) Respond(callerPhone string, requestID int64, action string) (models.BuddyRequest, error) {
	status := models.StatusFromAction(action)
	if status == "" {
		return models.BuddyRequest{}, domain.NewAPIError(domain.CodeInvalidAction, "Action must be ACCEPT, REJECT or CANCEL.", http.StatusBadRequest)
	}

	req, err := s.Requests.GetByID(requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.BuddyRequest{}, domain.NewAPIError(domain.CodeRequestNotFound, "Request not found.", http.StatusNotFound)
		}
		return models.BuddyRequest{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}

	if err := authorizeTransition(status, callerPhone, req.FromPhoneNumber, req.ToPhoneNumber); err != nil {
		return models.BuddyRequest{}, err
	}

	if err := s.Requests.UpdateStatus(req.ID, status); err != nil {
		return models.BuddyRequest{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	req.Status = status
	return req, nil
}

// Incoming lists requests addressed to the caller on a PNR.
func (s BuddyService) Incoming(callerPhone, pnr string) ([]models.BuddyRequest, error) {
	reqs, err := s.Requests.ListIncoming(callerPhone, pnr, 0)
	if err != nil {
		return nil, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return reqs, nil
}

// Outgoing lists requests the caller sent on a PNR.
func (s BuddyService) Outgoing(callerPhone, pnr string) ([]models.BuddyRequest, error) {
	reqs, err := s.Requests.ListOutgoing(callerPhone, pnr, 0)
	if err != nil {
		return nil, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return reqs, nil
}

// authorizeTransition enforces who may move a request where: the receiver
// accepts or rejects, the sender cancels.
func authorizeTransition(status, callerPhone, fromPhone, toPhone string) error {
	switch status {
	case models.RequestAccepted, models.RequestRejected:
		if callerPhone != toPhone {
			return domain.NewAPIError(domain.CodeForbidden, "Only the recipient can accept or reject this request.", http.StatusForbidden)
		}
	case models.RequestCancelled:
		if callerPhone != fromPhone {
			return domain.NewAPIError(domain.CodeForbidden, "Only the sender can cancel this request.", http.StatusForbidden)
		}
	default:
		return domain.NewAPIError(domain.CodeInvalidAction, "Action must be ACCEPT, REJECT or CANCEL.", http.StatusBadRequest)
	}
	return nil
}

func displayName(name, phone string) string {
	if name != "" {
		return name
	}
	return utils.MaskPhone(phone)
}

func resolveAge(stored int, dob string) int {
	if stored > 0 {
		return stored
	}
	return utils.AgeFromDOB(dob, time.Now())
}
