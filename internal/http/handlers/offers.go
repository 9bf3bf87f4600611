package handlers

import (
	"trainbuddy/internal/domain"
	"trainbuddy/internal/http/middleware"
	"trainbuddy/internal/services"

	"github.com/gin-gonic/gin"
)

// OffersHandler exposes the seat-offer marketplace behind the auth and
// verified-PNR gates.
type OffersHandler struct {
	Offers services.OfferService
}

type offerCreateBody struct {
	PNR            string `json:"pnr"`
	SeatsAvailable int    `json:"seatsAvailable"`
	Note           string `json:"note"`
}

func (h OffersHandler) Create(c *gin.Context) {
	journey, ok := middleware.GetVerifiedJourney(c)
	if !ok {
		RespondValidation(c, domain.CodePNRNotVerified, "Please verify this PNR first.")
		return
	}

	var body offerCreateBody
	if !BindJSONOrError(c, &body) {
		return
	}

	offer, err := h.Offers.Create(journey, body.SeatsAvailable, body.Note)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"offer": offer})
}

func (h OffersHandler) Search(c *gin.Context) {
	journey, ok := middleware.GetVerifiedJourney(c)
	if !ok {
		RespondValidation(c, domain.CodePNRNotVerified, "Please verify this PNR first.")
		return
	}

	offers, err := h.Offers.Search(journey)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"offers": offers, "count": len(offers)})
}

type offerRequestBody struct {
	PNR     string `json:"pnr"`
	OfferID int64  `json:"offerId"`
	Message string `json:"message"`
}

func (h OffersHandler) Request(c *gin.Context) {
	journey, ok := middleware.GetVerifiedJourney(c)
	if !ok {
		RespondValidation(c, domain.CodePNRNotVerified, "Please verify this PNR first.")
		return
	}

	var body offerRequestBody
	if !BindJSONOrError(c, &body) {
		return
	}
	if body.OfferID <= 0 {
		RespondValidation(c, domain.CodeInvalidInput, "offerId is required.")
		return
	}

	req, err := h.Offers.Request(journey, body.OfferID, body.Message)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"request": req})
}

func (h OffersHandler) Respond(c *gin.Context) {
	var body respondBody
	if !BindJSONOrError(c, &body) {
		return
	}
	if body.RequestID <= 0 {
		RespondValidation(c, domain.CodeInvalidInput, "requestId is required.")
		return
	}

	req, err := h.Offers.Respond(middleware.GetPhoneNumber(c), body.RequestID, body.Action)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"request": req})
}

func (h OffersHandler) My(c *gin.Context) {
	journey, ok := middleware.GetVerifiedJourney(c)
	if !ok {
		RespondValidation(c, domain.CodePNRNotVerified, "Please verify this PNR first.")
		return
	}

	offer, found, err := h.Offers.My(middleware.GetPhoneNumber(c), journey.PNR)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	if !found {
		OK(c, gin.H{"offer": nil})
		return
	}
	OK(c, gin.H{"offer": offer})
}

func (h OffersHandler) Incoming(c *gin.Context) {
	journey, _ := middleware.GetVerifiedJourney(c)
	reqs, err := h.Offers.Incoming(middleware.GetPhoneNumber(c), journey.PNR)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"requests": reqs, "count": len(reqs)})
}

func (h OffersHandler) Outgoing(c *gin.Context) {
	journey, _ := middleware.GetVerifiedJourney(c)
	reqs, err := h.Offers.Outgoing(middleware.GetPhoneNumber(c), journey.PNR)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"requests": reqs, "count": len(reqs)})
}
