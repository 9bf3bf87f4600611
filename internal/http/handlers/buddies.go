package handlers

import (
	"trainbuddy/internal/domain"
	"trainbuddy/internal/http/middleware"
	"trainbuddy/internal/services"

	"github.com/gin-gonic/gin"
)

// BuddiesHandler exposes buddy matching. Every route sits behind the auth
// and verified-PNR gates; the caller's verified journey arrives via context.
type BuddiesHandler struct {
	Buddies services.BuddyService
}

func (h BuddiesHandler) Search(c *gin.Context) {
	journey, ok := middleware.GetVerifiedJourney(c)
	if !ok {
		RespondValidation(c, domain.CodePNRNotVerified, "Please verify this PNR first.")
		return
	}

	candidates, err := h.Buddies.Search(journey)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"buddies": candidates, "count": len(candidates)})
}

type buddyRequestBody struct {
	PNR     string `json:"pnr"`
	BuddyID int64  `json:"buddyId"`
	Message string `json:"message"`
}

func (h BuddiesHandler) Request(c *gin.Context) {
	journey, ok := middleware.GetVerifiedJourney(c)
	if !ok {
		RespondValidation(c, domain.CodePNRNotVerified, "Please verify this PNR first.")
		return
	}

	var body buddyRequestBody
	if !BindJSONOrError(c, &body) {
		return
	}
	if body.BuddyID <= 0 {
		RespondValidation(c, domain.CodeInvalidInput, "buddyId is required.")
		return
	}

	req, err := h.Buddies.Request(journey, body.BuddyID, body.Message)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"request": req})
}

type respondBody struct {
	RequestID int64  `json:"requestId"`
	Action    string `json:"action"`
}

func (h BuddiesHandler) Respond(c *gin.Context) {
	var body respondBody
	if !BindJSONOrError(c, &body) {
		return
	}
	if body.RequestID <= 0 {
		RespondValidation(c, domain.CodeInvalidInput, "requestId is required.")
		return
	}

	req, err := h.Buddies.Respond(middleware.GetPhoneNumber(c), body.RequestID, body.Action)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"request": req})
}

func (h BuddiesHandler) Incoming(c *gin.Context) {
	journey, _ := middleware.GetVerifiedJourney(c)
	reqs, err := h.Buddies.Incoming(middleware.GetPhoneNumber(c), journey.PNR)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"requests": reqs, "count": len(reqs)})
}

func (h BuddiesHandler) Outgoing(c *gin.Context) {
	journey, _ := middleware.GetVerifiedJourney(c)
	reqs, err := h.Buddies.Outgoing(middleware.GetPhoneNumber(c), journey.PNR)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"requests": reqs, "count": len(reqs)})
}
