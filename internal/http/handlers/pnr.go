package handlers

import (
	"fmt"
	"net/http"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/http/middleware"
	"trainbuddy/internal/services"
	"trainbuddy/internal/utils"

	"github.com/gin-gonic/gin"
)

// PnrHandler serves ticket-status lookups and the journey summary PDF.
type PnrHandler struct {
	Pnr  func(requestID string) services.PnrService
	Docs func(requestID string) services.DocsService
}

type pnrLookupRequest struct {
	PNR string `json:"pnr"`
}

// Lookup fetches the PNR status and records the verification. The persist
// step is best-effort: a failed write logs a warning but never fails the
// lookup.
func (h PnrHandler) Lookup(c *gin.Context) {
	var req pnrLookupRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	reqID := middleware.GetRequestID(c)
	svc := h.Pnr(reqID)

	result, err := svc.Lookup(req.PNR)
	if err != nil {
		RespondAPIError(c, err)
		return
	}

	phone := middleware.GetPhoneNumber(c)
	if err := svc.PersistVerification(phone, result); err != nil {
		utils.LogEvent(reqID, "pnr", "persist_warn", fmt.Sprintf("pnr=%s err=%v", result.PNR, err))
	}

	OK(c, gin.H{
		"pnr":     result.PNR,
		"journey": result.Journey,
		"status":  result.Status,
		"chart":   result.Chart,
		"clarity": result.Clarity,
	})
}

// Summary streams the verified journey as a PDF attachment.
func (h PnrHandler) Summary(c *gin.Context) {
	journey, ok := middleware.GetVerifiedJourney(c)
	if !ok {
		RespondValidation(c, domain.CodePNRNotVerified, "Please verify this PNR first.")
		return
	}

	svc := h.Docs(middleware.GetRequestID(c))
	pdf, filename, err := svc.GenerateJourneySummary(journey.PhoneNumber, journey.PNR)
	if err != nil {
		RespondAPIError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
