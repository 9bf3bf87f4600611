package middleware

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	intconfig "trainbuddy/internal/config"
	"trainbuddy/internal/domain"
	"trainbuddy/internal/domain/models"
	"trainbuddy/internal/repositories"

	"github.com/gin-gonic/gin"
)

const verifiedJourneyKey = "verified_journey"

// PNRExtractor pulls the PNR out of a request; the gate takes one so routes
// can carry it in the body or the query string.
type PNRExtractor func(c *gin.Context) string

// PNRFromBody reads pnr from a JSON body without consuming it for the
// handler behind the gate.
func PNRFromBody(c *gin.Context) string {
	raw, err := c.GetRawData()
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))

	var body struct {
		PNR string `json:"pnr"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	return strings.TrimSpace(body.PNR)
}

// PNRFromQuery reads pnr from the query string.
func PNRFromQuery(c *gin.Context) string {
	return strings.TrimSpace(c.Query("pnr"))
}

// RequireVerifiedPNR is the gate in front of every matching feature: the
// caller must have a VerifiedJourney for (their phone, the request's PNR).
// On pass the record lands in the context for downstream use. The gate is a
// precondition check only; it never calls the PNR provider.
func RequireVerifiedPNR(journeys repositories.VerifiedJourneyRepo, extract PNRExtractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		phone := GetPhoneNumber(c)
		if phone == "" {
			abortWithCode(c, domain.CodeUnauthorized, "Authorization token is required.", http.StatusUnauthorized)
			return
		}

		pnr := extract(c)
		if len(pnr) != 10 {
			abortWithCode(c, domain.CodeInvalidPNR, "Enter a valid 10-digit PNR.", http.StatusBadRequest)
			return
		}

		if intconfig.DB == nil {
			abortWithCode(c, domain.CodeVerificationDown, "Verification service is unavailable. Please try again.", http.StatusServiceUnavailable)
			return
		}

		v, err := journeys.GetByPhonePNR(phone, pnr)
		if err != nil {
			if err == sql.ErrNoRows {
				abortWithCode(c, domain.CodePNRNotVerified, "Please verify this PNR before using matching features.", http.StatusBadRequest)
				return
			}
			abortWithCode(c, domain.CodeVerificationDown, "Verification service is unavailable. Please try again.", http.StatusServiceUnavailable)
			return
		}

		c.Set(verifiedJourneyKey, v)
		c.Next()
	}
}

// GetVerifiedJourney returns the journey attached by RequireVerifiedPNR.
func GetVerifiedJourney(c *gin.Context) (models.VerifiedJourney, bool) {
	if v, ok := c.Get(verifiedJourneyKey); ok {
		if j, ok := v.(models.VerifiedJourney); ok {
			return j, true
		}
	}
	return models.VerifiedJourney{}, false
}
