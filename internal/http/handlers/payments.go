package handlers

import (
	"strings"

	"trainbuddy/internal/domain"

	"github.com/gin-gonic/gin"
)

// PaymentsHandler is the premium-purchase stub. Shapes match the client
// contract; a real provider integration replaces the canned values.
type PaymentsHandler struct{}

type createIntentBody struct {
	PNR string `json:"pnr"`
}

func (PaymentsHandler) CreateIntent(c *gin.Context) {
	var body createIntentBody
	if !BindJSONOrError(c, &body) {
		return
	}
	if strings.TrimSpace(body.PNR) == "" {
		RespondValidation(c, domain.CodeInvalidInput, "PNR is required.")
		return
	}

	OK(c, gin.H{
		"payment": gin.H{
			"id":              "pay_123",
			"amount":          39900,
			"currency":        "INR",
			"status":          "PENDING",
			"providerOrderId": "provider_order_abc",
		},
	})
}

type confirmBody struct {
	PaymentID         string `json:"paymentId"`
	ProviderPaymentID string `json:"providerPaymentId"`
	ProviderSignature string `json:"providerSignature"`
}

func (PaymentsHandler) Confirm(c *gin.Context) {
	var body confirmBody
	if !BindJSONOrError(c, &body) {
		return
	}
	if body.PaymentID == "" || body.ProviderPaymentID == "" || body.ProviderSignature == "" {
		RespondValidation(c, domain.CodeInvalidInput, "Missing payment confirmation fields.")
		return
	}

	OK(c, gin.H{
		"payment": gin.H{
			"id":     body.PaymentID,
			"status": "SUCCESS",
		},
		"premium": gin.H{
			"active": true,
			"pnr":    "1234567890",
		},
	})
}
