package handlers

import (
	"net/http"

	intconfig "trainbuddy/internal/config"
	"trainbuddy/internal/domain"
	"trainbuddy/internal/http/middleware"
	"trainbuddy/internal/repositories"
	"trainbuddy/internal/services"
	"trainbuddy/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler wires OTP issuance and verification to token issuance.
type AuthHandler struct {
	Otp    services.OtpService
	Tokens *services.TokenService
	Users  repositories.UserRepo
}

type sendOtpRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// SendOTP starts a login challenge for an Indian mobile number.
func (h AuthHandler) SendOTP(c *gin.Context) {
	var req sendOtpRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	phone := utils.NormalizeIndianPhone(req.PhoneNumber)
	if phone == "" {
		RespondValidation(c, domain.CodeInvalidPhone, "Enter a valid Indian mobile number.")
		return
	}

	if err := intconfig.EnsureDB(); err != nil {
		RespondAPIError(c, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable))
		return
	}

	if err := h.Otp.SendOTP(phone); err != nil {
		RespondAPIError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "send_otp", "phone="+phone)
	OK(c, gin.H{"message": "OTP sent successfully."})
}

type verifyOtpRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

// VerifyOTP checks the challenge, provisions the user row and returns a JWT.
func (h AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOtpRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	phone := utils.NormalizeIndianPhone(req.PhoneNumber)
	if phone == "" {
		RespondValidation(c, domain.CodeInvalidPhone, "Enter a valid Indian mobile number.")
		return
	}
	if len(req.OTP) != 6 {
		RespondValidation(c, domain.CodeOTPInvalid, "Enter the 6-digit OTP.")
		return
	}

	if err := h.Otp.VerifyOTP(phone, req.OTP); err != nil {
		RespondAPIError(c, err)
		return
	}

	if err := h.Users.EnsureByPhone(phone); err != nil {
		RespondAPIError(c, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable))
		return
	}

	token, err := h.Tokens.SignAccessToken(phone)
	if err != nil {
		RespondAPIError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "verify_otp", "phone="+phone)
	OK(c, gin.H{
		"token":       token,
		"phoneNumber": phone,
	})
}
