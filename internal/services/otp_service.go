package services

import (
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

const (
	otpExpiry      = 5 * time.Minute
	otpMaxAttempts = 5
	devModeCode    = "123456"
)

// OtpSender delivers one-time codes. The SMS provider integration lives
// behind this interface; the default implementation only logs that a send
// happened.
type OtpSender interface {
	SendOTP(phoneNumber, code string) error
}

// LogOtpSender stands in for a real SMS gateway. The code itself is never
// logged.
type LogOtpSender struct{}

func (LogOtpSender) SendOTP(phoneNumber, _ string) error {
	log.Printf("[OTP] action=send phone=%s", phoneNumber)
	return nil
}

// OtpService issues and verifies phone challenges. Codes are stored bcrypt
// hashed; a session dies after 5 attempts or 5 minutes, and is consumed on
// success.
type OtpService struct {
	Repo    repositories.OtpRepo
	Sender  OtpSender
	DevMode bool
}

func (s OtpService) sender() OtpSender {
	if s.Sender != nil {
		return s.Sender
	}
	return LogOtpSender{}
}

// SendOTP starts a fresh challenge for the phone number, replacing any
// outstanding one.
func (s OtpService) SendOTP(phoneNumber string) error {
	code := generateOTPCode()
	if s.DevMode {
		code = devModeCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return domain.NewAPIError(domain.CodeOTPSendFailed, "Failed to prepare OTP.", http.StatusInternalServerError)
	}
	if err := s.Repo.CreateOrReplace(phoneNumber, string(hash), time.Now().Add(otpExpiry)); err != nil {
		return domain.NewAPIError(domain.CodeOTPSendFailed, "Failed to send OTP. Please try again.", http.StatusInternalServerError)
	}
	if s.DevMode {
		return nil
	}
	if err := s.sender().SendOTP(phoneNumber, code); err != nil {
		return domain.NewAPIError(domain.CodeOTPSendFailed, "Failed to send OTP. Please try again.", http.StatusInternalServerError)
	}
	return nil
}

// VerifyOTP checks the code against the active challenge and consumes it.
func (s OtpService) VerifyOTP(phoneNumber, code string) error {
	invalid := domain.NewAPIError(domain.CodeOTPInvalid, "Invalid OTP.", http.StatusUnauthorized)

	session, err := s.Repo.GetActiveByPhone(phoneNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return invalid
		}
		return domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}

	count, err := s.Repo.IncrementAttempt(session.ID)
	if err != nil {
		return domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	if count > otpMaxAttempts {
		_ = s.Repo.MarkConsumed(session.ID)
		return invalid
	}

	if bcrypt.CompareHashAndPassword([]byte(session.CodeHash), []byte(code)) != nil {
		return invalid
	}

	if err := s.Repo.MarkConsumed(session.ID); err != nil {
		return domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return nil
}

func generateOTPCode() string {
	return fmt.Sprintf("%06d", rand.Intn(900000)+100000)
}
