package services

import (
	"testing"
	"time"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

type recordingSender struct {
	phone string
	code  string
}

func (r *recordingSender) SendOTP(phoneNumber, code string) error {
	r.phone = phoneNumber
	r.code = code
	return nil
}

func newOtpService(t *testing.T) (OtpService, sqlmock.Sqlmock, *recordingSender, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	sender := &recordingSender{}
	svc := OtpService{Repo: repositories.OtpRepo{DB: db}, Sender: sender}
	return svc, mock, sender, func() { db.Close() }
}

func otpSessionRow(id int64, phone, hash string, attempts int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "phone_number", "code_hash", "expires_at", "attempt_count", "last_attempt_at",
	}).AddRow(id, phone, hash, time.Now().Add(4*time.Minute), attempts, nil)
}

func TestSendOTPStoresHashNotCode(t *testing.T) {
	svc, mock, sender, done := newOtpService(t)
	defer done()

	mock.ExpectExec("INSERT INTO otp_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := svc.SendOTP("+919876543210"); err != nil {
		t.Fatalf("send error: %v", err)
	}
	if sender.phone != "+919876543210" {
		t.Fatalf("sender got phone %q", sender.phone)
	}
	if len(sender.code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", sender.code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyOTPConsumesOnSuccess(t *testing.T) {
	svc, mock, _, done := newOtpService(t)
	defer done()

	hash, err := bcrypt.GenerateFromPassword([]byte("482913"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	mock.ExpectQuery("FROM otp_sessions").
		WillReturnRows(otpSessionRow(1, "+919876543210", string(hash), 0))
	mock.ExpectExec("UPDATE otp_sessions SET attempt_count").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT attempt_count FROM otp_sessions").
		WillReturnRows(sqlmock.NewRows([]string{"attempt_count"}).AddRow(1))
	mock.ExpectExec("UPDATE otp_sessions SET consumed_at").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.VerifyOTP("+919876543210", "482913"); err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc, mock, _, done := newOtpService(t)
	defer done()

	hash, _ := bcrypt.GenerateFromPassword([]byte("482913"), bcrypt.MinCost)

	mock.ExpectQuery("FROM otp_sessions").
		WillReturnRows(otpSessionRow(1, "+919876543210", string(hash), 0))
	mock.ExpectExec("UPDATE otp_sessions SET attempt_count").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT attempt_count FROM otp_sessions").
		WillReturnRows(sqlmock.NewRows([]string{"attempt_count"}).AddRow(1))

	err := svc.VerifyOTP("+919876543210", "000000")
	if !domain.IsCode(err, domain.CodeOTPInvalid) {
		t.Fatalf("expected OTP_INVALID, got %v", err)
	}
}

func TestVerifyOTPNoActiveSession(t *testing.T) {
	svc, mock, _, done := newOtpService(t)
	defer done()

	mock.ExpectQuery("FROM otp_sessions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.VerifyOTP("+919876543210", "482913")
	if !domain.IsCode(err, domain.CodeOTPInvalid) {
		t.Fatalf("expected OTP_INVALID, got %v", err)
	}
}

func TestVerifyOTPAttemptCapConsumesSession(t *testing.T) {
	svc, mock, _, done := newOtpService(t)
	defer done()

	hash, _ := bcrypt.GenerateFromPassword([]byte("482913"), bcrypt.MinCost)

	mock.ExpectQuery("FROM otp_sessions").
		WillReturnRows(otpSessionRow(1, "+919876543210", string(hash), 5))
	mock.ExpectExec("UPDATE otp_sessions SET attempt_count").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT attempt_count FROM otp_sessions").
		WillReturnRows(sqlmock.NewRows([]string{"attempt_count"}).AddRow(6))
	mock.ExpectExec("UPDATE otp_sessions SET consumed_at").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.VerifyOTP("+919876543210", "482913")
	if !domain.IsCode(err, domain.CodeOTPInvalid) {
		t.Fatalf("expected OTP_INVALID after attempt cap, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDevModeUsesFixedCode(t *testing.T) {
	svc, mock, sender, done := newOtpService(t)
	defer done()
	svc.DevMode = true

	mock.ExpectExec("INSERT INTO otp_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := svc.SendOTP("+919876543210"); err != nil {
		t.Fatalf("send error: %v", err)
	}
	// dev mode never hands the code to the SMS sender
	if sender.code != "" {
		t.Fatalf("expected no send in dev mode, sender got %q", sender.code)
	}
}
