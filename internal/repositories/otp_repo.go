package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "trainbuddy/internal/config"
)

// OtpSession is one outstanding OTP challenge per phone number.
type OtpSession struct {
	ID            int64
	PhoneNumber   string
	CodeHash      string
	ExpiresAt     time.Time
	AttemptCount  int
	LastAttemptAt sql.NullTime
}

type OtpRepo struct {
	DB *sql.DB
}

func (r OtpRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// CreateOrReplace starts a fresh challenge for the phone number, atomically
// discarding any previous one (phone_number is unique).
func (r OtpRepo) CreateOrReplace(phoneNumber, codeHash string, expiresAt time.Time) error {
	phone := strings.TrimSpace(phoneNumber)
	if phone == "" || codeHash == "" {
		return fmt.Errorf("phone number and code hash are required")
	}
	_, err := r.db().Exec(`
		INSERT INTO otp_sessions
			(phone_number, code_hash, expires_at, attempt_count, last_attempt_at, consumed_at, created_at)
		VALUES (?, ?, ?, 0, NULL, NULL, NOW())
		ON DUPLICATE KEY UPDATE
			code_hash=VALUES(code_hash),
			expires_at=VALUES(expires_at),
			attempt_count=0,
			last_attempt_at=NULL,
			consumed_at=NULL,
			created_at=NOW()`,
		phone, codeHash, expiresAt)
	return err
}

// GetActiveByPhone returns the unconsumed, unexpired challenge for a phone
// number, if any.
func (r OtpRepo) GetActiveByPhone(phoneNumber string) (OtpSession, error) {
	var s OtpSession
	err := r.db().QueryRow(`
		SELECT id, phone_number, code_hash, expires_at, attempt_count, last_attempt_at
		FROM otp_sessions
		WHERE phone_number=? AND consumed_at IS NULL AND expires_at > NOW()
		LIMIT 1`, strings.TrimSpace(phoneNumber)).Scan(
		&s.ID,
		&s.PhoneNumber,
		&s.CodeHash,
		&s.ExpiresAt,
		&s.AttemptCount,
		&s.LastAttemptAt,
	)
	return s, err
}

// IncrementAttempt bumps the attempt counter and returns the new count.
func (r OtpRepo) IncrementAttempt(id int64) (int, error) {
	db := r.db()
	if _, err := db.Exec(`
		UPDATE otp_sessions SET attempt_count=attempt_count+1, last_attempt_at=NOW()
		WHERE id=?`, id); err != nil {
		return 0, err
	}
	var count int
	err := db.QueryRow(`SELECT attempt_count FROM otp_sessions WHERE id=?`, id).Scan(&count)
	return count, err
}

// MarkConsumed closes the challenge so the code cannot be replayed.
func (r OtpRepo) MarkConsumed(id int64) error {
	_, err := r.db().Exec(`UPDATE otp_sessions SET consumed_at=NOW() WHERE id=?`, id)
	return err
}
