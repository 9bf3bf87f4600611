package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "trainbuddy/internal/config"
	intdb "trainbuddy/internal/db"
	"trainbuddy/internal/domain/models"
)

type BuddyRequestRepo struct {
	DB *sql.DB
}

func (r BuddyRequestRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const buddyRequestCols = `
	id,
	from_phone_number,
	to_phone_number,
	pnr,
	COALESCE(message,''),
	status,
	created_at,
	updated_at`

func scanBuddyRequest(scan func(dest ...any) error) (models.BuddyRequest, error) {
	var b models.BuddyRequest
	err := scan(
		&b.ID,
		&b.FromPhoneNumber,
		&b.ToPhoneNumber,
		&b.PNR,
		&b.Message,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

// Upsert creates the request or revives an existing one for the same
// (from, to, pnr): status goes back to PENDING and the message is replaced.
// Single statement so racing duplicates collapse onto one row.
func (r BuddyRequestRepo) Upsert(from, to, pnr, message string) (models.BuddyRequest, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	pnr = strings.TrimSpace(pnr)
	if from == "" || to == "" || pnr == "" {
		return models.BuddyRequest{}, fmt.Errorf("from, to and pnr are required")
	}

	db := r.db()
	_, err := db.Exec(`
		INSERT INTO buddy_requests
			(from_phone_number, to_phone_number, pnr, message, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			message=VALUES(message),
			status=VALUES(status),
			updated_at=NOW()`,
		from, to, pnr, intdb.NullIfEmpty(strings.TrimSpace(message)), models.RequestPending)
	if err != nil {
		return models.BuddyRequest{}, err
	}

	row := db.QueryRow(`
		SELECT `+buddyRequestCols+`
		FROM buddy_requests
		WHERE from_phone_number=? AND to_phone_number=? AND pnr=?
		LIMIT 1`, from, to, pnr)
	return scanBuddyRequest(row.Scan)
}

func (r BuddyRequestRepo) GetByID(id int64) (models.BuddyRequest, error) {
	if id <= 0 {
		return models.BuddyRequest{}, sql.ErrNoRows
	}
	row := r.db().QueryRow(`
		SELECT `+buddyRequestCols+`
		FROM buddy_requests
		WHERE id=?
		LIMIT 1`, id)
	return scanBuddyRequest(row.Scan)
}

func (r BuddyRequestRepo) UpdateStatus(id int64, status string) error {
	if id <= 0 {
		return fmt.Errorf("id is required")
	}
	_, err := r.db().Exec(`UPDATE buddy_requests SET status=?, updated_at=NOW() WHERE id=?`, status, id)
	return err
}

// ListIncoming returns requests addressed to a phone number on a PNR, newest
// first.
func (r BuddyRequestRepo) ListIncoming(to, pnr string, limit int) ([]models.BuddyRequest, error) {
	return r.list(`to_phone_number`, to, pnr, limit)
}

// ListOutgoing returns requests sent by a phone number on a PNR, newest first.
func (r BuddyRequestRepo) ListOutgoing(from, pnr string, limit int) ([]models.BuddyRequest, error) {
	return r.list(`from_phone_number`, from, pnr, limit)
}

func (r BuddyRequestRepo) list(phoneCol, phone, pnr string, limit int) ([]models.BuddyRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	rows, err := r.db().Query(`
		SELECT `+buddyRequestCols+`
		FROM buddy_requests
		WHERE `+phoneCol+`=? AND pnr=?
		ORDER BY created_at DESC
		LIMIT ?`, strings.TrimSpace(phone), strings.TrimSpace(pnr), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BuddyRequest{}
	for rows.Next() {
		b, err := scanBuddyRequest(rows.Scan)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
