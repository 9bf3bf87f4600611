package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "trainbuddy/internal/config"
	intdb "trainbuddy/internal/db"
	"trainbuddy/internal/domain/models"
)

type OfferRequestRepo struct {
	DB *sql.DB
}

func (r OfferRequestRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const offerRequestCols = `
	id,
	offer_id,
	from_phone_number,
	to_phone_number,
	pnr,
	COALESCE(message,''),
	status,
	created_at,
	updated_at`

func scanOfferRequest(scan func(dest ...any) error) (models.OfferSeatRequest, error) {
	var q models.OfferSeatRequest
	err := scan(
		&q.ID,
		&q.OfferID,
		&q.FromPhoneNumber,
		&q.ToPhoneNumber,
		&q.PNR,
		&q.Message,
		&q.Status,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	return q, err
}

// Upsert keeps at most one outstanding request per (offer, requester). A
// repeat request revives the row: status back to PENDING, message replaced.
func (r OfferRequestRepo) Upsert(offerID int64, from, to, pnr, message string) (models.OfferSeatRequest, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	pnr = strings.TrimSpace(pnr)
	if offerID <= 0 || from == "" || to == "" || pnr == "" {
		return models.OfferSeatRequest{}, fmt.Errorf("offer id, from, to and pnr are required")
	}

	db := r.db()
	_, err := db.Exec(`
		INSERT INTO offer_seat_requests
			(offer_id, from_phone_number, to_phone_number, pnr, message, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			message=VALUES(message),
			status=VALUES(status),
			updated_at=NOW()`,
		offerID, from, to, pnr, intdb.NullIfEmpty(strings.TrimSpace(message)), models.RequestPending)
	if err != nil {
		return models.OfferSeatRequest{}, err
	}

	row := db.QueryRow(`
		SELECT `+offerRequestCols+`
		FROM offer_seat_requests
		WHERE offer_id=? AND from_phone_number=?
		LIMIT 1`, offerID, from)
	return scanOfferRequest(row.Scan)
}

func (r OfferRequestRepo) GetByID(id int64) (models.OfferSeatRequest, error) {
	if id <= 0 {
		return models.OfferSeatRequest{}, sql.ErrNoRows
	}
	row := r.db().QueryRow(`
		SELECT `+offerRequestCols+`
		FROM offer_seat_requests
		WHERE id=?
		LIMIT 1`, id)
	return scanOfferRequest(row.Scan)
}

func (r OfferRequestRepo) UpdateStatus(id int64, status string) error {
	if id <= 0 {
		return fmt.Errorf("id is required")
	}
	_, err := r.db().Exec(`UPDATE offer_seat_requests SET status=?, updated_at=NOW() WHERE id=?`, status, id)
	return err
}

func (r OfferRequestRepo) ListIncoming(to, pnr string, limit int) ([]models.OfferSeatRequest, error) {
	return r.list(`to_phone_number`, to, pnr, limit)
}

func (r OfferRequestRepo) ListOutgoing(from, pnr string, limit int) ([]models.OfferSeatRequest, error) {
	return r.list(`from_phone_number`, from, pnr, limit)
}

func (r OfferRequestRepo) list(phoneCol, phone, pnr string, limit int) ([]models.OfferSeatRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	rows, err := r.db().Query(`
		SELECT `+offerRequestCols+`
		FROM offer_seat_requests
		WHERE `+phoneCol+`=? AND pnr=?
		ORDER BY created_at DESC
		LIMIT ?`, strings.TrimSpace(phone), strings.TrimSpace(pnr), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.OfferSeatRequest{}
	for rows.Next() {
		q, err := scanOfferRequest(rows.Scan)
		if err != nil {
			return out, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
