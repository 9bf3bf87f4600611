package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "trainbuddy/internal/config"
	intdb "trainbuddy/internal/db"
	"trainbuddy/internal/domain/models"
)

type OfferRepo struct {
	DB *sql.DB
}

func (r OfferRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const offerCols = `
	id,
	phone_number,
	pnr,
	COALESCE(train_number,''),
	COALESCE(train_name,''),
	COALESCE(class,''),
	COALESCE(from_station,''),
	COALESCE(to_station,''),
	COALESCE(boarding_date,''),
	seats_available,
	COALESCE(note,''),
	status,
	created_at,
	updated_at`

func scanOffer(scan func(dest ...any) error) (models.OfferSeat, error) {
	var o models.OfferSeat
	err := scan(
		&o.ID,
		&o.PhoneNumber,
		&o.PNR,
		&o.Journey.TrainNumber,
		&o.Journey.TrainName,
		&o.Journey.Class,
		&o.Journey.From,
		&o.Journey.To,
		&o.Journey.BoardingDate,
		&o.SeatsAvailable,
		&o.Note,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

// Upsert creates or refreshes the single offer per (phone, pnr). The journey
// snapshot and seat count are overwritten and status always resets to ACTIVE,
// reactivating a closed offer.
func (r OfferRepo) Upsert(phone, pnr string, j models.Journey, seats int, note string) (models.OfferSeat, error) {
	phone = strings.TrimSpace(phone)
	pnr = strings.TrimSpace(pnr)
	if phone == "" || pnr == "" {
		return models.OfferSeat{}, fmt.Errorf("phone number and pnr are required")
	}

	db := r.db()
	_, err := db.Exec(`
		INSERT INTO offer_seats
			(phone_number, pnr, train_number, train_name, class, from_station, to_station, boarding_date, seats_available, note, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			train_number=VALUES(train_number),
			train_name=VALUES(train_name),
			class=VALUES(class),
			from_station=VALUES(from_station),
			to_station=VALUES(to_station),
			boarding_date=VALUES(boarding_date),
			seats_available=VALUES(seats_available),
			note=VALUES(note),
			status=VALUES(status),
			updated_at=NOW()`,
		phone, pnr,
		j.TrainNumber, j.TrainName, j.Class, j.From, j.To, j.BoardingDate,
		models.ClampSeats(seats), intdb.NullIfEmpty(strings.TrimSpace(note)), models.OfferActive)
	if err != nil {
		return models.OfferSeat{}, err
	}

	row := db.QueryRow(`
		SELECT `+offerCols+`
		FROM offer_seats
		WHERE phone_number=? AND pnr=?
		LIMIT 1`, phone, pnr)
	return scanOffer(row.Scan)
}

func (r OfferRepo) GetByID(id int64) (models.OfferSeat, error) {
	if id <= 0 {
		return models.OfferSeat{}, sql.ErrNoRows
	}
	row := r.db().QueryRow(`
		SELECT `+offerCols+`
		FROM offer_seats
		WHERE id=?
		LIMIT 1`, id)
	return scanOffer(row.Scan)
}

// GetByPhonePNR returns the caller's own offer for a ticket.
func (r OfferRepo) GetByPhonePNR(phone, pnr string) (models.OfferSeat, error) {
	row := r.db().QueryRow(`
		SELECT `+offerCols+`
		FROM offer_seats
		WHERE phone_number=? AND pnr=?
		LIMIT 1`, strings.TrimSpace(phone), strings.TrimSpace(pnr))
	return scanOffer(row.Scan)
}

// SearchActive lists other users' ACTIVE offers on the same train/class/date,
// most recently updated first.
func (r OfferRepo) SearchActive(excludePhone string, j models.Journey, limit int) ([]models.OfferSeat, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db().Query(`
		SELECT `+offerCols+`
		FROM offer_seats
		WHERE phone_number <> ?
		  AND train_number = ?
		  AND class = ?
		  AND boarding_date = ?
		  AND status = ?
		ORDER BY updated_at DESC
		LIMIT ?`,
		strings.TrimSpace(excludePhone), j.TrainNumber, j.Class, j.BoardingDate, models.OfferActive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.OfferSeat{}
	for rows.Next() {
		o, err := scanOffer(rows.Scan)
		if err != nil {
			return out, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
