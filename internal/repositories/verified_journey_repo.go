package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "trainbuddy/internal/config"
	"trainbuddy/internal/domain/models"
)

type VerifiedJourneyRepo struct {
	DB *sql.DB
}

func (r VerifiedJourneyRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const verifiedJourneyCols = `
	id,
	phone_number,
	pnr,
	COALESCE(train_number,''),
	COALESCE(train_name,''),
	COALESCE(class,''),
	COALESCE(from_station,''),
	COALESCE(to_station,''),
	COALESCE(boarding_date,''),
	COALESCE(status_type,''),
	verified_at`

func scanVerifiedJourney(row *sql.Row) (models.VerifiedJourney, error) {
	var v models.VerifiedJourney
	err := row.Scan(
		&v.ID,
		&v.PhoneNumber,
		&v.PNR,
		&v.Journey.TrainNumber,
		&v.Journey.TrainName,
		&v.Journey.Class,
		&v.Journey.From,
		&v.Journey.To,
		&v.Journey.BoardingDate,
		&v.StatusType,
		&v.VerifiedAt,
	)
	return v, err
}

// Upsert records the latest successful lookup for (phone, pnr). One atomic
// statement; racing verifications land on the same row.
func (r VerifiedJourneyRepo) Upsert(v models.VerifiedJourney) error {
	phone := strings.TrimSpace(v.PhoneNumber)
	pnr := strings.TrimSpace(v.PNR)
	if phone == "" || pnr == "" {
		return fmt.Errorf("phone number and pnr are required")
	}

	_, err := r.db().Exec(`
		INSERT INTO verified_journeys
			(phone_number, pnr, train_number, train_name, class, from_station, to_station, boarding_date, status_type, verified_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			train_number=VALUES(train_number),
			train_name=VALUES(train_name),
			class=VALUES(class),
			from_station=VALUES(from_station),
			to_station=VALUES(to_station),
			boarding_date=VALUES(boarding_date),
			status_type=VALUES(status_type),
			verified_at=NOW(),
			updated_at=NOW()`,
		phone, pnr,
		v.Journey.TrainNumber, v.Journey.TrainName, v.Journey.Class,
		v.Journey.From, v.Journey.To, v.Journey.BoardingDate,
		v.StatusType,
	)
	return err
}

// GetByPhonePNR fetches the verification record backing the gate.
func (r VerifiedJourneyRepo) GetByPhonePNR(phoneNumber, pnr string) (models.VerifiedJourney, error) {
	row := r.db().QueryRow(`
		SELECT `+verifiedJourneyCols+`
		FROM verified_journeys
		WHERE phone_number=? AND pnr=?
		LIMIT 1`, strings.TrimSpace(phoneNumber), strings.TrimSpace(pnr))
	return scanVerifiedJourney(row)
}

// GetByID fetches a verification record; used to resolve buddy targets.
func (r VerifiedJourneyRepo) GetByID(id int64) (models.VerifiedJourney, error) {
	if id <= 0 {
		return models.VerifiedJourney{}, sql.ErrNoRows
	}
	row := r.db().QueryRow(`
		SELECT `+verifiedJourneyCols+`
		FROM verified_journeys
		WHERE id=?
		LIMIT 1`, id)
	return scanVerifiedJourney(row)
}

// BuddyRow is a verified journey joined with the owner's profile fields
// needed for the candidate list.
type BuddyRow struct {
	Journey models.VerifiedJourney
	Name    string
	Age     int
	DOB     string
}

// SearchConfirmedBuddies returns other users' confirmed verifications on the
// same train/class/date, most recently verified first.
func (r VerifiedJourneyRepo) SearchConfirmedBuddies(excludePhone string, j models.Journey, limit int) ([]BuddyRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db().Query(`
		SELECT
			vj.id,
			vj.phone_number,
			vj.pnr,
			COALESCE(vj.train_number,''),
			COALESCE(vj.train_name,''),
			COALESCE(vj.class,''),
			COALESCE(vj.from_station,''),
			COALESCE(vj.to_station,''),
			COALESCE(vj.boarding_date,''),
			COALESCE(vj.status_type,''),
			vj.verified_at,
			COALESCE(u.name,''),
			COALESCE(u.age,0),
			COALESCE(u.dob,'')
		FROM verified_journeys vj
		LEFT JOIN users u ON u.phone_number = vj.phone_number
		WHERE vj.phone_number <> ?
		  AND vj.train_number = ?
		  AND vj.class = ?
		  AND vj.boarding_date = ?
		  AND vj.status_type = ?
		ORDER BY vj.verified_at DESC
		LIMIT ?`,
		strings.TrimSpace(excludePhone), j.TrainNumber, j.Class, j.BoardingDate, models.StatusCNF, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BuddyRow{}
	for rows.Next() {
		var b BuddyRow
		if err := rows.Scan(
			&b.Journey.ID,
			&b.Journey.PhoneNumber,
			&b.Journey.PNR,
			&b.Journey.Journey.TrainNumber,
			&b.Journey.Journey.TrainName,
			&b.Journey.Journey.Class,
			&b.Journey.Journey.From,
			&b.Journey.Journey.To,
			&b.Journey.Journey.BoardingDate,
			&b.Journey.StatusType,
			&b.Journey.VerifiedAt,
			&b.Name,
			&b.Age,
			&b.DOB,
		); err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
