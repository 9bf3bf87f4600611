package db

import "database/sql"

var schemaTables = []struct {
	name string
	ddl  string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	phone_number VARCHAR(20) NOT NULL,
	name VARCHAR(255) NULL,
	email VARCHAR(255) NULL,
	age_group VARCHAR(20) NULL,
	dob VARCHAR(10) NULL,
	age INT NULL,
	aadhaar_number VARCHAR(20) NULL,
	emergency_contact VARCHAR(20) NULL,
	profile_photo_url VARCHAR(500) NULL,
	seat_preference VARCHAR(30) NULL,
	train_classes VARCHAR(50) NULL,
	dietary_preference VARCHAR(30) NULL,
	special_assistance TINYINT(1) NOT NULL DEFAULT 0,
	id_verified TINYINT(1) NOT NULL DEFAULT 0,
	id_type VARCHAR(30) NULL,
	social_media_linked TINYINT(1) NOT NULL DEFAULT 0,
	profile_completeness INT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_phone (phone_number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},

	{"otp_sessions", `CREATE TABLE IF NOT EXISTS otp_sessions (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	phone_number VARCHAR(20) NOT NULL,
	code_hash VARCHAR(100) NOT NULL,
	expires_at DATETIME NOT NULL,
	attempt_count INT NOT NULL DEFAULT 0,
	last_attempt_at DATETIME NULL,
	consumed_at DATETIME NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_phone (phone_number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},

	{"verified_journeys", `CREATE TABLE IF NOT EXISTS verified_journeys (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	phone_number VARCHAR(20) NOT NULL,
	pnr VARCHAR(10) NOT NULL,
	train_number VARCHAR(10) NULL,
	train_name VARCHAR(255) NULL,
	class VARCHAR(10) NULL,
	from_station VARCHAR(10) NULL,
	to_station VARCHAR(10) NULL,
	boarding_date VARCHAR(20) NULL,
	status_type VARCHAR(10) NULL,
	verified_at DATETIME NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_phone_pnr (phone_number, pnr),
	KEY idx_trip (train_number, class, boarding_date, status_type)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},

	{"buddy_requests", `CREATE TABLE IF NOT EXISTS buddy_requests (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	from_phone_number VARCHAR(20) NOT NULL,
	to_phone_number VARCHAR(20) NOT NULL,
	pnr VARCHAR(10) NOT NULL,
	message VARCHAR(500) NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_from_to_pnr (from_phone_number, to_phone_number, pnr),
	KEY idx_to_pnr (to_phone_number, pnr)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},

	{"offer_seats", `CREATE TABLE IF NOT EXISTS offer_seats (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	phone_number VARCHAR(20) NOT NULL,
	pnr VARCHAR(10) NOT NULL,
	train_number VARCHAR(10) NULL,
	train_name VARCHAR(255) NULL,
	class VARCHAR(10) NULL,
	from_station VARCHAR(10) NULL,
	to_station VARCHAR(10) NULL,
	boarding_date VARCHAR(20) NULL,
	seats_available INT NOT NULL DEFAULT 1,
	note VARCHAR(500) NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_phone_pnr (phone_number, pnr),
	KEY idx_trip_status (train_number, class, boarding_date, status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},

	{"offer_seat_requests", `CREATE TABLE IF NOT EXISTS offer_seat_requests (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	offer_id BIGINT NOT NULL,
	from_phone_number VARCHAR(20) NOT NULL,
	to_phone_number VARCHAR(20) NOT NULL,
	pnr VARCHAR(10) NOT NULL,
	message VARCHAR(500) NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_offer_from (offer_id, from_phone_number),
	KEY idx_to_pnr (to_phone_number, pnr)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
}

// EnsureSchema creates missing tables on boot and patches columns older
// deployments lack. The unique composite keys are load-bearing: every
// upsert relies on them for atomic insert-or-update.
func EnsureSchema(db *sql.DB) error {
	for _, t := range schemaTables {
		if HasTable(db, t.name) {
			continue
		}
		if _, err := db.Exec(t.ddl); err != nil {
			return err
		}
	}

	// users predating the photo feature miss the column
	if !HasColumn(db, "users", "profile_photo_url") {
		if _, err := db.Exec(`ALTER TABLE users ADD COLUMN profile_photo_url VARCHAR(500) NULL`); err != nil {
			return err
		}
	}
	return nil
}
