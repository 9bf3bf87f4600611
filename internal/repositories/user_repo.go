package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "trainbuddy/internal/config"
	intdb "trainbuddy/internal/db"
	"trainbuddy/internal/domain/models"
)

type UserRepo struct {
	DB *sql.DB
}

func (r UserRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userCols = `
	id,
	phone_number,
	COALESCE(name,''),
	COALESCE(email,''),
	COALESCE(age_group,''),
	COALESCE(dob,''),
	COALESCE(age,0),
	COALESCE(aadhaar_number,''),
	COALESCE(emergency_contact,''),
	COALESCE(profile_photo_url,''),
	COALESCE(seat_preference,'no preference'),
	COALESCE(train_classes,''),
	COALESCE(dietary_preference,'no preference'),
	COALESCE(special_assistance,0),
	COALESCE(id_verified,0),
	COALESCE(id_type,'none'),
	COALESCE(social_media_linked,0),
	COALESCE(profile_completeness,0),
	created_at,
	updated_at`

func scanUser(scan func(dest ...any) error) (models.User, error) {
	var (
		u       models.User
		classes string
	)
	err := scan(
		&u.ID,
		&u.PhoneNumber,
		&u.Name,
		&u.Email,
		&u.AgeGroup,
		&u.DOB,
		&u.Age,
		&u.AadhaarNumber,
		&u.EmergencyContact,
		&u.ProfilePhotoURL,
		&u.Preferences.SeatPreference,
		&classes,
		&u.Preferences.DietaryPreference,
		&u.Preferences.SpecialAssistance,
		&u.Verification.IDVerified,
		&u.Verification.IDType,
		&u.Verification.SocialMediaLinked,
		&u.ProfileCompleteness,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return u, err
	}
	u.Preferences.TrainClasses = splitClasses(classes)
	return u, nil
}

func splitClasses(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinClasses(classes []string) string {
	clean := []string{}
	for _, c := range classes {
		c = strings.TrimSpace(c)
		if c != "" {
			clean = append(clean, strings.ToUpper(c))
		}
	}
	return strings.Join(clean, ",")
}

func (r UserRepo) GetByPhone(phoneNumber string) (models.User, error) {
	row := r.db().QueryRow(`
		SELECT `+userCols+`
		FROM users
		WHERE phone_number=?
		LIMIT 1`, strings.TrimSpace(phoneNumber))
	return scanUser(row.Scan)
}

// EnsureByPhone creates the user row on first sight of a phone number.
// INSERT IGNORE keeps racing logins idempotent.
func (r UserRepo) EnsureByPhone(phoneNumber string) error {
	phone := strings.TrimSpace(phoneNumber)
	if phone == "" {
		return fmt.Errorf("phone number is required")
	}
	_, err := r.db().Exec(`
		INSERT IGNORE INTO users (phone_number, created_at, updated_at)
		VALUES (?, NOW(), NOW())`, phone)
	return err
}

// UpsertProfile writes basic profile fields. Empty inputs become NULL in
// VALUES() and the COALESCE keeps whatever was stored before, so partial
// updates never wipe data.
func (r UserRepo) UpsertProfile(phoneNumber string, u models.User) error {
	phone := strings.TrimSpace(phoneNumber)
	if phone == "" {
		return fmt.Errorf("phone number is required")
	}
	_, err := r.db().Exec(`
		INSERT INTO users
			(phone_number, name, email, age_group, dob, age, aadhaar_number, emergency_contact, profile_completeness, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			name=COALESCE(VALUES(name), name),
			email=COALESCE(VALUES(email), email),
			age_group=COALESCE(VALUES(age_group), age_group),
			dob=COALESCE(VALUES(dob), dob),
			age=COALESCE(VALUES(age), age),
			aadhaar_number=COALESCE(VALUES(aadhaar_number), aadhaar_number),
			emergency_contact=COALESCE(VALUES(emergency_contact), emergency_contact),
			profile_completeness=VALUES(profile_completeness),
			updated_at=NOW()`,
		phone,
		intdb.NullIfEmpty(strings.TrimSpace(u.Name)),
		intdb.NullIfEmpty(strings.TrimSpace(strings.ToLower(u.Email))),
		intdb.NullIfEmpty(strings.TrimSpace(u.AgeGroup)),
		intdb.NullIfEmpty(strings.TrimSpace(u.DOB)),
		nullIfZero(u.Age),
		intdb.NullIfEmpty(strings.TrimSpace(u.AadhaarNumber)),
		intdb.NullIfEmpty(strings.TrimSpace(u.EmergencyContact)),
		u.ProfileCompleteness,
	)
	return err
}

func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

// UpdatePreferences overwrites preference columns for an existing user.
func (r UserRepo) UpdatePreferences(phoneNumber string, p models.Preferences, completeness int) error {
	_, err := r.db().Exec(`
		UPDATE users SET
			seat_preference=?,
			train_classes=?,
			dietary_preference=?,
			special_assistance=?,
			profile_completeness=?,
			updated_at=NOW()
		WHERE phone_number=?`,
		p.SeatPreference, joinClasses(p.TrainClasses), p.DietaryPreference, p.SpecialAssistance,
		completeness, strings.TrimSpace(phoneNumber))
	return err
}

// UpdateVerification overwrites verification columns for an existing user.
func (r UserRepo) UpdateVerification(phoneNumber string, v models.Verification, completeness int) error {
	_, err := r.db().Exec(`
		UPDATE users SET
			id_verified=?,
			id_type=?,
			social_media_linked=?,
			profile_completeness=?,
			updated_at=NOW()
		WHERE phone_number=?`,
		v.IDVerified, v.IDType, v.SocialMediaLinked, completeness, strings.TrimSpace(phoneNumber))
	return err
}

// UpdatePhoto stores the served URL of the uploaded profile photo.
func (r UserRepo) UpdatePhoto(phoneNumber, photoURL string, completeness int) error {
	_, err := r.db().Exec(`
		UPDATE users SET
			profile_photo_url=?,
			profile_completeness=?,
			updated_at=NOW()
		WHERE phone_number=?`,
		photoURL, completeness, strings.TrimSpace(phoneNumber))
	return err
}
