package services

import (
	"testing"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/domain/models"
	"trainbuddy/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newUserService(t *testing.T) (UserService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	return UserService{Users: repositories.UserRepo{DB: db}}, mock, func() { db.Close() }
}

func userRow(phone, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "phone_number", "name", "email", "age_group", "dob", "age",
		"aadhaar_number", "emergency_contact", "profile_photo_url",
		"seat_preference", "train_classes", "dietary_preference", "special_assistance",
		"id_verified", "id_type", "social_media_linked", "profile_completeness",
		"created_at", "updated_at",
	}).AddRow(1, phone, name, "", "", "", 0, "", "", "",
		"no preference", "", "no preference", false,
		false, "none", false, 0, testNow, testNow)
}

func TestGetProfileNotFound(t *testing.T) {
	svc, mock, done := newUserService(t)
	defer done()

	mock.ExpectQuery("FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetProfile("+919876543210")
	if !domain.IsCode(err, domain.CodeUserNotFound) {
		t.Fatalf("expected USER_NOT_FOUND, got %v", err)
	}
}

func TestUpdateProfileRejectsBadDOB(t *testing.T) {
	svc, _, done := newUserService(t)
	defer done()

	_, err := svc.UpdateProfile("+919876543210", models.User{DOB: "15/06/1995"})
	if !domain.IsCode(err, domain.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}

	_, err = svc.UpdateProfile("+919876543210", models.User{DOB: "1800-01-01"})
	if !domain.IsCode(err, domain.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for out-of-range DOB, got %v", err)
	}
}

func TestUpdatePreferencesRejectsUnknownSeat(t *testing.T) {
	svc, _, done := newUserService(t)
	defer done()

	_, err := svc.UpdatePreferences("+919876543210", models.Preferences{SeatPreference: "roof"})
	if !domain.IsCode(err, domain.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestUpdatePreferencesRecomputesCompleteness(t *testing.T) {
	svc, mock, done := newUserService(t)
	defer done()

	mock.ExpectQuery("FROM users").
		WillReturnRows(userRow("+919876543210", "Asha"))
	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := svc.UpdatePreferences("+919876543210", models.Preferences{
		SeatPreference:    "window",
		TrainClasses:      []string{"3A"},
		DietaryPreference: "veg",
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	// name (12.5) + seat (6.25) + dietary (6.25) + classes (12.5) = 37.5 → 38
	if user.ProfileCompleteness != 38 {
		t.Fatalf("expected completeness 38, got %d", user.ProfileCompleteness)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateVerificationRejectsUnknownIDType(t *testing.T) {
	svc, _, done := newUserService(t)
	defer done()

	_, err := svc.UpdateVerification("+919876543210", models.Verification{IDType: "library-card"})
	if !domain.IsCode(err, domain.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}
