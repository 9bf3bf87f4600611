package services

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/domain/models"
	"trainbuddy/internal/repositories"
	"trainbuddy/internal/utils"
)

var validSeatPreferences = map[string]bool{
	"window": true, "middle": true, "aisle": true,
	"lower": true, "upper": true, "side lower": true, "side upper": true,
	"no preference": true,
}

var validIDTypes = map[string]bool{
	"aadhaar": true, "pan": true, "passport": true, "driving_license": true, "none": true,
}

// UserService manages profile records keyed by phone number. Every mutation
// recomputes the profile-completeness score against the merged record.
type UserService struct {
	Users repositories.UserRepo
}

// GetProfile returns the caller's profile.
func (s UserService) GetProfile(phoneNumber string) (models.User, error) {
	user, err := s.Users.GetByPhone(phoneNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, domain.NewAPIError(domain.CodeUserNotFound, "User not found.", http.StatusNotFound)
		}
		return models.User{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return user, nil
}

// UpdateProfile merges the supplied basic fields over the stored record.
// Empty inputs leave existing values untouched; age is derived from DOB when
// a DOB is given.
func (s UserService) UpdateProfile(phoneNumber string, input models.User) (models.User, error) {
	input.DOB = strings.TrimSpace(input.DOB)
	if input.DOB != "" {
		if _, err := utils.ParseDate(input.DOB); err != nil {
			return models.User{}, domain.NewAPIError(domain.CodeInvalidInput, "Date of birth must be YYYY-MM-DD.", http.StatusBadRequest)
		}
		age := utils.AgeFromDOB(input.DOB, time.Now())
		if age == 0 {
			return models.User{}, domain.NewAPIError(domain.CodeInvalidInput, "Date of birth is out of range.", http.StatusBadRequest)
		}
		input.Age = age
	}

	current, err := s.currentOrEmpty(phoneNumber)
	if err != nil {
		return models.User{}, err
	}

	merged := current
	mergeString(&merged.Name, input.Name)
	mergeString(&merged.Email, strings.ToLower(input.Email))
	mergeString(&merged.AgeGroup, input.AgeGroup)
	mergeString(&merged.DOB, input.DOB)
	mergeString(&merged.AadhaarNumber, input.AadhaarNumber)
	mergeString(&merged.EmergencyContact, input.EmergencyContact)
	if input.Age > 0 {
		merged.Age = input.Age
	}
	merged.CalculateProfileCompleteness()

	input.ProfileCompleteness = merged.ProfileCompleteness
	if err := s.Users.UpsertProfile(phoneNumber, input); err != nil {
		return models.User{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return s.GetProfile(phoneNumber)
}

// UpdatePreferences replaces travel preferences for an existing user.
func (s UserService) UpdatePreferences(phoneNumber string, p models.Preferences) (models.User, error) {
	p.SeatPreference = strings.ToLower(strings.TrimSpace(p.SeatPreference))
	if p.SeatPreference == "" {
		p.SeatPreference = "no preference"
	}
	if !validSeatPreferences[p.SeatPreference] {
		return models.User{}, domain.NewAPIError(domain.CodeInvalidInput, "Invalid seat preference.", http.StatusBadRequest)
	}
	p.DietaryPreference = strings.ToLower(strings.TrimSpace(p.DietaryPreference))
	if p.DietaryPreference == "" {
		p.DietaryPreference = "no preference"
	}

	user, err := s.GetProfile(phoneNumber)
	if err != nil {
		return models.User{}, err
	}
	user.Preferences = p
	user.CalculateProfileCompleteness()

	if err := s.Users.UpdatePreferences(phoneNumber, p, user.ProfileCompleteness); err != nil {
		return models.User{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return user, nil
}

// UpdateVerification replaces identity-verification flags for an existing
// user.
func (s UserService) UpdateVerification(phoneNumber string, v models.Verification) (models.User, error) {
	v.IDType = strings.ToLower(strings.TrimSpace(v.IDType))
	if v.IDType == "" {
		v.IDType = "none"
	}
	if !validIDTypes[v.IDType] {
		return models.User{}, domain.NewAPIError(domain.CodeInvalidInput, "Invalid ID type.", http.StatusBadRequest)
	}

	user, err := s.GetProfile(phoneNumber)
	if err != nil {
		return models.User{}, err
	}
	user.Verification = v
	user.CalculateProfileCompleteness()

	if err := s.Users.UpdateVerification(phoneNumber, v, user.ProfileCompleteness); err != nil {
		return models.User{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return user, nil
}

// UpdatePhoto stores the served URL of an uploaded profile photo.
func (s UserService) UpdatePhoto(phoneNumber, photoURL string) (models.User, error) {
	photoURL = strings.TrimSpace(photoURL)
	if photoURL == "" {
		return models.User{}, domain.NewAPIError(domain.CodeInvalidInput, "Photo URL is required.", http.StatusBadRequest)
	}

	user, err := s.GetProfile(phoneNumber)
	if err != nil {
		return models.User{}, err
	}
	user.ProfilePhotoURL = photoURL
	user.CalculateProfileCompleteness()

	if err := s.Users.UpdatePhoto(phoneNumber, photoURL, user.ProfileCompleteness); err != nil {
		return models.User{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return user, nil
}

func (s UserService) currentOrEmpty(phoneNumber string) (models.User, error) {
	user, err := s.Users.GetByPhone(phoneNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{PhoneNumber: phoneNumber}, nil
		}
		return models.User{}, domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	return user, nil
}

func mergeString(dst *string, value string) {
	value = strings.TrimSpace(value)
	if value != "" {
		*dst = value
	}
}
