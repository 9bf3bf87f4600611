package models

import "time"

// Preferences holds travel preferences a user picks in the app.
type Preferences struct {
	SeatPreference    string   `json:"seatPreference"`
	TrainClasses      []string `json:"trainClasses"`
	DietaryPreference string   `json:"dietaryPreference"`
	SpecialAssistance bool     `json:"specialAssistance"`
}

// Verification tracks how far a user's identity has been checked.
type Verification struct {
	IDVerified        bool   `json:"idVerified"`
	IDType            string `json:"idType"`
	SocialMediaLinked bool   `json:"socialMediaLinked"`
}

// User is the profile record keyed by phone number.
type User struct {
	ID                  int64        `json:"id"`
	PhoneNumber         string       `json:"phoneNumber"`
	Name                string       `json:"name,omitempty"`
	Email               string       `json:"email,omitempty"`
	AgeGroup            string       `json:"ageGroup,omitempty"`
	DOB                 string       `json:"dob,omitempty"` // YYYY-MM-DD
	Age                 int          `json:"age,omitempty"`
	AadhaarNumber       string       `json:"aadhaarNumber,omitempty"`
	EmergencyContact    string       `json:"emergencyContact,omitempty"`
	ProfilePhotoURL     string       `json:"profilePhotoUrl,omitempty"`
	Preferences         Preferences  `json:"preferences"`
	Verification        Verification `json:"verification"`
	ProfileCompleteness int          `json:"profileCompleteness"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// CalculateProfileCompleteness recomputes the 0-100 score. Weighting follows
// the product rule: basic info 50%, emergency contact 12.5%, preferences 25%,
// verification 12.5%.
func (u *User) CalculateProfileCompleteness() int {
	score := 0.0
	if u.Name != "" {
		score += 12.5
	}
	if u.Email != "" {
		score += 12.5
	}
	if u.AgeGroup != "" || u.DOB != "" {
		score += 12.5
	}
	if u.ProfilePhotoURL != "" {
		score += 12.5
	}
	if u.EmergencyContact != "" {
		score += 12.5
	}
	if u.Preferences.SeatPreference != "" && u.Preferences.SeatPreference != "no preference" {
		score += 6.25
	}
	if u.Preferences.DietaryPreference != "" && u.Preferences.DietaryPreference != "no preference" {
		score += 6.25
	}
	if n := len(u.Preferences.TrainClasses); n > 0 && n < 4 {
		score += 12.5
	}
	if u.Verification.IDVerified {
		score += 6.25
	}
	if u.Verification.SocialMediaLinked {
		score += 6.25
	}

	pct := int(score + 0.5)
	if pct > 100 {
		pct = 100
	}
	u.ProfileCompleteness = pct
	return pct
}
