package utils

import "strings"

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeIndianPhone accepts "+91XXXXXXXXXX" or a 10-digit local number and
// returns the E.164 form. Empty string means the input is unusable.
func NormalizeIndianPhone(input string) string {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "+91") && len(raw) == 13 && digitsOnly(raw[1:]) == raw[1:] {
		return raw
	}
	if len(raw) == 10 && digitsOnly(raw) == raw {
		return "+91" + raw
	}

	digits := digitsOnly(raw)
	if len(digits) == 10 {
		return "+91" + digits
	}
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		return "+" + digits
	}
	return ""
}

// MaskPhone renders a phone number for display to strangers: only the last
// four digits survive.
func MaskPhone(phoneNumber string) string {
	digits := digitsOnly(phoneNumber)
	if len(digits) < 4 {
		return "Passenger"
	}
	return "Passenger • " + digits[len(digits)-4:]
}
