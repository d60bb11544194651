package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// nationalIDLength is the length of an Egyptian national id number.
const nationalIDLength = 14

// AppUser is an optional mobile reporter profile. App users never log in.
type AppUser struct {
	ID          uint      `json:"id"`
	NationalID  string    `json:"national_id"`
	FullName    string    `json:"full_name"`
	ContactInfo string    `json:"contact_info"`
	DeviceID    *string   `json:"device_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NormalizeNationalID trims the id and checks it is exactly 14 digits.
func NormalizeNationalID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("%w: national_id is required", ErrValidation)
	}
	if len(id) != nationalIDLength {
		return "", fmt.Errorf("%w: national_id must be %d digits", ErrValidation, nationalIDLength)
	}
	for _, r := range id {
		if !unicode.IsDigit(r) {
			return "", fmt.Errorf("%w: national_id must contain digits only", ErrValidation)
		}
	}
	return id, nil
}
