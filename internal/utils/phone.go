package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhoneNumber normalizes a phone number to E.164 format. Numbers
// without a country code are parsed against defaultRegion (e.g. "US").
func NormalizePhoneNumber(phone, defaultRegion string) (string, error) {
	phone = strings.TrimSpace(phone)

	num, err := phonenumbers.Parse(phone, defaultRegion)
	if err != nil {
		return "", err
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", phonenumbers.ErrNotANumber
	}

	// Format to E.164 (e.g., +14155551234)
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// IsValidE164 reports whether phone is in E.164 form: an optional leading "+",
// first digit 1-9, then up to 14 more digits. SMS is only attempted for
// numbers that pass this gate.
func IsValidE164(phone string) bool {
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) == 0 || len(digits) > 15 {
		return false
	}
	if digits[0] < '1' || digits[0] > '9' {
		return false
	}
	for i := 1; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}
