package leads

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultPhoneRegion = "IN"

// DigitsOf strips every non-digit character from a phone number.
func DigitsOf(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// NormalizePhone formats a phone number to E.164, assuming Indian numbers when
// no country code is given. If the number cannot be parsed or is not valid, the
// trimmed input is returned unchanged; normalization never rejects a lead the
// validator accepted.
func NormalizePhone(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultPhoneRegion)
	if err != nil {
		return trimmed
	}
	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
