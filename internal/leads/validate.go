package leads

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field validators return an empty string when the value is valid, otherwise a
// human-readable error message. They are pure functions so the aggregate
// validator can be exercised without any HTTP machinery.

const (
	nameMinLength    = 2
	nameMaxLength    = 50
	phoneMinDigits   = 10
	phoneMaxDigits   = 15
	messageMaxLength = 500
)

// Intentionally loose: local@domain.tld shape, not RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateName requires a trimmed length between 2 and 50 characters.
func ValidateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Name is required"
	}
	// Length rules count characters, not bytes: Devanagari names are multi-byte.
	if utf8.RuneCountInString(trimmed) < nameMinLength {
		return fmt.Sprintf("Name must be at least %d characters", nameMinLength)
	}
	if utf8.RuneCountInString(trimmed) > nameMaxLength {
		return fmt.Sprintf("Name must be less than %d characters", nameMaxLength)
	}
	return ""
}

// ValidatePhone strips non-digit characters and requires 10 to 15 digits. This
// is the canonical phone rule for the whole system.
func ValidatePhone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return "Phone number is required"
	}
	digits := DigitsOf(phone)
	if len(digits) < phoneMinDigits {
		return fmt.Sprintf("Phone number must be at least %d digits", phoneMinDigits)
	}
	if len(digits) > phoneMaxDigits {
		return fmt.Sprintf("Phone number must be less than %d digits", phoneMaxDigits)
	}
	return ""
}

// ValidateEmail accepts empty input; otherwise the value must look like
// local@domain.tld.
func ValidateEmail(email string) string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return ""
	}
	if !emailPattern.MatchString(trimmed) {
		return "Please enter a valid email address"
	}
	return ""
}

// ValidateMessage accepts empty input; otherwise the trimmed length must not
// exceed 500 characters.
func ValidateMessage(message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return ""
	}
	if utf8.RuneCountInString(trimmed) > messageMaxLength {
		return fmt.Sprintf("Message must be less than %d characters", messageMaxLength)
	}
	return ""
}

// ValidateDistrict requires an exact match against the served district list.
func ValidateDistrict(district string) string {
	if district == "" {
		return "Please select your district"
	}
	if _, ok := districtSet[district]; !ok {
		return "Please select a valid district from the list"
	}
	return ""
}

// ValidateService requires a service to be selected.
func ValidateService(service string) string {
	if strings.TrimSpace(service) == "" {
		return "Please select a service"
	}
	return ""
}

// ValidationResult maps failed field names to error messages. Valid is true iff
// no field produced an error.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Validate runs every field validator against the record. A fresh result is
// produced on every pass; results are never merged across attempts.
func Validate(r *LeadRecord) ValidationResult {
	errs := make(map[string]string)

	if msg := ValidateService(r.Service); msg != "" {
		errs["service"] = msg
	}
	if msg := ValidateName(r.Name); msg != "" {
		errs["name"] = msg
	}
	if msg := ValidatePhone(r.Phone); msg != "" {
		errs["phone"] = msg
	}
	if msg := ValidateEmail(r.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := ValidateDistrict(r.District); msg != "" {
		errs["district"] = msg
	}
	if msg := ValidateMessage(r.Message); msg != "" {
		errs["message"] = msg
	}

	if len(errs) == 0 {
		return ValidationResult{Valid: true}
	}
	return ValidationResult{Valid: false, Errors: errs}
}
