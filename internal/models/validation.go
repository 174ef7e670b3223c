package models

// Validation error codes. Each maps to exactly one form field.
const (
	ErrEmptyField       = "EmptyField"
	ErrInvalidPhone     = "InvalidPhone"
	ErrInvalidEmail     = "InvalidEmail"
	ErrPastDateTime     = "PastDateTime"
	ErrInvalidPartySize = "InvalidPartySize"
	ErrSlotFull         = "SlotFull"
)

// FieldError is a single validation failure on one field.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors maps field names to their validation failure.
// All rules are evaluated, so every violated field is present at once.
type ValidationErrors map[string]FieldError

// Add records a failure for a field. The first failure per field wins.
func (v ValidationErrors) Add(field, code, message string) {
	if _, ok := v[field]; ok {
		return
	}
	v[field] = FieldError{Code: code, Message: message}
}

// Has reports whether the field failed validation.
func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Empty reports whether validation passed.
func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}
