package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilchouksey/curriculum-catalog/utils/validation"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an identifier does not resolve to a stored record.
var ErrNotFound = errors.New("record not found")

// ValidationError carries field-level messages for rejected input.
// Messages that do not belong to a single field use the "non_field_errors" key.
type ValidationError struct {
	Fields map[string]string
}

// NonFieldErrors is the key for messages about a combination of fields.
const NonFieldErrors = "non_field_errors"

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AsValidationError unwraps err into a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// validateAttributes runs struct-tag validation and converts failures to a ValidationError.
func validateAttributes(v *validation.Validator, attrs interface{}) error {
	if err := v.ValidateStruct(attrs); err != nil {
		fields := validation.FormatValidationErrors(err)
		if len(fields) == 0 {
			return err
		}
		return &ValidationError{Fields: fields}
	}
	return nil
}

// notFound maps gorm's missing-row error to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// uniqueViolation maps a unique-index failure raised by the database to a ValidationError.
// It covers inserts that race past the explicit existence checks.
func uniqueViolation(err error, field, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewValidationError(field, message)
	}
	return err
}

// missingParent is the message for a foreign key that does not resolve.
func missingParent(id uint) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// requireFields reports every field marked absent as required.
func requireFields(present map[string]bool) *ValidationError {
	var fields map[string]string
	for name, ok := range present {
		if ok {
			continue
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[name] = "This field is required."
	}
	if fields == nil {
		return nil
	}
	return &ValidationError{Fields: fields}
}
