package common

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/menuscan/internal/textnorm"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// Validator provides validation utilities
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName string, value interface{}, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// ErrorMessage returns a combined error message as string
func (v *Validator) ErrorMessage() string {
	if !v.HasErrors() {
		return ""
	}

	var messages []string
	for _, err := range v.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// AppError folds the collected failures into one AppError. The first failure's code wins.
func (v *Validator) AppError() *AppError {
	if !v.HasErrors() {
		return nil
	}
	code := v.errors[0].Code
	if code == "" {
		code = CodeInvalidFormat
	}
	return NewAppError(code, v.ErrorMessage(), ErrValidation)
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value interface{}) *ValidationError

func asString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", true
		}
		return *v, true
	}
	return "", false
}

// Required - Common validation rules
func Required(fieldName string, value interface{}) *ValidationError {
	if value == nil {
		return &ValidationError{Field: fieldName, Value: value, Code: CodeMissingFields, Message: "is required"}
	}
	switch v := value.(type) {
	case *uuid.UUID:
		if v == nil || *v == uuid.Nil {
			return &ValidationError{Field: fieldName, Value: value, Code: CodeMissingFields, Message: "is required"}
		}
		return nil
	}
	if s, ok := asString(value); ok && strings.TrimSpace(s) == "" {
		return &ValidationError{Field: fieldName, Value: value, Code: CodeMissingFields, Message: "is required"}
	}
	return nil
}

// NonEmpty rejects empty strings with INVALID_FORMAT rather than MISSING_FIELDS.
func NonEmpty(fieldName string, value interface{}) *ValidationError {
	if s, ok := asString(value); ok && strings.TrimSpace(s) == "" {
		return &ValidationError{Field: fieldName, Value: value, Code: CodeInvalidFormat, Message: "must not be empty"}
	}
	return nil
}

// SingleToken rejects values containing any whitespace.
func SingleToken(fieldName string, value interface{}) *ValidationError {
	s, ok := asString(value)
	if !ok {
		return nil
	}
	if textnorm.HasWhitespace(s) {
		return &ValidationError{Field: fieldName, Value: value, Code: CodeInvalidFormat, Message: "must be a single word without spaces"}
	}
	return nil
}

// MaxLength returns a rule bounding the rune length of a string.
func MaxLength(max int) ValidationRule {
	return func(fieldName string, value interface{}) *ValidationError {
		s, ok := asString(value)
		if !ok {
			return nil
		}
		if utf8.RuneCountInString(s) > max {
			return &ValidationError{
				Field:   fieldName,
				Value:   value,
				Code:    CodeInvalidFormat,
				Message: fmt.Sprintf("must be at most %d characters", max),
			}
		}
		return nil
	}
}

func UUID(fieldName string, value interface{}) *ValidationError {
	str, ok := value.(string)
	if !ok {
		return &ValidationError{Field: fieldName, Value: value, Code: CodeInvalidFormat, Message: "must be a string"}
	}

	if _, err := uuid.Parse(str); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Value:   value,
			Code:    CodeInvalidFormat,
			Message: "must be a valid UUID",
		}
	}
	return nil
}
