package common

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// ValidationErrors is the full set of violations for one input. It matches ErrValidation.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Messages returns the bare violation messages in field order.
func (ve ValidationErrors) Messages() []string {
	out := make([]string, len(ve))
	for i, err := range ve {
		out[i] = err.Message
	}
	return out
}

// Validator provides validation utilities
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Field runs rules in order and records the first failure only, so a field
// yields at most one violation.
func (v *Validator) Field(fieldName string, value interface{}, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
			break
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

// Err returns the collected violations, or nil when there are none.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v.errors
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value interface{}) *ValidationError

// NotBlank fails on nil, on strings that are empty after trimming, and on
// values reporting IsZero() (dates, clocks).
func NotBlank(message string) ValidationRule {
	return func(fieldName string, value interface{}) *ValidationError {
		fail := &ValidationError{Field: fieldName, Value: value, Message: message}
		switch v := value.(type) {
		case nil:
			return fail
		case string:
			if strings.TrimSpace(v) == "" {
				return fail
			}
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				return fail
			}
		case interface{ IsZero() bool }:
			if v.IsZero() {
				return fail
			}
		}
		return nil
	}
}

// Matches fails when a string value does not match re. Non-strings pass;
// pair it with NotBlank for presence.
func Matches(re *regexp.Regexp, message string) ValidationRule {
	return func(fieldName string, value interface{}) *ValidationError {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		if !re.MatchString(s) {
			return &ValidationError{Field: fieldName, Value: value, Message: message}
		}
		return nil
	}
}

// MinSize fails when a slice, array or map has fewer than min elements.
// A nil value counts as empty.
func MinSize(min int, message string) ValidationRule {
	return func(fieldName string, value interface{}) *ValidationError {
		n := 0
		if value != nil {
			rv := reflect.ValueOf(value)
			switch rv.Kind() {
			case reflect.Slice, reflect.Array, reflect.Map:
				n = rv.Len()
			default:
				return nil
			}
		}
		if n < min {
			return &ValidationError{
				Field:   fieldName,
				Value:   value,
				Message: message,
			}
		}
		return nil
	}
}
