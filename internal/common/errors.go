package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes carried by AppError.
const (
	CodeInvalidReceipt  = "INVALID_RECEIPT"
	CodeReceiptNotFound = "RECEIPT_NOT_FOUND"
	CodeConfig          = "CONFIG_ERROR"
)

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDecode       = errors.New("malformed receipt payload")
	ErrValidation   = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// DecodeError is a failure to turn raw input into a Receipt: bad JSON, a
// shape mismatch, or an unparsable date/time. It matches ErrDecode.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// NewDecodeError wraps err as a DecodeError.
func NewDecodeError(field string, err error) *DecodeError {
	return &DecodeError{Field: field, Err: err}
}

// IsInvalidReceipt reports whether err should surface as "The receipt is invalid".
func IsInvalidReceipt(err error) bool {
	return errors.Is(err, ErrDecode) || errors.Is(err, ErrValidation)
}
