package domain

import (
	"errors"
	"fmt"
)

// Application errors
var (
	// ErrNotFound record not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate duplicate record
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidSignature webhook digest did not match the recomputed value.
	// Terminal for that delivery: no business field may be trusted after it.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInternal internal error
	ErrInternal = errors.New("internal error")
)

// ValidationError reports a malformed or missing required input field
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PaymentError wraps a failure in payment construction or webhook processing
type PaymentError struct {
	Code        string
	Message     string
	PaymentID   string
	OriginalErr error
}

// Error implements the error interface
func (e *PaymentError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("payment error [%s]: %s: %v (payment_id: %s)", e.Code, e.Message, e.OriginalErr, e.PaymentID)
	}
	return fmt.Sprintf("payment error [%s]: %s (payment_id: %s)", e.Code, e.Message, e.PaymentID)
}

// Unwrap returns the original error
func (e *PaymentError) Unwrap() error {
	return e.OriginalErr
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message, paymentID string, err error) *PaymentError {
	return &PaymentError{
		Code:        code,
		Message:     message,
		PaymentID:   paymentID,
		OriginalErr: err,
	}
}
