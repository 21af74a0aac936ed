// Package domainerrors defines the error taxonomy services return to callers.
//
// Stores return sentinel errors (pkg/platform/sentinel); services translate
// them into coded domain errors so transports can map codes to responses
// without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_error"
	CodeFraudDetected      Code = "fraud_detected"
	CodeConflict           Code = "conflict"
	CodeNotFound           Code = "not_found"
	CodeUnauthorized       Code = "unauthorized"
	CodePersistence        Code = "persistence_error"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Error is a coded domain error.
//
// Rule names the specific violated rule for validation errors (for example
// "missing_back"). Factors lists the triggered risk factors for fraud errors.
// Neither ever carries threshold values.
type Error struct {
	Code    Code
	Message string
	Rule    string
	Factors []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NewValidation creates a validation error naming the violated rule.
func NewValidation(rule, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Rule: rule}
}

// NewFraud creates a fraud error carrying the triggered risk factors.
func NewFraud(message string, factors []string) *Error {
	return &Error{Code: CodeFraudDetected, Message: message, Factors: append([]string(nil), factors...)}
}

// HasCode reports whether any error in err's chain is a domain error with code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for handler readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of the first domain error in err's chain,
// or CodeInternal when there is none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// RuleOf returns the violated rule of a validation error, if any.
func RuleOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Rule
	}
	return ""
}

// FactorsOf returns the risk factors of a fraud error, if any.
func FactorsOf(err error) []string {
	var de *Error
	if errors.As(err, &de) {
		return de.Factors
	}
	return nil
}
