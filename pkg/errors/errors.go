// Package errors defines the coded errors shared by the domain services and
// the HTTP layer. Services return these so handlers can translate outcomes
// without inspecting error strings.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error class. Codes are part of the API contract and show
// up verbatim in JSON error envelopes.
type Code string

const (
	// CodeInvalidTransition means the requested action is not legal from the
	// record's current state.
	CodeInvalidTransition Code = "invalid_transition"
	// CodeComplianceGate means the urgency rule blocked an interest or
	// proposal submission.
	CodeComplianceGate Code = "compliance_gate"
	// CodeInvalidAwardTarget means the chosen winner has no response in the
	// proposal_submitted state.
	CodeInvalidAwardTarget Code = "invalid_award_target"
	// CodeAlreadyResolved means the tender was already awarded or cancelled.
	// Callers may treat this as idempotent success.
	CodeAlreadyResolved Code = "already_resolved"
	// CodeUnauthorized means a role or ownership mismatch.
	CodeUnauthorized Code = "unauthorized"
	// CodeNotVisible means the caller's partner is excluded by the tender's
	// invitation strategy.
	CodeNotVisible Code = "not_visible"

	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal"
)

// Error carries a code and a human-readable message. It is a value type so
// that identical errors compare equal under errors.Is in tests.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e Error) Unwrap() error { return e.cause }

// Is matches any Error with the same code, regardless of message or cause.
func (e Error) Is(target error) bool {
	var other Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// New builds a coded error.
func New(code Code, message string) Error {
	return Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) Error {
	return Error{Code: code, Message: message, cause: err}
}

// AsError returns the coded error in the chain, or nil.
func AsError(err error) *Error {
	var e Error
	if errors.As(err, &e) {
		return &e
	}
	return nil
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to an HTTP status. not_visible deliberately maps
// to 404: the existence of an invite-only tender is itself confidential.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidTransition, CodeConflict, CodeAlreadyResolved:
		return http.StatusConflict
	case CodeComplianceGate, CodeInvalidAwardTarget:
		return http.StatusUnprocessableEntity
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeNotVisible, CodeNotFound:
		return http.StatusNotFound
	case CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
