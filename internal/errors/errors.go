package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError is the error currency between services and handlers: a stable
// code for comparison and status mapping, plus a message safe to show to
// clients.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches by code, so a wrapped instance still compares equal to its
// sentinel under errors.Is.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if errors.As(target, &domainErr) {
		return e.Code == domainErr.Code
	}
	return false
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WrapError keeps the sentinel's code and message while carrying the cause
// for logs and errors.Is chains.
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// NewConflictError reports a unique-constraint violation naming the
// offending field ("email", "phone_number"). Instances compare equal to
// ErrConflict.
func NewConflictError(field string) *DomainError {
	return &DomainError{
		Code:    ErrConflict.Code,
		Message: fmt.Sprintf("%s is already registered", field),
	}
}

var (
	// Credential errors. Absent user, missing password credential and
	// password mismatch all collapse into ErrInvalidCredentials so the
	// response never reveals whether the account exists.
	ErrInvalidCredentials  = NewDomainError("INVALID_CREDENTIALS", "incorrect email or password")
	ErrAccountNotActivated = NewDomainError("ACCOUNT_NOT_ACTIVATED", "account not activated, check your email for the activation link")
	ErrAccountDeactivated  = NewDomainError("ACCOUNT_DEACTIVATED", "account is deactivated")

	// Token errors. Bad signature, expiry, wrong type tag and stored
	// refresh-token mismatch are deliberately indistinguishable.
	ErrInvalidToken = NewDomainError("INVALID_TOKEN", "invalid or expired token")
	ErrTokenRevoked = NewDomainError("TOKEN_REVOKED", "token has been revoked")

	// Activation errors
	ErrUserNotFound      = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrAlreadyActive     = NewDomainError("ALREADY_ACTIVE", "account is already active")
	ErrActivationInvalid = NewDomainError("INVALID_ACTIVATION_TOKEN", "invalid activation token")
	ErrActivationExpired = NewDomainError("ACTIVATION_EXPIRED", "activation token has expired, request a new one")

	ErrConflict = NewDomainError("CONFLICT", "field is already registered")
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError reports whether err carries a DomainError anywhere in its
// chain.
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// ToHTTPStatus picks the response status for an error. Only handlers call
// it; services stay transport-agnostic.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case "ALREADY_ACTIVE", "INVALID_ACTIVATION_TOKEN", "ACTIVATION_EXPIRED", "CONFLICT":
		return http.StatusBadRequest
	case "INVALID_CREDENTIALS", "INVALID_TOKEN", "TOKEN_REVOKED":
		return http.StatusUnauthorized
	case "ACCOUNT_NOT_ACTIVATED", "ACCOUNT_DEACTIVATED":
		return http.StatusForbidden
	case "USER_NOT_FOUND":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage returns the client-safe text: the domain message when
// there is one, err.Error() otherwise.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
