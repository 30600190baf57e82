package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeConflict   ErrorCode = "CONFLICT"

	// Credential problems; clients are expected to re-login.
	CodeUnauthenticated    ErrorCode = "UNAUTHENTICATED"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeNotVerified        ErrorCode = "NOT_VERIFIED"
	CodeInvalidOrExpired   ErrorCode = "INVALID_OR_EXPIRED_OTP"

	CodeNoQuestionsAvailable ErrorCode = "NO_QUESTIONS_AVAILABLE"
	CodeTransientFailure     ErrorCode = "TRANSIENT_FAILURE"
	CodeRateLimited          ErrorCode = "RATE_LIMITED"

	// Field-level codes carried inside ValidationErrors.
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"
)

// Store-level sentinels; services translate them into DomainErrors.
var (
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateUsername = errors.New("duplicate username")
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
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

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a key/value pair that is echoed to clients as error details.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf reports the DomainError code found in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return CodeValidation
	}
	return CodeInternal
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewConflictError(message string) *DomainError {
	return NewError(CodeConflict, message, nil)
}

func NewUnauthenticatedError(message string) *DomainError {
	return NewError(CodeUnauthenticated, message, nil)
}

func NewTokenExpiredError() *DomainError {
	return NewError(CodeTokenExpired, "Token expired", nil)
}

func NewInvalidTokenError(err error) *DomainError {
	return NewError(CodeInvalidToken, "Invalid token", err)
}

// NewInvalidCredentialsError uses one message for unknown email and wrong password alike.
func NewInvalidCredentialsError() *DomainError {
	return NewError(CodeInvalidCredentials, "Invalid email or password", nil)
}

func NewNotVerifiedError() *DomainError {
	return NewError(CodeNotVerified, "Please verify your email before logging in", nil)
}

func NewInvalidOrExpiredCodeError() *DomainError {
	return NewError(CodeInvalidOrExpired, "Invalid or expired OTP", nil)
}

func NewNoQuestionsAvailableError(category string) *DomainError {
	return NewError(CodeNoQuestionsAvailable, fmt.Sprintf("No questions available for quiz type: %s", category), nil).
		WithContext("quizType", category)
}

func NewTransientError(message string, err error) *DomainError {
	return NewError(CodeTransientFailure, message, err)
}

func NewRateLimitedError(message string) *DomainError {
	return NewError(CodeRateLimited, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

// ValidationError describes one invalid input field.
type ValidationError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field problem found in one request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// OrNil lets validators return a nil error interface when nothing was collected.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: fmt.Sprintf("%s is required", field)}
}

func NewInvalidFormatError(field, message string) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: message}
}

func NewOutOfRangeError(field string, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("%s must be between %d and %d characters", field, min, max),
	}
}
