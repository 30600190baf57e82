package validation

import (
	"quiz-hub/internal/domain"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)
	ulidPattern  = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
)

const (
	MinPasswordLength = 6

	MinContactNameLength    = 2
	MaxContactNameLength    = 50
	MinContactMessageLength = 10
	MaxContactMessageLength = 1000
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// NormalizeEmail trims and lower-cases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateSignup checks the three signup fields and rejects disposable addresses.
func (v *Validator) ValidateSignup(username, email, password string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	username = strings.TrimSpace(username)
	if username == "" {
		errors = append(errors, domain.NewMissingFieldError("username"))
	}

	errors = append(errors, v.validateEmail(email, true)...)

	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	} else if utf8.RuneCountInString(password) < MinPasswordLength {
		errors = append(errors, domain.NewInvalidFormatError("password", "password must be at least 6 characters"))
	}

	return errors
}

// ValidateLogin only checks presence; credential mismatch is reported by the auth service.
func (v *Validator) ValidateLogin(email, password string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	}
	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}
	return errors
}

func (v *Validator) ValidateVerifyCode(email, code string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	}
	if strings.TrimSpace(code) == "" {
		errors = append(errors, domain.NewMissingFieldError("otp"))
	}
	return errors
}

func (v *Validator) ValidateEmail(email string) domain.ValidationErrors {
	return v.validateEmail(email, false)
}

func (v *Validator) validateEmail(email string, rejectDisposable bool) domain.ValidationErrors {
	email = NormalizeEmail(email)
	if email == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("email")}
	}
	if !IsValidEmail(email) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("email", "please enter a valid email address")}
	}
	if rejectDisposable && IsDisposableEmail(email) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("email", "disposable email addresses are not allowed")}
	}
	return nil
}

// ValidateContact checks a contact form submission.
func (v *Validator) ValidateContact(name, email, message string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	name = strings.TrimSpace(name)
	if name == "" {
		errors = append(errors, domain.NewMissingFieldError("name"))
	} else if n := utf8.RuneCountInString(name); n < MinContactNameLength || n > MaxContactNameLength {
		errors = append(errors, domain.NewOutOfRangeError("name", MinContactNameLength, MaxContactNameLength))
	}

	errors = append(errors, v.validateEmail(email, false)...)

	message = strings.TrimSpace(message)
	if message == "" {
		errors = append(errors, domain.NewMissingFieldError("message"))
	} else if n := utf8.RuneCountInString(message); n < MinContactMessageLength || n > MaxContactMessageLength {
		errors = append(errors, domain.NewOutOfRangeError("message", MinContactMessageLength, MaxContactMessageLength))
	}

	return errors
}

// ValidateQuizType validates a category path parameter.
func (v *Validator) ValidateQuizType(quizType string) (domain.Category, domain.ValidationErrors) {
	if strings.TrimSpace(quizType) == "" {
		return "", domain.ValidationErrors{domain.NewMissingFieldError("quizType")}
	}
	category, ok := domain.ParseCategory(quizType)
	if !ok {
		return "", domain.ValidationErrors{domain.NewInvalidFormatError("quizType", "unknown quiz type: "+quizType)}
	}
	return category, nil
}

// ValidateID validates a ULID path parameter.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !IsValidULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, "malformed id")}
	}
	return nil
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidULID checks if the string is a valid ULID format
func IsValidULID(s string) bool {
	return ulidPattern.MatchString(s)
}
