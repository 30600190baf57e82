package domain

import (
	"context"
	"time"
)

// Provider tags how an account proves its identity.
type Provider string

const (
	ProviderLocal     Provider = "local"
	ProviderFederated Provider = "federated"
)

// OneTimeCode is the short-lived email verification code issued at signup.
type OneTimeCode struct {
	Value     string
	ExpiresAt time.Time
}

// Matches is an exact string comparison that also requires now to be before expiry.
func (c *OneTimeCode) Matches(code string, now time.Time) bool {
	if c == nil {
		return false
	}
	return c.Value == code && now.Before(c.ExpiresAt)
}

func (c *OneTimeCode) Expired(now time.Time) bool {
	return c != nil && !now.Before(c.ExpiresAt)
}

// Account represents a registered user.
type Account struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string // empty for federated accounts
	Verified          bool
	OTP               *OneTimeCode
	DisplayName       string
	ProfilePictureURL string
	Provider          Provider
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewLocalAccount creates an unverified password account holding a pending code.
func NewLocalAccount(username, email, passwordHash string, code OneTimeCode, now time.Time) *Account {
	return &Account{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Verified:     false,
		OTP:          &code,
		Provider:     ProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewFederatedAccount creates an account vouched for by an external provider.
// Federated accounts are verified from the start and never carry a code.
func NewFederatedAccount(username, email, displayName, pictureURL string, now time.Time) *Account {
	return &Account{
		Username:          username,
		Email:             email,
		Verified:          true,
		DisplayName:       displayName,
		ProfilePictureURL: pictureURL,
		Provider:          ProviderFederated,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// MarkVerified flips the verification flag and consumes the pending code.
func (a *Account) MarkVerified(now time.Time) {
	a.Verified = true
	a.OTP = nil
	a.UpdatedAt = now
}

// ClearCode discards the pending code without verifying.
func (a *Account) ClearCode(now time.Time) {
	a.OTP = nil
	a.UpdatedAt = now
}

// IssueCode replaces any pending code.
func (a *Account) IssueCode(code OneTimeCode, now time.Time) {
	a.OTP = &code
	a.UpdatedAt = now
}

// AccountRepository is the Credential Store.
// Lookups return (nil, nil) when no account matches.
type AccountRepository interface {
	// CreateAccount returns ErrDuplicateEmail or ErrDuplicateUsername on a uniqueness violation.
	CreateAccount(ctx context.Context, account *Account) error
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	UpdateAccount(ctx context.Context, account *Account) error
	// UpdateProfilePicture touches only the picture URL and UPDATED_AT.
	UpdateProfilePicture(ctx context.Context, id, url string, updatedAt time.Time) error
}
