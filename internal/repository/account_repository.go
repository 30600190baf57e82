package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/repository/models"
	"quiz-hub/internal/util"
)

const accountColumns = `ID, USERNAME, EMAIL, PASSWORD_HASH, IS_VERIFIED, OTP_CODE, OTP_EXPIRES_AT, ` +
	`DISPLAY_NAME, PROFILE_PICTURE_URL, PROVIDER, CREATED_AT, UPDATED_AT`

// sqlxAccountRepository implements domain.AccountRepository using sqlx.
type sqlxAccountRepository struct {
	db DBTX
}

// NewSQLXAccountRepository creates a new instance of sqlxAccountRepository.
func NewSQLXAccountRepository(db DBTX) domain.AccountRepository {
	return &sqlxAccountRepository{db: db}
}

func toDomainAccount(m *models.Account) *domain.Account {
	if m == nil {
		return nil
	}
	acc := &domain.Account{
		ID:                m.ID,
		Username:          m.Username.String,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash.String,
		Verified:          m.IsVerified == 1,
		DisplayName:       m.DisplayName.String,
		ProfilePictureURL: m.ProfilePictureURL.String,
		Provider:          domain.Provider(m.Provider),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.OTPCode.Valid {
		acc.OTP = &domain.OneTimeCode{Value: m.OTPCode.String, ExpiresAt: m.OTPExpiresAt.Time}
	}
	return acc
}

func fromDomainAccount(a *domain.Account) *models.Account {
	if a == nil {
		return nil
	}
	m := &models.Account{
		ID:                a.ID,
		Username:          util.StringToNullString(a.Username),
		Email:             a.Email,
		PasswordHash:      util.StringToNullString(a.PasswordHash),
		IsVerified:        util.BoolToInt(a.Verified),
		DisplayName:       util.StringToNullString(a.DisplayName),
		ProfilePictureURL: util.StringToNullString(a.ProfilePictureURL),
		Provider:          string(a.Provider),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if a.OTP != nil {
		m.OTPCode = util.StringToNullString(a.OTP.Value)
		m.OTPExpiresAt = util.TimeToNullTime(a.OTP.ExpiresAt)
	}
	return m
}

// CreateAccount inserts a new account. The EMAIL and USERNAME unique constraints
// decide concurrent signups for the same address.
func (r *sqlxAccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = util.NewULID()
	}
	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = account.CreatedAt

	query := `INSERT INTO users (` + accountColumns + `)
	          VALUES (:ID, :USERNAME, :EMAIL, :PASSWORD_HASH, :IS_VERIFIED, :OTP_CODE, :OTP_EXPIRES_AT,
	                  :DISPLAY_NAME, :PROFILE_PICTURE_URL, :PROVIDER, :CREATED_AT, :UPDATED_AT)`

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainAccount(account))
	if err != nil {
		if isUniqueViolation(err) {
			if violatesConstraint(err, usernameConstraintKey) {
				return fmt.Errorf("failed to create account: %w", domain.ErrDuplicateUsername)
			}
			return fmt.Errorf("failed to create account: %w", domain.ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByEmail retrieves an account by its normalized email.
func (r *sqlxAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var m models.Account
	query := `SELECT ` + accountColumns + ` FROM users WHERE EMAIL = :1`

	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return toDomainAccount(&m), nil
}

// GetAccountByID retrieves an account by its ID.
func (r *sqlxAccountRepository) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	var m models.Account
	query := `SELECT ` + accountColumns + ` FROM users WHERE ID = :1`

	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}
	return toDomainAccount(&m), nil
}

// UpdateAccount writes the mutable columns: verification state, pending code and profile fields.
func (r *sqlxAccountRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = time.Now()
	}

	query := `UPDATE users SET
	            USERNAME = :USERNAME,
	            PASSWORD_HASH = :PASSWORD_HASH,
	            IS_VERIFIED = :IS_VERIFIED,
	            OTP_CODE = :OTP_CODE,
	            OTP_EXPIRES_AT = :OTP_EXPIRES_AT,
	            DISPLAY_NAME = :DISPLAY_NAME,
	            PROFILE_PICTURE_URL = :PROFILE_PICTURE_URL,
	            UPDATED_AT = :UPDATED_AT
	          WHERE ID = :ID`

	result, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainAccount(account))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to update account: %w", domain.ErrDuplicateUsername)
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("failed to update account %s: %w", account.ID, sql.ErrNoRows)
	}
	return nil
}

// UpdateProfilePicture sets only the picture URL so a concurrent verification or code issue is not overwritten.
func (r *sqlxAccountRepository) UpdateProfilePicture(ctx context.Context, id, url string, updatedAt time.Time) error {
	query := `UPDATE users SET PROFILE_PICTURE_URL = :1, UPDATED_AT = :2 WHERE ID = :3`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, url, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("failed to update profile picture %s: %w", id, sql.ErrNoRows)
	}
	return nil
}
