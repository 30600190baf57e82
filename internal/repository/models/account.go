package models

import (
	"database/sql"
	"time"
)

// Account maps the USERS table.
type Account struct {
	ID                string         `db:"ID"`
	Username          sql.NullString `db:"USERNAME"`
	Email             string         `db:"EMAIL"`
	PasswordHash      sql.NullString `db:"PASSWORD_HASH"`
	IsVerified        int            `db:"IS_VERIFIED"` // NUMBER(1)
	OTPCode           sql.NullString `db:"OTP_CODE"`
	OTPExpiresAt      sql.NullTime   `db:"OTP_EXPIRES_AT"`
	DisplayName       sql.NullString `db:"DISPLAY_NAME"`
	ProfilePictureURL sql.NullString `db:"PROFILE_PICTURE_URL"`
	Provider          string         `db:"PROVIDER"`
	CreatedAt         time.Time      `db:"CREATED_AT"`
	UpdatedAt         time.Time      `db:"UPDATED_AT"`
}
