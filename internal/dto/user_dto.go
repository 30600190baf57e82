package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GoogleUserInfo holds user information obtained from Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

// AuthClaims carries the account id as the token's only application claim.
type AuthClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// SignupRequest represents the body of POST /api/auth/signup
// @Description Request body for account registration
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse is returned once the verification code has been dispatched.
type SignupResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// VerifyOTPRequest represents the body of POST /api/auth/verify-otp
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResendOTPRequest represents the body of POST /api/auth/resend-otp
type ResendOTPRequest struct {
	Email string `json:"email"`
}

// LoginRequest represents the body of POST /api/auth/login
// @Description Request body for password login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries a Google OAuth access token obtained by the client.
type GoogleLoginRequest struct {
	Token string `json:"token"`
}

// UserResponse is the public-safe projection of an account. It never carries the password hash.
type UserResponse struct {
	ID                string    `json:"id"`
	Username          string    `json:"username,omitempty"`
	Email             string    `json:"email"`
	Name              string    `json:"name,omitempty"`
	ProfilePictureURL string    `json:"profilePicture,omitempty"`
	IsVerified        bool      `json:"isVerified"`
	Provider          string    `json:"provider"`
	CreatedAt         time.Time `json:"createdAt"`
}

// LoginResponse represents a successful login.
// @Description Bearer token and user projection
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfilePictureResponse is returned after a successful upload.
type ProfilePictureResponse struct {
	Message           string       `json:"message"`
	ProfilePictureURL string       `json:"profilePicture"`
	User              UserResponse `json:"user"`
}

// Pagination defines parameters for paginated requests.
type Pagination struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
	Page   int `query:"page"`
}

// Normalize fills defaults and derives Offset from Page when given.
func (p Pagination) Normalize(defaultLimit, maxLimit int) Pagination {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Page > 0 {
		p.Offset = (p.Page - 1) * p.Limit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PaginationInfo defines pagination details for responses.
type PaginationInfo struct {
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
	Offset      int   `json:"offset"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
}

func NewPaginationInfo(total int, p Pagination) PaginationInfo {
	info := PaginationInfo{TotalItems: int64(total), Limit: p.Limit, Offset: p.Offset}
	if p.Limit > 0 {
		info.CurrentPage = p.Offset/p.Limit + 1
		info.TotalPages = (total + p.Limit - 1) / p.Limit
	}
	return info
}
