package service

import (
	"context"
	"io"
	"strings"
	"time"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/port"

	"go.uber.org/zap"
)

// MaxProfileImageBytes bounds profile picture uploads.
const MaxProfileImageBytes = 50 * 1024 * 1024

// UserService defines the interface for profile operations.
type UserService interface {
	GetProfile(ctx context.Context, accountID string) (*dto.UserResponse, error)
	UploadProfilePicture(ctx context.Context, accountID string, upload ProfileUpload) (*dto.ProfilePictureResponse, error)
}

// ProfileUpload is one multipart file as received by the handler.
type ProfileUpload struct {
	File        io.Reader
	ContentType string
	Size        int64
}

type userServiceImpl struct {
	accounts domain.AccountRepository
	images   port.ImageStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(accounts domain.AccountRepository, images port.ImageStore) UserService {
	return &userServiceImpl{accounts: accounts, images: images}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, accountID string) (*dto.UserResponse, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(account)
	return &resp, nil
}

func (s *userServiceImpl) UploadProfilePicture(ctx context.Context, accountID string, upload ProfileUpload) (*dto.ProfilePictureResponse, error) {
	if upload.File == nil {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("profilePicture")}
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("profilePicture", "Only image files are allowed!")}
	}
	if upload.Size > MaxProfileImageBytes {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("profilePicture", "File size exceeds 50MB limit")}
	}
	if s.images == nil {
		return nil, domain.NewInternalError("Image hosting is not configured", nil)
	}

	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	url, err := s.images.UploadProfileImage(ctx, account.ID, upload.File)
	if err != nil {
		logger.Get().Error("Profile picture upload failed", zap.String("accountID", account.ID), zap.Error(err))
		return nil, domain.NewTransientError("Failed to upload image", err)
	}

	now := time.Now()
	if err := s.accounts.UpdateProfilePicture(ctx, account.ID, url, now); err != nil {
		return nil, domain.NewTransientError("Failed to update profile picture", err)
	}
	account.ProfilePictureURL = url
	account.UpdatedAt = now

	logger.Get().Info("Profile picture updated", zap.String("accountID", account.ID))
	return &dto.ProfilePictureResponse{
		Message:           "Profile picture updated successfully",
		ProfilePictureURL: url,
		User:              toUserResponse(account),
	}, nil
}

func (s *userServiceImpl) findAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, domain.NewTransientError("Failed to look up account", err)
	}
	if account == nil {
		return nil, domain.NewNotFoundError("User not found")
	}
	return account, nil
}

// toUserResponse projects an account for clients. The password hash never leaves the service.
func toUserResponse(a *domain.Account) dto.UserResponse {
	return dto.UserResponse{
		ID:                a.ID,
		Username:          a.Username,
		Email:             a.Email,
		Name:              a.DisplayName,
		ProfilePictureURL: a.ProfilePictureURL,
		IsVerified:        a.Verified,
		Provider:          string(a.Provider),
		CreatedAt:         a.CreatedAt,
	}
}
