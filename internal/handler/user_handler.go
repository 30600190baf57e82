package handler

import (
	"quiz-hub/internal/domain"
	"quiz-hub/internal/middleware"
	"quiz-hub/internal/service"

	"github.com/gofiber/fiber/v2"
)

const profilePictureField = "profilePicture"

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile retrieves the authenticated user's profile.
// @Summary Get my profile
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /auth/profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.userService.GetProfile(c.Context(), middleware.CurrentAccountID(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// UploadProfilePicture replaces the authenticated user's profile picture.
// @Summary Upload profile picture
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param profilePicture formData file true "Image file (max 50MB)"
// @Success 200 {object} dto.ProfilePictureResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /auth/upload-profile-picture [post]
func (h *UserHandler) UploadProfilePicture(c *fiber.Ctx) error {
	header, err := c.FormFile(profilePictureField)
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError(profilePictureField)}
	}

	file, err := header.Open()
	if err != nil {
		return domain.NewInternalError("Failed to read uploaded file", err)
	}
	defer file.Close()

	resp, err := h.userService.UploadProfilePicture(c.Context(), middleware.CurrentAccountID(c), service.ProfileUpload{
		File:        file,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
