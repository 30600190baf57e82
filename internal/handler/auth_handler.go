package handler

import (
	"net/url"
	"time"

	"quiz-hub/internal/config"
	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/service"
	"quiz-hub/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const oauthStateCookieName = "oauthstate"

type AuthHandler struct {
	authService service.AuthService
	oauthCfg    config.GoogleOAuthConfig
}

func NewAuthHandler(authService service.AuthService, oauthCfg config.GoogleOAuthConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		oauthCfg:    oauthCfg,
	}
}

// Signup registers an unverified account and mails a one-time code.
// @Summary Register a new account
// @Description Creates an unverified account and sends a 6-digit code to the email address.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.SignupRequest true "Signup details"
// @Success 201 {object} dto.SignupResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}

	resp, err := h.authService.RequestSignup(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// VerifyOTP verifies the emailed code.
// @Summary Verify email with OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.VerifyOTPRequest true "Email and code"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid or expired OTP"
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 429 {object} middleware.ErrorResponse
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}

	if err := h.authService.VerifyCode(c.Context(), req.Email, req.OTP); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Email verified successfully"})
}

// ResendOTP issues a fresh code for an unverified account.
// @Summary Resend verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.ResendOTPRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Already verified"
// @Failure 429 {object} middleware.ErrorResponse
// @Router /auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req dto.ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}

	if err := h.authService.ResendCode(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "A new verification code has been sent"})
}

// Login exchanges email and password for a bearer token.
// @Summary Password login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse "Email not verified"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}

	resp, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GoogleTokenLogin accepts a Google access token obtained by the client.
// @Summary Google login with token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.GoogleLoginRequest true "Google access token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /auth/google-login [post]
func (h *AuthHandler) GoogleTokenLogin(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}

	resp, err := h.authService.LoginWithFederatedIdentity(c.Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GoogleLogin initiates the Google OAuth2 login flow.
// @Summary Initiate Google Login
// @Description Redirects the user to Google's OAuth2 consent page.
// @Tags auth
// @Success 307 {string} string "Redirects to Google"
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	state, err := util.RandomToken(32)
	if err != nil {
		return domain.NewInternalError("Could not generate state for OAuth flow", err)
	}

	loginURL, err := h.authService.GoogleLoginURL(state)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})
	return c.Redirect(loginURL, fiber.StatusTemporaryRedirect)
}

// GoogleCallback handles the callback from Google OAuth2.
// @Summary Google OAuth2 Callback
// @Description Exchanges the authorization code and issues a bearer token.
// @Tags auth
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State string for CSRF protection"
// @Success 200 {object} dto.LoginResponse
// @Success 307 {string} string "Redirects to the frontend with ?token="
// @Failure 400 {object} middleware.ErrorResponse "Invalid state or code"
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	receivedState := c.Query("state")
	expectedState := c.Cookies(oauthStateCookieName)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})

	if receivedState == "" || expectedState == "" || receivedState != expectedState {
		logger.Get().Warn("OAuth state mismatch", zap.String("received", receivedState))
		return domain.NewValidationError("OAuth state mismatch or missing")
	}

	resp, err := h.authService.CompleteGoogleLogin(c.Context(), code)
	if err != nil {
		return err
	}

	if h.oauthCfg.FrontendRedirectURL != "" {
		target, err := url.Parse(h.oauthCfg.FrontendRedirectURL)
		if err != nil {
			return domain.NewInternalError("Invalid frontend redirect url", err)
		}
		q := target.Query()
		q.Set("token", resp.Token)
		target.RawQuery = q.Encode()
		return c.Redirect(target.String(), fiber.StatusTemporaryRedirect)
	}
	return c.JSON(resp)
}
