package middleware

import (
	"context"
	"strings"

	"quiz-hub/internal/domain"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing the account id in fiber.Ctx locals
)

// RequestAuthenticator resolves a bearer token into an account id.
type RequestAuthenticator interface {
	AuthenticateRequest(ctx context.Context, bearerToken string) (string, error)
}

// Protected rejects requests without a valid bearer token and stores the account id in the context.
// Failures are returned to the ErrorHandler, which renders them as 401/404.
func Protected(auth RequestAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return domain.NewUnauthenticatedError("No token, authorization denied")
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return domain.NewUnauthenticatedError("Authorization scheme is not Bearer")
		}

		accountID, err := auth.AuthenticateRequest(c.Context(), strings.TrimPrefix(authHeader, BearerSchema))
		if err != nil {
			return err
		}

		c.Locals(UserIDKey, accountID)
		return c.Next()
	}
}

// CurrentAccountID returns the id set by Protected, or "" on unprotected routes.
func CurrentAccountID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
