package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	accountID string
	err       error
	lastToken string
}

func (s *stubAuthenticator) AuthenticateRequest(ctx context.Context, token string) (string, error) {
	s.lastToken = token
	return s.accountID, s.err
}

func newProtectedApp(auth middleware.RequestAuthenticator) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/me", middleware.Protected(auth), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentAccountID(c))
	})
	return app
}

func decodeError(t *testing.T, resp *http.Response) middleware.ErrorResponse {
	t.Helper()
	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestProtected(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		stub       *stubAuthenticator
		wantStatus int
		wantCode   domain.ErrorCode
	}{
		{"missing header", "", &stubAuthenticator{}, http.StatusUnauthorized, domain.CodeUnauthenticated},
		{"wrong scheme", "Basic abc", &stubAuthenticator{}, http.StatusUnauthorized, domain.CodeUnauthenticated},
		{"expired", "Bearer t", &stubAuthenticator{err: domain.NewTokenExpiredError()}, http.StatusUnauthorized, domain.CodeTokenExpired},
		{"invalid", "Bearer t", &stubAuthenticator{err: domain.NewInvalidTokenError(nil)}, http.StatusUnauthorized, domain.CodeInvalidToken},
		{"account gone", "Bearer t", &stubAuthenticator{err: domain.NewNotFoundError("User not found")}, http.StatusNotFound, domain.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newProtectedApp(tt.stub)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.authHeader != "" {
				req.Header.Set(middleware.AuthorizationHeader, tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, string(tt.wantCode), decodeError(t, resp).Code)
		})
	}
}

func TestProtected_SetsAccountID(t *testing.T) {
	stub := &stubAuthenticator{accountID: "01HZX3Q4J8K9M2N5P6R7S8T9VW"}
	app := newProtectedApp(stub)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(middleware.AuthorizationHeader, "Bearer signed.jwt.value")

	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "01HZX3Q4J8K9M2N5P6R7S8T9VW", string(body))
	assert.Equal(t, "signed.jwt.value", stub.lastToken)
}
