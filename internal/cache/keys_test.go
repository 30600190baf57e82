package cache

import (
	"testing"

	"quiz-hub/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "user",
			objectType:  "profile",
			identifier:  "123",
			expectedKey: "quizhub:user:profile:123",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "user",
			objectType:  "profile",
			identifier:  "123",
			paramsKey:   []string{},
			expectedKey: "quizhub:user:profile:123",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "question",
			objectType:  "list",
			identifier:  "math",
			paramsKey:   []string{"page1", "limit10"},
			expectedKey: "quizhub:question:list:math:page1_limit10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedKey, GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...))
		})
	}
}

func TestNamedKeys(t *testing.T) {
	assert.Equal(t, "quizhub:question:list:math", QuestionListKey(domain.CategoryMath))
	assert.Equal(t, "quizhub:question:list:all", QuestionListKey(""))
	assert.Equal(t, "quizhub:auth:otp_verify:alice@ok.com", OTPVerifyAttemptsKey("Alice@OK.com"))
	assert.Equal(t, "quizhub:auth:otp_resend:alice@ok.com", OTPResendRequestsKey("alice@ok.com"))
}
