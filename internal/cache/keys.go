package cache

import (
	"strings"

	"quiz-hub/internal/domain"
)

const (
	GlobalKeyPrefix = "quizhub"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// QuestionListKey caches the questions of one category; "all" holds the unfiltered list.
func QuestionListKey(category domain.Category) string {
	if category == "" {
		return GenerateCacheKey("question", "list", "all")
	}
	return GenerateCacheKey("question", "list", string(category))
}

func OTPVerifyAttemptsKey(email string) string {
	return GenerateCacheKey("auth", "otp_verify", strings.ToLower(email))
}

func OTPResendRequestsKey(email string) string {
	return GenerateCacheKey("auth", "otp_resend", strings.ToLower(email))
}
