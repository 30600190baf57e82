package service

import (
	"context"
	"fmt"
	"time"

	"quiz-hub/internal/cache"
	"quiz-hub/internal/config"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter throttles OTP verification and resend requests per email.
type AttemptLimiter interface {
	AllowVerify(ctx context.Context, email string) (bool, error)
	AllowResend(ctx context.Context, email string) (bool, error)
	// Reset clears the counters once an account is verified.
	Reset(ctx context.Context, email string) error
}

// VerificationLimiter keeps fixed-window counters in redis.
type VerificationLimiter struct {
	client     redis.Cmdable
	maxVerify  int
	maxResend  int
	windowSize time.Duration
}

func NewVerificationLimiter(client redis.Cmdable, otpCfg config.OTPConfig) *VerificationLimiter {
	return &VerificationLimiter{
		client:     client,
		maxVerify:  otpCfg.MaxVerifyAttempts,
		maxResend:  otpCfg.MaxResendRequests,
		windowSize: otpCfg.Window,
	}
}

func (l *VerificationLimiter) AllowVerify(ctx context.Context, email string) (bool, error) {
	return l.allow(ctx, cache.OTPVerifyAttemptsKey(email), l.maxVerify)
}

func (l *VerificationLimiter) AllowResend(ctx context.Context, email string) (bool, error) {
	return l.allow(ctx, cache.OTPResendRequestsKey(email), l.maxResend)
}

func (l *VerificationLimiter) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, cache.OTPVerifyAttemptsKey(email), cache.OTPResendRequestsKey(email)).Err(); err != nil {
		return fmt.Errorf("reset otp counters: %w", err)
	}
	return nil
}

// allow counts this request and reports whether it is within limit. A limit <= 0 disables the check.
func (l *VerificationLimiter) allow(ctx context.Context, key string, limit int) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", key, err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.windowSize).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return n <= int64(limit), nil
}
