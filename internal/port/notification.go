package port

import "context"

// NotificationSender delivers one-time codes to account holders.
type NotificationSender interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}
