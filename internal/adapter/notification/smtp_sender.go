package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"quiz-hub/internal/config"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/port"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const verificationSubject = "Your OTP Code"

//go:embed templates/*.html
var templateFS embed.FS

var verificationTemplate = template.Must(template.ParseFS(templateFS, "templates/verification_email.html"))

// mailClient is the part of *mail.Client the sender uses.
type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPNotificationSender mails one-time codes through an authenticated SMTP relay.
type SMTPNotificationSender struct {
	client mailClient
	from   string
	ttl    time.Duration
}

// NewSMTPClient builds a go-mail client for the configured relay.
func NewSMTPClient(cfg config.SMTPConfig) (*mail.Client, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client, nil
}

func NewSMTPNotificationSender(client mailClient, from string, codeTTL time.Duration) port.NotificationSender {
	return &SMTPNotificationSender{client: client, from: from, ttl: codeTTL}
}

func (s *SMTPNotificationSender) SendVerificationCode(ctx context.Context, email, code string) error {
	body, err := renderVerificationEmail(code, s.ttl)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(email); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(verificationSubject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		logger.Get().Error("Failed to send verification email", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	logger.Get().Info("Verification email sent", zap.String("email", email))
	return nil
}

func renderVerificationEmail(code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Code       string
		TTLMinutes int
	}{Code: code, TTLMinutes: int(ttl / time.Minute)}
	if err := verificationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return buf.String(), nil
}
