package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/leaguehq/leaguehq-auth/pkg/logger"
)

// EmailSender delivers the two transactional emails the auth flows produce.
type EmailSender interface {
	SendVerification(ctx context.Context, to, name, tenant, code string) error
	SendPasswordReset(ctx context.Context, to, name, tenant, opaqueID string) error
}

// AWSSESEmailSender sends emails using AWS SES.
type AWSSESEmailSender struct {
	sesClient   *ses.Client
	fromAddress string
	baseURL     string
	logger      *slog.Logger
}

func NewAWSSESEmailSender(region, fromAddress, baseURL string, log *slog.Logger) (*AWSSESEmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailSender{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		baseURL:     baseURL,
		logger:      log,
	}, nil
}

// SendVerification emails the account-activation link.
func (s *AWSSESEmailSender) SendVerification(ctx context.Context, to, name, tenant, code string) error {
	link := fmt.Sprintf("%s/verify/%s/%s", s.baseURL, tenant, code)

	textBody := fmt.Sprintf(`Hi %s,

Welcome! Please confirm your email address to activate your account:

%s

If you didn't sign up, you can ignore this email.
`, name, link)

	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>Welcome! Please confirm your email address to activate your account:</p>
<p><a href="%s">Activate account</a></p>
<p>If you didn't sign up, you can ignore this email.</p>
`, name, link)

	return s.send(ctx, to, "Confirm your email address", textBody, htmlBody, "verification")
}

// SendPasswordReset emails the reset link. The link expires; the body says
// so without stating the exact window, which is server policy.
func (s *AWSSESEmailSender) SendPasswordReset(ctx context.Context, to, name, tenant, opaqueID string) error {
	link := fmt.Sprintf("%s/reset-password?urlId=%s", s.baseURL, opaqueID)

	textBody := fmt.Sprintf(`Hi %s,

A password reset was requested for your account. Use the link below to choose a new password:

%s

The link can be used once and expires shortly. If you didn't request this, you can ignore this email.
`, name, link)

	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>A password reset was requested for your account. Use the link below to choose a new password:</p>
<p><a href="%s">Reset password</a></p>
<p>The link can be used once and expires shortly. If you didn't request this, you can ignore this email.</p>
`, name, link)

	return s.send(ctx, to, "Reset your password", textBody, htmlBody, "password_reset")
}

func (s *AWSSESEmailSender) send(ctx context.Context, to, subject, textBody, htmlBody, kind string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send email via SES",
			slog.String("kind", kind),
			slog.String("email", logger.MaskEmail(to)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	s.logger.Info("email sent",
		slog.String("kind", kind),
		slog.String("email", logger.MaskEmail(to)),
		slog.String("message_id", aws.ToString(result.MessageId)))
	return nil
}
