package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional emails.
type EmailService interface {
	SendAccessCode(ctx context.Context, toEmail, respondentName, testName, accessCode, idempotencyKey string) error
}

// NoopEmailService is used when email delivery is not configured.
type NoopEmailService struct{}

func (s *NoopEmailService) SendAccessCode(ctx context.Context, toEmail, respondentName, testName, accessCode, idempotencyKey string) error {
	log.Printf("[EmailService] noop send access code to=%s test=%q", toEmail, testName)
	return nil
}

// ResendEmailService sends emails via Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendAccessCode(ctx context.Context, toEmail, respondentName, testName, accessCode, idempotencyKey string) error {
	if toEmail == "" || accessCode == "" {
		return fmt.Errorf("toEmail and accessCode are required")
	}

	greeting := "Hello"
	if strings.TrimSpace(respondentName) != "" {
		greeting = "Hello " + strings.TrimSpace(respondentName)
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Your access code for %s", testName),
		Text: fmt.Sprintf("%s,\n\nThe test %q is now active. Use this access code together with your email address to sign in:\n\n%s\n",
			greeting, testName, accessCode),
		Html: fmt.Sprintf("<p>%s,</p><p>The test <strong>%s</strong> is now active. Use this access code together with your email address to sign in:</p><p><code>%s</code></p>",
			greeting, testName, accessCode),
	}

	options := &resend.SendEmailOptions{}
	if strings.TrimSpace(idempotencyKey) != "" {
		options.IdempotencyKey = strings.TrimSpace(idempotencyKey)
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && (netErr.Timeout() || netErr.Temporary()) {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
