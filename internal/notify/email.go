package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// EmailSender delivers a single email. Implementations return an error on
// provider failure; callers decide whether that failure matters.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

type resendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender builds an EmailSender backed by the Resend API. from must be
// an address under a domain verified with Resend.
func NewResendSender(apiKey, from string) EmailSender {
	return &resendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *resendSender) Send(ctx context.Context, to, subject, html, text string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("The Morning Family Garden <%s>", s.from),
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}
