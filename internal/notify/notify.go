// Package notify delivers best-effort email and SMS notifications. Delivery
// failures are retried, then logged and reported as a bool; they never
// propagate as errors, so a failed notification can never fail the request
// that triggered it.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

type Notifier struct {
	email      EmailSender
	sms        SMSSender
	adminEmail string
	log        zerolog.Logger
}

func New(email EmailSender, sms SMSSender, adminEmail string, log zerolog.Logger) *Notifier {
	return &Notifier{
		email:      email,
		sms:        sms,
		adminEmail: adminEmail,
		log:        log,
	}
}

// attempt runs send with exponential backoff and reports whether it ever
// succeeded. The final error is logged, not returned.
func (n *Notifier) attempt(ctx context.Context, kind, recipient string, send func(context.Context) error) bool {
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := send(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		n.log.Warn().Err(err).Str("kind", kind).Str("recipient", recipient).
			Msg("notification delivery failed")
		return false
	}
	n.log.Info().Str("kind", kind).Str("recipient", recipient).
		Msg("notification delivered")
	return true
}

// SendRegistrationConfirmation emails a registrant after intake.
func (n *Notifier) SendRegistrationConfirmation(ctx context.Context, to, name, serviceTitle, scheduleDate, scheduleTime string) bool {
	subject, html, text := registrationEmail(name, serviceTitle, scheduleDate, scheduleTime)
	return n.attempt(ctx, "registration_email", to, func(ctx context.Context) error {
		return n.email.Send(ctx, to, subject, html, text)
	})
}

// SendRegistrationSMS texts a registrant after intake. Callers gate on E.164
// validity before calling.
func (n *Notifier) SendRegistrationSMS(ctx context.Context, phone, name, serviceTitle, scheduleDate, scheduleTime string) bool {
	body := registrationSMS(name, serviceTitle, scheduleDate, scheduleTime)
	return n.attempt(ctx, "registration_sms", phone, func(ctx context.Context) error {
		return n.sms.Send(ctx, phone, body)
	})
}

// SendReminderEmail emails a confirmed registrant the day before a session.
func (n *Notifier) SendReminderEmail(ctx context.Context, to, name, serviceTitle, scheduleDate, scheduleTime string) bool {
	subject, html, text := reminderEmail(name, serviceTitle, scheduleDate, scheduleTime)
	return n.attempt(ctx, "reminder_email", to, func(ctx context.Context) error {
		return n.email.Send(ctx, to, subject, html, text)
	})
}

// SendReminderSMS texts a confirmed registrant the day before a session.
func (n *Notifier) SendReminderSMS(ctx context.Context, phone, name, serviceTitle, scheduleDate, scheduleTime string) bool {
	body := reminderSMS(name, serviceTitle, scheduleDate, scheduleTime)
	return n.attempt(ctx, "reminder_sms", phone, func(ctx context.Context) error {
		return n.sms.Send(ctx, phone, body)
	})
}

// SendVolunteerWelcome emails a new volunteer applicant.
func (n *Notifier) SendVolunteerWelcome(ctx context.Context, to, name string) bool {
	subject, html, text := volunteerWelcomeEmail(name)
	return n.attempt(ctx, "volunteer_welcome", to, func(ctx context.Context) error {
		return n.email.Send(ctx, to, subject, html, text)
	})
}

// SendDonationThankYou emails a donor once the payment provider confirms.
func (n *Notifier) SendDonationThankYou(ctx context.Context, to, name string, amount float64) bool {
	subject, html, text := donationThankYouEmail(name, amount)
	return n.attempt(ctx, "donation_thank_you", to, func(ctx context.Context) error {
		return n.email.Send(ctx, to, subject, html, text)
	})
}

// SendAdminAlert emails the configured admin address. A no-op when no admin
// email is configured.
func (n *Notifier) SendAdminAlert(ctx context.Context, subject, text string) bool {
	if n.adminEmail == "" {
		return false
	}
	return n.attempt(ctx, "admin_alert", n.adminEmail, func(ctx context.Context) error {
		return n.email.Send(ctx, n.adminEmail, subject, "", text)
	})
}
