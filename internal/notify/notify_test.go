package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeEmailSender struct {
	mu       sync.Mutex
	calls    int
	failures int
	lastTo   string
	lastSubj string
}

func (f *fakeEmailSender) Send(ctx context.Context, to, subject, html, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastTo = to
	f.lastSubj = subject
	if f.calls <= f.failures {
		return errors.New("smtp unavailable")
	}
	return nil
}

type fakeSMSSender struct {
	mu       sync.Mutex
	calls    int
	failures int
	lastTo   string
	lastBody string
}

func (f *fakeSMSSender) Send(ctx context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastTo = to
	f.lastBody = body
	if f.calls <= f.failures {
		return errors.New("gateway timeout")
	}
	return nil
}

func newTestNotifier(email *fakeEmailSender, sms *fakeSMSSender, adminEmail string) *Notifier {
	return New(email, sms, adminEmail, zerolog.Nop())
}

func TestSendRegistrationConfirmation(t *testing.T) {
	email := &fakeEmailSender{}
	n := newTestNotifier(email, &fakeSMSSender{}, "")

	ok := n.SendRegistrationConfirmation(context.Background(),
		"ana@example.com", "Ana", "Composting Workshop", "Monday, March 16, 2026", "10:00 AM - 12:00 PM")

	assert.True(t, ok)
	assert.Equal(t, 1, email.calls)
	assert.Equal(t, "ana@example.com", email.lastTo)
	assert.Contains(t, email.lastSubj, "Composting Workshop")
}

func TestSendRetriesThenSucceeds(t *testing.T) {
	email := &fakeEmailSender{failures: 2}
	n := newTestNotifier(email, &fakeSMSSender{}, "")

	ok := n.SendVolunteerWelcome(context.Background(), "ben@example.com", "Ben")

	assert.True(t, ok)
	assert.Equal(t, 3, email.calls)
}

func TestSendFailureNeverPropagates(t *testing.T) {
	// More failures than the retry budget allows. The notifier must report
	// false and stop, never panic or return an error to the caller.
	email := &fakeEmailSender{failures: 10}
	n := newTestNotifier(email, &fakeSMSSender{}, "")

	ok := n.SendReminderEmail(context.Background(),
		"carla@example.com", "Carla", "Urban Farming 101", "Tuesday, March 17, 2026", "2:00 PM - 4:00 PM")

	assert.False(t, ok)
	assert.Equal(t, 3, email.calls)
}

func TestSendReminderSMS(t *testing.T) {
	sms := &fakeSMSSender{}
	n := newTestNotifier(&fakeEmailSender{}, sms, "")

	ok := n.SendReminderSMS(context.Background(),
		"+14155551234", "Dan", "Kids Garden Club", "Wednesday, March 18, 2026", "1:00 PM - 2:00 PM")

	assert.True(t, ok)
	assert.Equal(t, "+14155551234", sms.lastTo)
	assert.Contains(t, sms.lastBody, "Kids Garden Club")
}

func TestSendAdminAlertWithoutAddressIsNoop(t *testing.T) {
	email := &fakeEmailSender{}
	n := newTestNotifier(email, &fakeSMSSender{}, "")

	ok := n.SendAdminAlert(context.Background(), "New volunteer signup", "Ben applied")

	assert.False(t, ok)
	assert.Equal(t, 0, email.calls)
}

func TestSendAdminAlert(t *testing.T) {
	email := &fakeEmailSender{}
	n := newTestNotifier(email, &fakeSMSSender{}, "staff@example.com")

	ok := n.SendAdminAlert(context.Background(), "New donation", "Ana donated $25.00")

	assert.True(t, ok)
	assert.Equal(t, "staff@example.com", email.lastTo)
}
