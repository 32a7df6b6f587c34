package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tmfg/garden/internal/config"
	"github.com/tmfg/garden/internal/database"
	"github.com/tmfg/garden/internal/notify"
)

// stubServer satisfies the handler interfaces without a database. Only the
// request paths that reject before touching storage can be exercised with it.
type stubServer struct {
	cfg *config.Config
	log zerolog.Logger
}

func (s *stubServer) GetDB() *database.DB           { return nil }
func (s *stubServer) GetConfig() *config.Config     { return s.cfg }
func (s *stubServer) GetNotifier() *notify.Notifier { return nil }
func (s *stubServer) GetLogger() *zerolog.Logger    { return &s.log }
func (s *stubServer) GetCurrentUser(r *http.Request) (string, string) {
	return "admin@example.com", "Admin"
}

func newStub() *stubServer {
	return &stubServer{
		cfg: &config.Config{
			StripeWebhookSecret: "whsec_test",
			FrontendURL:         "http://localhost:3000",
			DefaultRegion:       "US",
		},
		log: zerolog.Nop(),
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestHandleRegisterRejectsInvalidJSON(t *testing.T) {
	w := postJSON(t, HandleRegister(newStub()), "/api/services/register", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid JSON body")
}

func TestHandleRegisterRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"missing service", `{"name":"Ana","email":"ana@example.com"}`},
		{"missing name", `{"email":"ana@example.com","serviceId":"svc-1"}`},
		{"bad email", `{"name":"Ana","email":"not-an-email","serviceId":"svc-1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, HandleRegister(newStub()), "/api/services/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleVolunteerSignupRejectsMissingAvailability(t *testing.T) {
	w := postJSON(t, HandleVolunteerSignup(newStub()), "/api/volunteers",
		`{"name":"Ben","email":"ben@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleNewsletterSubscribeRejectsBadEmail(t *testing.T) {
	w := postJSON(t, HandleNewsletterSubscribe(newStub()), "/api/newsletter",
		`{"email":"nope"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateCheckoutSessionRejectsBadAmount(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero amount", `{"amount":0,"donorEmail":"ana@example.com"}`},
		{"negative amount", `{"amount":-5,"donorEmail":"ana@example.com"}`},
		{"sub-dollar amount", `{"amount":0.5,"donorEmail":"ana@example.com"}`},
		{"missing email", `{"amount":25}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, HandleCreateCheckoutSession(newStub()), "/api/donations/create-payment-intent", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleStripeWebhookRejectsMissingSignature(t *testing.T) {
	w := postJSON(t, HandleStripeWebhook(newStub()), "/api/webhooks/stripe", `{"type":"checkout.session.completed"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No signature found")
}

func TestHandleStripeWebhookRejectsBadSignature(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe",
		strings.NewReader(`{"type":"checkout.session.completed"}`))
	req.Header.Set("Stripe-Signature", "t=123,v1=deadbeef")
	w := httptest.NewRecorder()

	HandleStripeWebhook(newStub())(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "signature verification failed")
}

func TestHandleAdminUpdateVolunteerRejectsUnknownStatus(t *testing.T) {
	w := postJSON(t, HandleAdminUpdateVolunteer(newStub()), "/api/admin/volunteers/v1",
		`{"status":"banned"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")
}

func TestHandleAdminUpdateRegistrationRejectsUnknownStatus(t *testing.T) {
	w := postJSON(t, HandleAdminUpdateRegistration(newStub()), "/api/admin/registrations/r1",
		`{"status":"waitlisted"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondDBErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"service not found", database.ErrServiceNotFound, http.StatusNotFound},
		{"schedule not found", database.ErrScheduleNotFound, http.StatusNotFound},
		{"subscriber not found", database.ErrSubscriberNotFound, http.StatusNotFound},
		{"schedule full", database.ErrScheduleFull, http.StatusConflict},
		{"slug taken", database.ErrSlugTaken, http.StatusConflict},
		{"already subscribed", database.ErrAlreadySubscribed, http.StatusConflict},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	log := zerolog.Nop()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondDBError(w, &log, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestDonationAmountCents(t *testing.T) {
	tests := []struct {
		amount float64
		cents  int64
	}{
		{1, 100},
		{19.99, 1999},
		{25.50, 2550},
		{0.01, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.cents, donationAmountCents(tt.amount), "amount %v", tt.amount)
	}
}

func TestNormalizePhone(t *testing.T) {
	cfg := &config.Config{DefaultRegion: "US"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"local formatting becomes E.164", "(415) 555-1234", "+14155551234"},
		{"already E.164", "+14155551234", "+14155551234"},
		{"unparseable kept as entered", "ext. 42", "ext. 42"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePhone(cfg, tt.input))
		})
	}
}

func TestEscapeCSVField(t *testing.T) {
	assert.Equal(t, "plain", escapeCSVField("plain"))
	assert.Equal(t, "say \"\"hi\"\"", escapeCSVField(`say "hi"`))
	assert.Equal(t, "line one line two", escapeCSVField("line one\nline two"))
}
