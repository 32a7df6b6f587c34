package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/tmfg/garden/internal/database"
)

type donationRequest struct {
	Amount     float64 `json:"amount" validate:"required,gte=1"`
	DonorName  string  `json:"donorName"`
	DonorEmail string  `json:"donorEmail" validate:"required,email"`
	Message    string  `json:"message"`
}

// HandleCreateCheckoutSession starts a Stripe Checkout flow for a donation.
// No donation row is written here; the record is created only when the
// webhook confirms payment.
func HandleCreateCheckoutSession(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req donationRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		cfg := s.GetConfig()
		donorName := req.DonorName
		if donorName == "" {
			donorName = "Anonymous"
		}

		params := &stripe.CheckoutSessionParams{
			PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
			LineItems: []*stripe.CheckoutSessionLineItemParams{
				{
					PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
						Currency: stripe.String("usd"),
						ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
							Name:        stripe.String("Donation to The Morning Family Garden"),
							Description: stripe.String(donationDescription(req.Message)),
						},
						UnitAmount: stripe.Int64(donationAmountCents(req.Amount)),
					},
					Quantity: stripe.Int64(1),
				},
			},
			Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
			SuccessURL:    stripe.String(cfg.FrontendURL + "/donate/success?session_id={CHECKOUT_SESSION_ID}"),
			CancelURL:     stripe.String(cfg.FrontendURL + "/donate?canceled=true"),
			CustomerEmail: stripe.String(req.DonorEmail),
		}
		params.AddMetadata("donorName", donorName)
		params.AddMetadata("donorEmail", req.DonorEmail)
		params.AddMetadata("message", req.Message)

		sess, err := session.New(params)
		if err != nil {
			s.GetLogger().Error().Err(err).Msg("failed to create checkout session")
			respondError(w, http.StatusInternalServerError, "Failed to create payment session")
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{
			"sessionId": sess.ID,
			"url":       sess.URL,
		})
	}
}

// donationAmountCents converts a dollar amount to cents. Rounded, not
// truncated: 19.99 must charge 1999 cents, not 1998.
func donationAmountCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func donationDescription(message string) string {
	if message != "" {
		return message
	}
	return "Support our community garden initiatives"
}

const webhookBodyLimit = 64 * 1024

// HandleStripeWebhook records a donation once Stripe confirms payment. The
// signature is verified against the configured webhook secret before anything
// else; a mismatch is a 400. The thank-you email never delays the 200 ack.
func HandleStripeWebhook(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
		if err != nil {
			respondError(w, http.StatusBadRequest, "Failed to read request body")
			return
		}

		sig := r.Header.Get("Stripe-Signature")
		if sig == "" {
			respondError(w, http.StatusBadRequest, "No signature found")
			return
		}

		event, err := webhook.ConstructEvent(payload, sig, s.GetConfig().StripeWebhookSecret)
		if err != nil {
			s.GetLogger().Warn().Err(err).Msg("webhook signature verification failed")
			respondError(w, http.StatusBadRequest, "Webhook signature verification failed")
			return
		}

		switch event.Type {
		case stripe.EventTypeCheckoutSessionCompleted:
			var sess stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
				respondError(w, http.StatusBadRequest, "Malformed event payload")
				return
			}
			recordDonation(r.Context(), s, &sess)

		case stripe.EventTypePaymentIntentPaymentFailed:
			s.GetLogger().Warn().Str("event_id", event.ID).Msg("payment failed")

		default:
			s.GetLogger().Debug().Str("type", string(event.Type)).Msg("unhandled webhook event type")
		}

		respondJSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}

func recordDonation(ctx context.Context, s Server, sess *stripe.CheckoutSession) {
	donorName := sess.Metadata["donorName"]
	if donorName == "" {
		donorName = "Anonymous"
	}
	donorEmail := sess.CustomerEmail
	if donorEmail == "" {
		donorEmail = sess.Metadata["donorEmail"]
	}
	currency := string(sess.Currency)
	if currency == "" {
		currency = "usd"
	}
	var paymentID string
	if sess.PaymentIntent != nil {
		paymentID = sess.PaymentIntent.ID
	}

	d := &database.Donation{
		Amount:          float64(sess.AmountTotal) / 100,
		Currency:        currency,
		DonorName:       donorName,
		DonorEmail:      donorEmail,
		StripePaymentID: paymentID,
		Status:          "succeeded",
	}
	if msg := sess.Metadata["message"]; msg != "" {
		d.Message = &msg
	}

	created, err := s.GetDB().CreateDonation(ctx, d)
	if err != nil {
		s.GetLogger().Error().Err(err).Msg("failed to record donation")
		return
	}

	s.GetLogger().Info().Str("donation_id", created.ID).Float64("amount", created.Amount).
		Msg("donation recorded")

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	n := s.GetNotifier()
	if created.DonorEmail != "" {
		n.SendDonationThankYou(sendCtx, created.DonorEmail, created.DonorName, created.Amount)
	}
	n.SendAdminAlert(sendCtx, "New Donation Received",
		fmt.Sprintf("New donation:\n\nAmount: $%.2f\nDonor: %s\nEmail: %s",
			created.Amount, created.DonorName, created.DonorEmail))
}
