package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	config "github.com/gameplannr/backend/configs"
)

// ErrProviderUnavailable marks transient Stripe failures the caller may
// retry with backoff. A retry must go through a fresh checkout-open call,
// never a blind re-send, so no duplicate provider transactions get
// created.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

const stripeAPIBase = "https://api.stripe.com"

// BookingFeeCents is the flat GamePlannr booking fee charged per session.
const BookingFeeCents = 400

var stripeClient = &http.Client{Timeout: 10 * time.Second}

// CheckoutSession is the subset of Stripe's checkout session object this
// service cares about.
type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentIntent string `json:"payment_intent"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
}

// CreateCheckoutSession opens a hosted-checkout transaction for the given
// booking session. The internal session id rides along as metadata so the
// webhook can be matched back to the booking.
func CreateCheckoutSession(sessionID, mentorName, sessionDate, sessionTime, parentEmail string) (*CheckoutSession, error) {
	siteURL := config.Config("SITE_URL")

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][product_data][name]", "GamePlannr Booking Fee")
	form.Set("line_items[0][price_data][product_data][description]", fmt.Sprintf("%s - %s at %s", mentorName, sessionDate, sessionTime))
	form.Set("line_items[0][price_data][unit_amount]", strconv.Itoa(BookingFeeCents))
	form.Set("line_items[0][quantity]", "1")
	form.Set("customer_email", parentEmail)
	form.Set("success_url", fmt.Sprintf("%s/payment-success?session_id={CHECKOUT_SESSION_ID}&session_db_id=%s", siteURL, sessionID))
	form.Set("cancel_url", fmt.Sprintf("%s/dashboard", siteURL))
	form.Set("metadata[session_id]", sessionID)

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/v1/checkout/sessions", stripeAPIBase), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", config.Config("STRIPE_SECRET_KEY")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := stripeClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: stripe returned %s", ErrProviderUnavailable, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to create checkout session: %s", string(respBody))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetCheckoutSession retrieves the provider's current view of a checkout
// transaction. Used by the redirect-return route for display and by the
// reconciliation sweep as a server-side authoritative poll.
func GetCheckoutSession(checkoutSessionID string) (*CheckoutSession, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/v1/checkout/sessions/%s", stripeAPIBase, checkoutSessionID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", config.Config("STRIPE_SECRET_KEY")))

	resp, err := stripeClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: stripe returned %s", ErrProviderUnavailable, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to retrieve checkout session: %s", string(respBody))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}
