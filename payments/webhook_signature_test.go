package payments

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "whsec_test_secret"

func TestVerifyWebhookSignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()

	header := SignWebhookPayload(payload, testSecret, now)
	if err := VerifyWebhookSignature(payload, header, testSecret, now); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
}

func TestVerifyWebhookSignatureTamperedBody(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignWebhookPayload(payload, testSecret, now)

	tampered := []byte(`{"id":"evt_2"}`)
	if err := VerifyWebhookSignature(tampered, header, testSecret, now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("tampered body error = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyWebhookSignatureWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignWebhookPayload(payload, "whsec_other", now)

	if err := VerifyWebhookSignature(payload, header, testSecret, now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("wrong secret error = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyWebhookSignatureStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signedAt := time.Now().Add(-SignatureTolerance - time.Minute)
	header := SignWebhookPayload(payload, testSecret, signedAt)

	if err := VerifyWebhookSignature(payload, header, testSecret, time.Now()); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("stale timestamp error = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyWebhookSignatureMalformedHeaders(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	cases := map[string]string{
		"empty":            "",
		"missing v1":       "t=1700000000",
		"missing t":        "v1=deadbeef",
		"garbage":          "not-a-header",
		"non-numeric time": "t=abc,v1=deadbeef",
	}
	for name, header := range cases {
		if err := VerifyWebhookSignature(payload, header, testSecret, now); !errors.Is(err, ErrSignatureInvalid) {
			t.Errorf("%s: error = %v, want ErrSignatureInvalid", name, err)
		}
	}
}

func TestVerifyWebhookSignatureMultipleV1(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	// Stripe sends multiple v1 entries during secret rotation; one valid
	// signature among them must be enough.
	valid := SignWebhookPayload(payload, testSecret, now)
	header := valid + ",v1=0000000000000000000000000000000000000000000000000000000000000000"
	if err := VerifyWebhookSignature(payload, header, testSecret, now); err != nil {
		t.Fatalf("rotation header rejected: %v", err)
	}
}
