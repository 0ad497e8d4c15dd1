package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func testGateway() *StripeGateway {
	return NewStripeGateway(StripeConfig{
		SecretKey:        "sk_test_x",
		WebhookSecret:    testWebhookSecret,
		Currency:         "usd",
		SignupPriceCents: 2900,
		TipMinCents:      500,
		TipMaxCents:      50000,
	})
}

func checkoutCompletedPayload() []byte {
	return []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"amount_total": 2900,
				"customer_details": {"email": "buyer@example.com"},
				"metadata": {"purpose": "signup", "username": "cool_guy", "email": "buyer@example.com"}
			}
		}
	}`)
}

func TestVerifyEventValidSignature(t *testing.T) {
	g := testGateway()
	payload := checkoutCompletedPayload()
	header := signPayload(payload, testWebhookSecret, time.Now())

	ev, err := g.VerifyEvent(payload, header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != EventCheckoutCompleted {
		t.Errorf("type = %q", ev.Type)
	}
	if ev.SessionRef != "cs_test_1" {
		t.Errorf("session ref = %q", ev.SessionRef)
	}
	if ev.AmountTotal != 2900 {
		t.Errorf("amount = %d", ev.AmountTotal)
	}
	if ev.CustomerEmail != "buyer@example.com" {
		t.Errorf("customer email = %q", ev.CustomerEmail)
	}
	if ev.Metadata["username"] != "cool_guy" {
		t.Errorf("metadata = %v", ev.Metadata)
	}
}

func TestVerifyEventBadSignature(t *testing.T) {
	g := testGateway()
	payload := checkoutCompletedPayload()

	cases := []struct {
		name   string
		header string
	}{
		{"wrong secret", signPayload(payload, "whsec_other", time.Now())},
		{"empty header", ""},
		{"garbage header", "t=notanumber,v1=zz"},
		{"stale timestamp", signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := g.VerifyEvent(payload, tc.header); !errors.Is(err, ErrSignatureInvalid) {
				t.Fatalf("err = %v, want ErrSignatureInvalid", err)
			}
		})
	}
}

func TestVerifyEventTamperedPayload(t *testing.T) {
	g := testGateway()
	payload := checkoutCompletedPayload()
	header := signPayload(payload, testWebhookSecret, time.Now())

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = ' '
	if _, err := g.VerifyEvent(tampered, header); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("err = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyEventOtherTypePassesThrough(t *testing.T) {
	g := testGateway()
	payload := []byte(`{"id":"evt_2","type":"payment_intent.created","data":{"object":{}}}`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	ev, err := g.VerifyEvent(payload, header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != "payment_intent.created" {
		t.Errorf("type = %q", ev.Type)
	}
	if ev.SessionRef != "" {
		t.Errorf("session ref = %q, want empty for unhandled type", ev.SessionRef)
	}
}
