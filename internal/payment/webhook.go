package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	EventTypeSessionCompleted = "checkout.session.completed"
	EventTypeSessionExpired   = "checkout.session.expired"

	PaymentStatusPaid = "paid"
)

var ErrBadSignature = errors.New("webhook signature verification failed")

// WebhookEvent is the provider's asynchronous payment-outcome notification.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

type CheckoutSession struct {
	ID              string            `json:"id"`
	PaymentStatus   string            `json:"payment_status"`
	Metadata        map[string]string `json:"metadata"`
	CustomerDetails CustomerDetails   `json:"customer_details"`
}

type CustomerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s CheckoutSession) OrderID() string {
	return s.Metadata["order_id"]
}

func (s CheckoutSession) Environment() string {
	return s.Metadata["environment"]
}

// VerifySignature authenticates a webhook payload against the shared secret.
// The header carries a unix timestamp and an HMAC-SHA256 of "<t>.<payload>"
// in the form "t=<unix>,v1=<hex>". Timestamps outside the tolerance window
// are rejected to limit replay.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration) error {
	var ts int64
	var sig []byte
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad timestamp", ErrBadSignature)
			}
			ts = parsed
		case "v1":
			decoded, err := hex.DecodeString(v)
			if err != nil {
				return fmt.Errorf("%w: bad hex", ErrBadSignature)
			}
			sig = decoded
		}
	}
	if ts == 0 || len(sig) == 0 {
		return fmt.Errorf("%w: missing timestamp or signature", ErrBadSignature)
	}

	if tolerance > 0 {
		age := time.Since(time.Unix(ts, 0))
		if age > tolerance || age < -tolerance {
			return fmt.Errorf("%w: timestamp outside tolerance", ErrBadSignature)
		}
	}

	if !hmac.Equal(sig, computeSignature(payload, ts, secret)) {
		return ErrBadSignature
	}
	return nil
}

// SignPayload produces a signature header for a payload, as the provider
// would. Used by tests and local tooling to exercise the webhook endpoint.
func SignPayload(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(computeSignature(payload, ts, secret)))
}

func computeSignature(payload []byte, ts int64, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.", ts)
	h.Write(payload)
	return h.Sum(nil)
}
