package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/eventix/eventix/internal/domain"
	"github.com/eventix/eventix/internal/monitoring"
	"github.com/eventix/eventix/internal/payment"
)

// DedupCache remembers provider event ids so exact webhook replays can be
// acknowledged without reprocessing. Purely an optimization: the order-status
// compare-and-set already makes reprocessing harmless.
type DedupCache interface {
	MarkWebhookSeen(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	ClearWebhookSeen(ctx context.Context, eventID string) error
}

// WebhookReconciler maps the gateway's asynchronous payment notifications
// onto order state transitions. The gateway may deliver the same event any
// number of times; every path through Handle is idempotent.
type WebhookReconciler struct {
	orders      OrderUseCase
	secret      string
	environment string
	tolerance   time.Duration
	dedup       DedupCache
	dedupTTL    time.Duration
}

func NewWebhookReconciler(orders OrderUseCase, secret, environment string, tolerance time.Duration, dedup DedupCache) *WebhookReconciler {
	return &WebhookReconciler{
		orders:      orders,
		secret:      secret,
		environment: environment,
		tolerance:   tolerance,
		dedup:       dedup,
		dedupTTL:    24 * time.Hour,
	}
}

// Handle verifies and interprets one webhook delivery and returns the HTTP
// status to acknowledge it with: 400 for anything unverifiable, 200 for
// everything handled or deliberately ignored, 500 only for internal errors
// worth a gateway retry.
func (r *WebhookReconciler) Handle(ctx context.Context, body []byte, signature string) int {
	if err := payment.VerifySignature(body, signature, r.secret, r.tolerance); err != nil {
		log.Printf("webhook rejected: %v", err)
		monitoring.RecordWebhookEvent("unknown", "bad_signature")
		return http.StatusBadRequest
	}

	var event payment.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		monitoring.RecordWebhookEvent("unknown", "bad_payload")
		return http.StatusBadRequest
	}

	session := event.Data.Object

	// Events created in another deployment environment are not ours to act
	// on, but must still be acknowledged.
	if session.Environment() != r.environment {
		monitoring.RecordWebhookEvent(event.Type, "ignored_environment")
		return http.StatusOK
	}

	if r.dedup != nil && event.ID != "" {
		first, err := r.dedup.MarkWebhookSeen(ctx, event.ID, r.dedupTTL)
		if err == nil && !first {
			monitoring.RecordWebhookEvent(event.Type, "replay")
			return http.StatusOK
		}
	}

	status := r.process(ctx, event)
	if status == http.StatusInternalServerError && r.dedup != nil && event.ID != "" {
		// Let the gateway's retry of this event through next time.
		if err := r.dedup.ClearWebhookSeen(ctx, event.ID); err != nil {
			log.Printf("failed to clear webhook dedup marker %s: %v", event.ID, err)
		}
	}
	return status
}

func (r *WebhookReconciler) process(ctx context.Context, event payment.WebhookEvent) int {
	session := event.Data.Object

	switch event.Type {
	case payment.EventTypeSessionCompleted:
		if session.PaymentStatus != payment.PaymentStatusPaid {
			return r.failOrder(ctx, event)
		}
		return r.completeOrder(ctx, event)

	case payment.EventTypeSessionExpired:
		return r.failOrder(ctx, event)

	default:
		monitoring.RecordWebhookEvent(event.Type, "unhandled")
		return http.StatusOK
	}
}

func (r *WebhookReconciler) completeOrder(ctx context.Context, event payment.WebhookEvent) int {
	session := event.Data.Object
	orderID := session.OrderID()
	if orderID == "" {
		monitoring.RecordWebhookEvent(event.Type, "missing_order_id")
		return http.StatusOK
	}

	billing := &domain.BillingInfo{
		FullName: session.CustomerDetails.Name,
		Email:    session.CustomerDetails.Email,
		Phone:    session.CustomerDetails.Phone,
	}

	won, err := r.orders.CompleteOrder(ctx, orderID, billing)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			log.Printf("webhook references unknown order %s", orderID)
			monitoring.RecordWebhookEvent(event.Type, "unknown_order")
			return http.StatusOK
		}
		log.Printf("failed to fulfill order %s: %v", orderID, err)
		monitoring.RecordWebhookEvent(event.Type, "error")
		return http.StatusInternalServerError
	}

	if won {
		monitoring.RecordWebhookEvent(event.Type, "completed")
	} else {
		monitoring.RecordWebhookEvent(event.Type, "already_resolved")
	}
	return http.StatusOK
}

func (r *WebhookReconciler) failOrder(ctx context.Context, event payment.WebhookEvent) int {
	session := event.Data.Object
	orderID := session.OrderID()
	if orderID == "" {
		monitoring.RecordWebhookEvent(event.Type, "missing_order_id")
		return http.StatusOK
	}

	won, err := r.orders.FailOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			log.Printf("webhook references unknown order %s", orderID)
			monitoring.RecordWebhookEvent(event.Type, "unknown_order")
			return http.StatusOK
		}
		log.Printf("failed to fail order %s: %v", orderID, err)
		monitoring.RecordWebhookEvent(event.Type, "error")
		return http.StatusInternalServerError
	}

	if won {
		monitoring.RecordWebhookEvent(event.Type, "failed")
	} else {
		monitoring.RecordWebhookEvent(event.Type, "already_resolved")
	}
	return http.StatusOK
}
