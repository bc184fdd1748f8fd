package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders that successfully reserved inventory",
	})

	ordersResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_resolved_total",
		Help: "Orders moved to a terminal status",
	}, []string{"status"})

	webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_events_total",
		Help: "Payment webhook deliveries by type and outcome",
	}, []string{"type", "outcome"})

	ticketsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tickets_issued_total",
		Help: "Tickets minted for paid orders",
	})

	insufficientInventory = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_insufficient_inventory_total",
		Help: "Order attempts rejected because the tier sold out",
	})
)

func RecordOrderCreated() {
	ordersCreated.Inc()
}

func RecordOrderResolved(status string) {
	ordersResolved.WithLabelValues(status).Inc()
}

func RecordWebhookEvent(eventType, outcome string) {
	webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

func RecordTicketsIssued(n int) {
	ticketsIssued.Add(float64(n))
}

func RecordInsufficientInventory() {
	insufficientInventory.Inc()
}
