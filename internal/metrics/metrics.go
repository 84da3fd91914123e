package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Number of orders created, by payment method",
		},
		[]string{"payment_method"},
	)

	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Number of gateway notifications received, by outcome",
		},
		[]string{"outcome"},
	)

	ReceiptUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_uploads_total",
			Help: "Number of receipt upload attempts, by outcome",
		},
		[]string{"outcome"},
	)
)

func Register() {
	prometheus.MustRegister(OrdersCreated, WebhookEvents, ReceiptUploads)
}
