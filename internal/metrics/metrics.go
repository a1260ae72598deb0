package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomnmeal_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roomnmeal_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomnmeal_bookings_total",
			Help: "Total number of bookings created",
		},
		[]string{"type"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roomnmeal_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	PaymentOrdersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roomnmeal_payment_orders_total",
			Help: "Total number of payment orders created",
		},
	)

	PaymentCapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomnmeal_payment_captures_total",
			Help: "Total number of captured payments",
		},
		[]string{"source"},
	)

	PaymentRefundsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roomnmeal_payment_refunds_total",
			Help: "Total number of refunded payments",
		},
	)

	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomnmeal_webhook_events_total",
			Help: "Total number of gateway webhook events received",
		},
		[]string{"event", "result"},
	)

	PayoutRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomnmeal_payout_requests_total",
			Help: "Total number of payout requests",
		},
		[]string{"result"},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomnmeal_notifications_sent_total",
			Help: "Total number of notification jobs processed",
		},
		[]string{"status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roomnmeal_notification_queue_length",
			Help: "Current length of the notification job queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(bookingType string) {
	BookingsTotal.WithLabelValues(bookingType).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordPaymentCapture(source string) {
	PaymentCapturesTotal.WithLabelValues(source).Inc()
}

func RecordWebhookEvent(event, result string) {
	WebhookEventsTotal.WithLabelValues(event, result).Inc()
}

func RecordPayoutRequest(result string) {
	PayoutRequestsTotal.WithLabelValues(result).Inc()
}

func RecordNotification(status string) {
	NotificationsSentTotal.WithLabelValues(status).Inc()
}
