package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	bookingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_operations_total",
			Help: "Booking lifecycle operations by outcome",
		},
		[]string{"operation", "status"},
	)

	paymentOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_operations_total",
			Help: "Payment lifecycle operations by outcome",
		},
		[]string{"operation", "status"},
	)

	notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification queue events by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	notificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_queue_depth",
			Help: "Pending jobs on the email notification queue",
		},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Latency of payment gateway calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"operation"},
	)
)

func TrackBookingOperation(operation, status string) {
	bookingOperations.WithLabelValues(operation, status).Inc()
}

func TrackPaymentOperation(operation, status string) {
	paymentOperations.WithLabelValues(operation, status).Inc()
}

func TrackNotification(kind, status string) {
	notifications.WithLabelValues(kind, status).Inc()
}

func TrackGatewayRequest(operation string, duration time.Duration) {
	gatewayRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Monitor periodically samples queue depth from redis.
type Monitor struct {
	redis    *redis.Client
	queueKey string
}

func NewMonitor(client *redis.Client, queueKey string) *Monitor {
	return &Monitor{redis: client, queueKey: queueKey}
}

// Run samples until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			depth, err := m.redis.LLen(ctx, m.queueKey).Result()
			if err != nil {
				continue
			}
			notificationQueueDepth.Set(float64(depth))
		}
	}
}
