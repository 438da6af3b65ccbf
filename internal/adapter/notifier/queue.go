// Package notifier implements the asynchronous email notification
// dispatcher: lifecycle services enqueue notices onto a durable redis list
// and a worker pool delivers them over SMTP with bounded retries.
package notifier

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/amanuel-t/travel_booking/internal/core/ports"
	"github.com/amanuel-t/travel_booking/internal/monitoring"
	"github.com/redis/go-redis/v9"
)

// QueueKey is the redis list the dispatcher workers consume.
const QueueKey = "notifications:email"

const (
	KindPaymentSuccess      = "payment_success"
	KindPaymentFailure      = "payment_failure"
	KindBookingConfirmation = "booking_confirmation"
)

type job struct {
	Kind         string              `json:"kind"`
	Notice       ports.BookingNotice `json:"notice"`
	ErrorMessage string              `json:"error_message,omitempty"`
	EnqueuedAt   time.Time           `json:"enqueued_at"`
}

// Queue is the ports.Notifier implementation. Enqueueing is
// fire-and-forget: redis failures are logged and swallowed so a broken
// notification path never fails the lifecycle operation that triggered it.
type Queue struct {
	redis *redis.Client
}

func NewQueue(client *redis.Client) *Queue {
	return &Queue{redis: client}
}

func (q *Queue) NotifyPaymentSuccess(ctx context.Context, notice ports.BookingNotice) {
	q.enqueue(ctx, job{Kind: KindPaymentSuccess, Notice: notice, EnqueuedAt: time.Now()})
}

func (q *Queue) NotifyPaymentFailure(ctx context.Context, notice ports.BookingNotice, errorMessage string) {
	q.enqueue(ctx, job{Kind: KindPaymentFailure, Notice: notice, ErrorMessage: errorMessage, EnqueuedAt: time.Now()})
}

func (q *Queue) NotifyBookingConfirmation(ctx context.Context, notice ports.BookingNotice) {
	q.enqueue(ctx, job{Kind: KindBookingConfirmation, Notice: notice, EnqueuedAt: time.Now()})
}

func (q *Queue) enqueue(ctx context.Context, j job) {
	payload, err := json.Marshal(j)
	if err != nil {
		log.Printf("notifier: failed to marshal %s notice for booking %s: %v", j.Kind, j.Notice.BookingID, err)
		return
	}

	if err := q.redis.LPush(ctx, QueueKey, string(payload)).Err(); err != nil {
		log.Printf("notifier: failed to enqueue %s notice for booking %s: %v", j.Kind, j.Notice.BookingID, err)
		monitoring.TrackNotification(j.Kind, "enqueue_failed")
		return
	}

	monitoring.TrackNotification(j.Kind, "enqueued")
}
