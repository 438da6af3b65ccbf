package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/amanuel-t/travel_booking/internal/monitoring"
	"github.com/redis/go-redis/v9"
)

const popTimeout = 5 * time.Second

// Dispatcher consumes the notification queue with a pool of workers. Each
// job is delivered with a bounded number of retries and exponential backoff
// between attempts; after the last attempt the job is dropped with a log
// line, never surfaced to the code that enqueued it.
type Dispatcher struct {
	redis        *redis.Client
	mailer       Mailer
	workers      int
	maxRetries   int
	retryBackoff time.Duration
}

func NewDispatcher(client *redis.Client, mailer Mailer, workers, maxRetries int, retryBackoff time.Duration) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Dispatcher{
		redis:        client,
		mailer:       mailer,
		workers:      workers,
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
	}
}

// Run blocks until ctx is cancelled and all workers have drained.
func (d *Dispatcher) Run(ctx context.Context) {
	log.Printf("notification dispatcher started with %d workers", d.workers)

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			d.consume(ctx, worker)
		}(i)
	}
	wg.Wait()

	log.Println("notification dispatcher stopped")
}

func (d *Dispatcher) consume(ctx context.Context, worker int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := d.redis.BRPop(ctx, popTimeout, QueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Printf("notifier worker %d: queue read failed: %v", worker, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		// BRPop returns [key, value].
		if len(res) != 2 {
			continue
		}

		var j job
		if err := json.Unmarshal([]byte(res[1]), &j); err != nil {
			log.Printf("notifier worker %d: dropping malformed job: %v", worker, err)
			continue
		}

		d.deliver(ctx, j)
	}
}

// deliver attempts the send up to maxRetries+1 times with backoff doubling
// per attempt.
func (d *Dispatcher) deliver(ctx context.Context, j job) {
	subject, plain, htmlBody := composeEmail(j)

	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := d.retryBackoff * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				log.Printf("notifier: shutdown before %s email to %s was delivered", j.Kind, j.Notice.GuestEmail)
				return
			case <-time.After(backoff):
			}
		}

		lastErr = d.mailer.Send(j.Notice.GuestEmail, subject, plain, htmlBody)
		if lastErr == nil {
			log.Printf("notifier: %s email sent to %s for booking %s", j.Kind, j.Notice.GuestEmail, j.Notice.BookingID)
			monitoring.TrackNotification(j.Kind, "delivered")
			return
		}

		log.Printf("notifier: attempt %d/%d to send %s email to %s failed: %v",
			attempt+1, d.maxRetries+1, j.Kind, j.Notice.GuestEmail, lastErr)
	}

	log.Printf("notifier: giving up on %s email to %s for booking %s: %v",
		j.Kind, j.Notice.GuestEmail, j.Notice.BookingID, lastErr)
	monitoring.TrackNotification(j.Kind, "dropped")
}
