package ports

import "context"

// BookingNotice carries everything an email about a booking needs.
// Amount fields are preformatted strings so the notice can be queued
// as-is without the worker reaching back into the database.
type BookingNotice struct {
	BookingID       string `json:"booking_id"`
	GuestEmail      string `json:"guest_email"`
	GuestName       string `json:"guest_name"`
	ListingTitle    string `json:"listing_title"`
	ListingLocation string `json:"listing_location"`
	CheckInDate     string `json:"check_in_date"`
	CheckOutDate    string `json:"check_out_date"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	PaymentID       string `json:"payment_id,omitempty"`
	TransactionID   string `json:"transaction_id,omitempty"`
}

// Notifier accepts fire-and-forget notification requests. Implementations
// queue the notice for asynchronous delivery with bounded retries; a
// delivery failure is logged, never surfaced to the caller.
type Notifier interface {
	NotifyPaymentSuccess(ctx context.Context, notice BookingNotice)
	NotifyPaymentFailure(ctx context.Context, notice BookingNotice, errorMessage string)
	NotifyBookingConfirmation(ctx context.Context, notice BookingNotice)
}
