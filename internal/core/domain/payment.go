package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is the one-to-one payment record owned by a Booking.
// Status only advances pending -> completed or pending -> failed;
// completed and failed are terminal.
type Payment struct {
	ID               uuid.UUID
	BookingID        uuid.UUID
	Amount           decimal.Decimal
	Currency         string
	Status           PaymentStatus
	GatewayReference string
	TransactionID    string
	PaymentMethod    string
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewPendingPayment builds the pending payment created alongside a booking.
func NewPendingPayment(bookingID uuid.UUID, amount decimal.Decimal, currency string) *Payment {
	now := time.Now()
	return &Payment{
		ID:        uuid.New(),
		BookingID: bookingID,
		Amount:    amount,
		Currency:  currency,
		Status:    PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsTerminal reports whether the payment reached a final status.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentCompleted || p.Status == PaymentFailed
}
