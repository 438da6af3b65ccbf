package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID           uuid.UUID
	GuestID      uuid.UUID
	ListingID    uuid.UUID
	CheckInDate  time.Time
	CheckOutDate time.Time
	TotalPrice   decimal.Decimal
	Status       BookingStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Nights returns the length of the stay in nights.
func (b *Booking) Nights() int64 {
	return int64(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

// IsCancellable reports whether the booking can still be cancelled.
// cancelled is terminal with no outbound transitions.
func (b *Booking) IsCancellable() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
