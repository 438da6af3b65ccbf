package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Listing struct {
	ID            uuid.UUID
	HostID        uuid.UUID
	Title         string
	Description   string
	Location      string
	PricePerNight decimal.Decimal
	IsAvailable   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOwnedBy reports whether the given user is the listing host.
// Listings are mutated only by their host.
func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.HostID == userID
}

// ListingFilter narrows listing queries.
type ListingFilter struct {
	Location      string
	OnlyAvailable bool
}
