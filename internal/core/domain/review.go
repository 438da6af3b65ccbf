package domain

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID         uuid.UUID
	ListingID  uuid.UUID
	ReviewerID uuid.UUID
	Rating     int
	Comment    string
	CreatedAt  time.Time
}
