package ports

import (
	"context"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/google/uuid"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, listingID uuid.UUID) error
	List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]domain.Listing, error)
}

type BookingRepository interface {
	// Create persists the booking together with its pending payment in a
	// single transaction. A booking without a payment is an invariant
	// violation, so the two writes never commit separately.
	Create(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error
	GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) error
	// ListForUser returns bookings where the user is the guest or the
	// host of the booked listing.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error)
	SetGatewayReference(ctx context.Context, paymentID uuid.UUID, reference string) error
	// MarkCompleted advances the payment to completed, recording the
	// gateway transaction id and payment method in the same statement.
	// It reports false when the payment was no longer pending, in which
	// case nothing was written.
	MarkCompleted(ctx context.Context, paymentID uuid.UUID, transactionID, method string) (bool, error)
	// MarkFailed advances the payment to failed with the recorded error
	// message, under the same pending-only guard as MarkCompleted.
	MarkFailed(ctx context.Context, paymentID uuid.UUID, errorMessage string) (bool, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, reviewID uuid.UUID) error
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Review, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}
