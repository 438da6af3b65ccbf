package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/amanuel-t/travel_booking/internal/core/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	ListingID    string `json:"listing_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	// TotalPrice overrides the computed price when supplied.
	TotalPrice string `json:"total_price,omitempty"`
}

type BookingResponse struct {
	BookingID    string `json:"booking_id"`
	ListingID    string `json:"listing_id"`
	GuestID      string `json:"guest_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	TotalPrice   string `json:"total_price"`
	Status       string `json:"status"`
	PaymentID    string `json:"payment_id,omitempty"`
}

type BookingService struct {
	listingRepo ports.ListingRepository
	bookingRepo ports.BookingRepository
	userRepo    ports.UserRepository
	notifier    ports.Notifier
	currency    string
}

func NewBookingService(
	listingRepo ports.ListingRepository,
	bookingRepo ports.BookingRepository,
	userRepo ports.UserRepository,
	notifier ports.Notifier,
	currency string,
) *BookingService {
	return &BookingService{
		listingRepo: listingRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		currency:    currency,
	}
}

// CreateBooking creates a pending booking for the guest together with its
// pending payment. The two records are persisted in one transaction.
func (s *BookingService) CreateBooking(ctx context.Context, guestID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %q", domain.ErrNotFound, req.ListingID)
	}

	checkIn, err := time.Parse(dateLayout, req.CheckInDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid check_in_date", domain.ErrInvalidRange)
	}

	checkOut, err := time.Parse(dateLayout, req.CheckOutDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid check_out_date", domain.ErrInvalidRange)
	}

	if !checkOut.After(checkIn) {
		return nil, domain.ErrInvalidRange
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)

	totalPrice := listing.PricePerNight.Mul(decimal.NewFromInt(nights))
	if req.TotalPrice != "" {
		supplied, err := decimal.NewFromString(req.TotalPrice)
		if err != nil || supplied.IsNegative() {
			return nil, fmt.Errorf("%w: invalid total_price", domain.ErrInvalidInput)
		}
		totalPrice = supplied
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:           uuid.New(),
		GuestID:      guestID,
		ListingID:    listing.ID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		TotalPrice:   totalPrice,
		Status:       domain.BookingPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	payment := domain.NewPendingPayment(booking.ID, totalPrice, s.currency)

	if err := s.bookingRepo.Create(ctx, booking, payment); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	resp := toBookingResponse(booking)
	resp.PaymentID = payment.ID.String()
	return resp, nil
}

// Cancel transitions the booking to cancelled. Allowed for the booking
// guest and the listing host, and only while the booking is pending or
// confirmed.
func (s *BookingService) Cancel(ctx context.Context, bookingID, actor uuid.UUID) (*BookingResponse, error) {
	booking, listing, err := s.bookingWithListing(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.GuestID != actor && !listing.IsOwnedBy(actor) {
		return nil, fmt.Errorf("%w: only the guest or the listing host can cancel a booking", domain.ErrForbidden)
	}

	if !booking.IsCancellable() {
		return nil, fmt.Errorf("%w: cannot cancel a %s booking", domain.ErrInvalidTransition, booking.Status)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.Status = domain.BookingCancelled
	return toBookingResponse(booking), nil
}

// Confirm transitions a pending booking to confirmed. Host only.
func (s *BookingService) Confirm(ctx context.Context, bookingID, actor uuid.UUID) (*BookingResponse, error) {
	booking, listing, err := s.bookingWithListing(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !listing.IsOwnedBy(actor) {
		return nil, fmt.Errorf("%w: only the listing host can confirm bookings", domain.ErrForbidden)
	}

	if booking.Status != domain.BookingPending {
		return nil, fmt.Errorf("%w: cannot confirm a %s booking", domain.ErrInvalidTransition, booking.Status)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingConfirmed); err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}

	booking.Status = domain.BookingConfirmed
	s.sendConfirmationNotice(ctx, booking, listing)

	return toBookingResponse(booking), nil
}

// GetBooking returns the booking when the actor is its guest or the
// listing host.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actor uuid.UUID) (*BookingResponse, error) {
	booking, listing, err := s.bookingWithListing(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.GuestID != actor && !listing.IsOwnedBy(actor) {
		return nil, domain.ErrForbidden
	}

	return toBookingResponse(booking), nil
}

// ListForActor returns bookings the actor made plus bookings for the
// actor's listings.
func (s *BookingService) ListForActor(ctx context.Context, actor uuid.UUID) ([]BookingResponse, error) {
	bookings, err := s.bookingRepo.ListForUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	return toBookingResponses(bookings), nil
}

// ListForGuest returns only the bookings the actor made as a guest.
func (s *BookingService) ListForGuest(ctx context.Context, guestID uuid.UUID) ([]BookingResponse, error) {
	bookings, err := s.bookingRepo.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	return toBookingResponses(bookings), nil
}

func (s *BookingService) bookingWithListing(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, *domain.Listing, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, nil, err
	}

	return booking, listing, nil
}

func (s *BookingService) sendConfirmationNotice(ctx context.Context, booking *domain.Booking, listing *domain.Listing) {
	guest, err := s.userRepo.GetByID(ctx, booking.GuestID)
	if err != nil {
		log.Printf("booking %s confirmed but guest lookup failed, skipping email: %v", booking.ID, err)
		return
	}

	s.notifier.NotifyBookingConfirmation(ctx, ports.BookingNotice{
		BookingID:       booking.ID.String(),
		GuestEmail:      guest.Email,
		GuestName:       guest.DisplayName(),
		ListingTitle:    listing.Title,
		ListingLocation: listing.Location,
		CheckInDate:     booking.CheckInDate.Format(dateLayout),
		CheckOutDate:    booking.CheckOutDate.Format(dateLayout),
		Amount:          booking.TotalPrice.String(),
		Currency:        s.currency,
	})
}

func toBookingResponse(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		BookingID:    b.ID.String(),
		ListingID:    b.ListingID.String(),
		GuestID:      b.GuestID.String(),
		CheckInDate:  b.CheckInDate.Format(dateLayout),
		CheckOutDate: b.CheckOutDate.Format(dateLayout),
		TotalPrice:   b.TotalPrice.String(),
		Status:       string(b.Status),
	}
}

func toBookingResponses(bookings []domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, *toBookingResponse(&bookings[i]))
	}
	return out
}
