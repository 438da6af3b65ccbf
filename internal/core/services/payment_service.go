package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/amanuel-t/travel_booking/internal/core/ports"
	"github.com/google/uuid"
)

type InitiatePaymentResponse struct {
	CheckoutURL string `json:"checkout_url"`
	PaymentID   string `json:"payment_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
}

type VerifyPaymentResponse struct {
	PaymentID     string `json:"payment_id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
}

type PaymentResponse struct {
	PaymentID        string `json:"payment_id"`
	BookingID        string `json:"booking_id"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	GatewayReference string `json:"gateway_reference,omitempty"`
	TransactionID    string `json:"transaction_id,omitempty"`
	PaymentMethod    string `json:"payment_method,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

// PaymentService owns Payment state transitions and mediates between the
// gateway client and the notifier. It never retries gateway calls; the
// caller decides whether to re-invoke.
type PaymentService struct {
	paymentRepo ports.PaymentRepository
	bookingRepo ports.BookingRepository
	listingRepo ports.ListingRepository
	userRepo    ports.UserRepository
	gateway     ports.PaymentGateway
	notifier    ports.Notifier
	currency    string
}

func NewPaymentService(
	paymentRepo ports.PaymentRepository,
	bookingRepo ports.BookingRepository,
	listingRepo ports.ListingRepository,
	userRepo ports.UserRepository,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
	currency string,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		notifier:    notifier,
		currency:    currency,
	}
}

// EnsurePayment returns the booking's payment, creating a pending one when
// absent. New bookings always get their payment at creation time; this is
// the compatibility path for records that predate that invariant.
// Idempotent.
func (s *PaymentService) EnsurePayment(ctx context.Context, booking *domain.Booking) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByBookingID(ctx, booking.ID)
	if err == nil {
		return payment, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	payment = domain.NewPendingPayment(booking.ID, booking.TotalPrice, s.currency)
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment for booking %s: %w", booking.ID, err)
	}

	return payment, nil
}

// InitiatePayment asks the gateway for a checkout session. Guest only, and
// only while the payment is pending. A declared gateway rejection marks the
// payment failed; transport and configuration errors mutate nothing.
func (s *PaymentService) InitiatePayment(ctx context.Context, bookingID, actor uuid.UUID) (*InitiatePaymentResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.GuestID != actor {
		return nil, fmt.Errorf("%w: only the guest can initiate payment for a booking", domain.ErrForbidden)
	}

	payment, err := s.EnsurePayment(ctx, booking)
	if err != nil {
		return nil, err
	}

	if payment.Status != domain.PaymentPending {
		return nil, fmt.Errorf("%w: cannot initiate payment for %s payment", domain.ErrInvalidTransition, payment.Status)
	}

	guest, err := s.userRepo.GetByID(ctx, booking.GuestID)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.InitiateCheckout(ctx, payment, booking, guest)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentDeclined) {
			if _, markErr := s.paymentRepo.MarkFailed(ctx, payment.ID, err.Error()); markErr != nil {
				log.Printf("payment %s: failed to record gateway rejection: %v", payment.ID, markErr)
			}
		}
		return nil, err
	}

	if err := s.paymentRepo.SetGatewayReference(ctx, payment.ID, session.Reference); err != nil {
		return nil, fmt.Errorf("failed to store gateway reference for payment %s: %w", payment.ID, err)
	}

	return &InitiatePaymentResponse{
		CheckoutURL: session.CheckoutURL,
		PaymentID:   payment.ID.String(),
		Amount:      payment.Amount.String(),
		Currency:    payment.Currency,
	}, nil
}

// VerifyPayment polls the gateway for the payment outcome and applies the
// resulting transition. Terminal transitions go through a pending-only
// compare-and-swap, so racing verifications apply the transition, and send
// the notification, exactly once. Re-verifying a terminal payment is a
// no-op.
func (s *PaymentService) VerifyPayment(ctx context.Context, paymentID uuid.UUID) (*VerifyPaymentResponse, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.IsTerminal() {
		return &VerifyPaymentResponse{
			PaymentID:     payment.ID.String(),
			Status:        string(payment.Status),
			TransactionID: payment.TransactionID,
		}, nil
	}

	if payment.GatewayReference == "" {
		return nil, fmt.Errorf("%w: payment has not been initiated yet", domain.ErrInvalidTransition)
	}

	result, err := s.gateway.VerifyStatus(ctx, payment.GatewayReference)
	if err != nil {
		return nil, err
	}

	if !result.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrGateway, result.Message)
	}

	switch result.Status {
	case ports.GatewayStatusSuccess:
		applied, err := s.paymentRepo.MarkCompleted(ctx, payment.ID, result.Reference, result.Method)
		if err != nil {
			return nil, fmt.Errorf("failed to complete payment %s: %w", payment.ID, err)
		}
		if applied {
			s.notifySuccess(ctx, payment, result.Reference)
		}
		return &VerifyPaymentResponse{
			PaymentID:     payment.ID.String(),
			Status:        string(domain.PaymentCompleted),
			TransactionID: result.Reference,
		}, nil

	case ports.GatewayStatusFailed:
		applied, err := s.paymentRepo.MarkFailed(ctx, payment.ID, "payment failed on gateway")
		if err != nil {
			return nil, fmt.Errorf("failed to record payment failure %s: %w", payment.ID, err)
		}
		if applied {
			s.notifyFailure(ctx, payment, "Your payment failed. Please try again.")
		}
		return &VerifyPaymentResponse{
			PaymentID: payment.ID.String(),
			Status:    string(domain.PaymentFailed),
		}, nil

	default:
		// Gateway still pending: no local mutation.
		return &VerifyPaymentResponse{
			PaymentID: payment.ID.String(),
			Status:    string(domain.PaymentPending),
		}, nil
	}
}

// VerifyPaymentForActor is the authenticated verification path: the actor
// must be the booking guest or the listing host.
func (s *PaymentService) VerifyPaymentForActor(ctx context.Context, paymentID, actor uuid.UUID) (*VerifyPaymentResponse, error) {
	if err := s.authorize(ctx, paymentID, actor); err != nil {
		return nil, err
	}
	return s.VerifyPayment(ctx, paymentID)
}

// VerifyByReference handles the gateway callback. It is keyed by the
// transaction reference, safe to call repeatedly, and returns nothing
// beyond the payment outcome since the caller is unauthenticated.
func (s *PaymentService) VerifyByReference(ctx context.Context, txRef string) (*VerifyPaymentResponse, error) {
	paymentID, err := uuid.Parse(txRef)
	if err != nil {
		return nil, fmt.Errorf("%w: payment %q", domain.ErrNotFound, txRef)
	}

	resp, err := s.VerifyPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	// Strip the transaction id: confirming the outcome is all an
	// untrusted caller gets.
	return &VerifyPaymentResponse{PaymentID: resp.PaymentID, Status: resp.Status}, nil
}

// GetPayment returns the payment when the actor is the booking guest or
// the listing host.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID, actor uuid.UUID) (*PaymentResponse, error) {
	if err := s.authorize(ctx, paymentID, actor); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	return &PaymentResponse{
		PaymentID:        payment.ID.String(),
		BookingID:        payment.BookingID.String(),
		Amount:           payment.Amount.String(),
		Currency:         payment.Currency,
		Status:           string(payment.Status),
		GatewayReference: payment.GatewayReference,
		TransactionID:    payment.TransactionID,
		PaymentMethod:    payment.PaymentMethod,
		ErrorMessage:     payment.ErrorMessage,
	}, nil
}

func (s *PaymentService) authorize(ctx context.Context, paymentID, actor uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	booking, err := s.bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		return err
	}

	if booking.GuestID == actor {
		return nil
	}

	listing, err := s.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		return err
	}

	if !listing.IsOwnedBy(actor) {
		return fmt.Errorf("%w: only the guest or the listing host can access this payment", domain.ErrForbidden)
	}

	return nil
}

func (s *PaymentService) notifySuccess(ctx context.Context, payment *domain.Payment, transactionID string) {
	notice, ok := s.buildNotice(ctx, payment)
	if !ok {
		return
	}
	notice.TransactionID = transactionID
	s.notifier.NotifyPaymentSuccess(ctx, notice)
}

func (s *PaymentService) notifyFailure(ctx context.Context, payment *domain.Payment, message string) {
	notice, ok := s.buildNotice(ctx, payment)
	if !ok {
		return
	}
	s.notifier.NotifyPaymentFailure(ctx, notice, message)
}

// buildNotice assembles the email payload. Lookup failures only cost the
// notification, never the verification that triggered it.
func (s *PaymentService) buildNotice(ctx context.Context, payment *domain.Payment) (ports.BookingNotice, bool) {
	booking, err := s.bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		log.Printf("payment %s: booking lookup failed, skipping notification: %v", payment.ID, err)
		return ports.BookingNotice{}, false
	}

	listing, err := s.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		log.Printf("payment %s: listing lookup failed, skipping notification: %v", payment.ID, err)
		return ports.BookingNotice{}, false
	}

	guest, err := s.userRepo.GetByID(ctx, booking.GuestID)
	if err != nil {
		log.Printf("payment %s: guest lookup failed, skipping notification: %v", payment.ID, err)
		return ports.BookingNotice{}, false
	}

	return ports.BookingNotice{
		BookingID:       booking.ID.String(),
		GuestEmail:      guest.Email,
		GuestName:       guest.DisplayName(),
		ListingTitle:    listing.Title,
		ListingLocation: listing.Location,
		CheckInDate:     booking.CheckInDate.Format(dateLayout),
		CheckOutDate:    booking.CheckOutDate.Format(dateLayout),
		Amount:          payment.Amount.String(),
		Currency:        payment.Currency,
		PaymentID:       payment.ID.String(),
	}, true
}
