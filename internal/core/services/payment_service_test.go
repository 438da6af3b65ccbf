package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/amanuel-t/travel_booking/internal/core/ports"
	"github.com/amanuel-t/travel_booking/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type paymentServiceFixture struct {
	paymentRepo *MockPaymentRepository
	bookingRepo *MockBookingRepository
	listingRepo *MockListingRepository
	userRepo    *MockUserRepository
	gateway     *MockPaymentGateway
	notifier    *MockNotifier
	service     *services.PaymentService
}

func newPaymentFixture() *paymentServiceFixture {
	f := &paymentServiceFixture{
		paymentRepo: new(MockPaymentRepository),
		bookingRepo: new(MockBookingRepository),
		listingRepo: new(MockListingRepository),
		userRepo:    new(MockUserRepository),
		gateway:     new(MockPaymentGateway),
		notifier:    new(MockNotifier),
	}
	f.service = services.NewPaymentService(
		f.paymentRepo, f.bookingRepo, f.listingRepo, f.userRepo,
		f.gateway, f.notifier, "ETB",
	)
	return f
}

// expectNoticeLookups wires the booking/listing/guest lookups the service
// performs when assembling a notification payload.
func (f *paymentServiceFixture) expectNoticeLookups(ctx context.Context, booking *domain.Booking, listing *domain.Listing, guest *domain.User) {
	f.bookingRepo.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.listingRepo.On("GetByID", ctx, listing.ID).Return(listing, nil)
	f.userRepo.On("GetByID", ctx, guest.ID).Return(guest, nil)
}

func TestEnsurePayment_ReturnsExisting(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	booking := &domain.Booking{ID: uuid.New(), TotalPrice: decimal.NewFromInt(300)}
	existing := &domain.Payment{ID: uuid.New(), BookingID: booking.ID, Status: domain.PaymentPending}

	f.paymentRepo.On("GetByBookingID", ctx, booking.ID).Return(existing, nil)

	payment, err := f.service.EnsurePayment(ctx, booking)

	assert.NoError(t, err)
	assert.Equal(t, existing.ID, payment.ID)
	f.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnsurePayment_CreatesWhenMissing(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	booking := &domain.Booking{ID: uuid.New(), TotalPrice: decimal.NewFromInt(300)}

	f.paymentRepo.On("GetByBookingID", ctx, booking.ID).Return(nil, domain.ErrNotFound)
	f.paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

	payment, err := f.service.EnsurePayment(ctx, booking)

	assert.NoError(t, err)
	if assert.NotNil(t, payment) {
		assert.Equal(t, booking.ID, payment.BookingID)
		assert.Equal(t, domain.PaymentPending, payment.Status)
		assert.True(t, payment.Amount.Equal(booking.TotalPrice))
		assert.Equal(t, "ETB", payment.Currency)
	}
}

func TestInitiatePayment_Success(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	guestID := uuid.New()
	booking := &domain.Booking{ID: uuid.New(), GuestID: guestID, TotalPrice: decimal.NewFromInt(300)}
	payment := &domain.Payment{ID: uuid.New(), BookingID: booking.ID, Amount: booking.TotalPrice, Currency: "ETB", Status: domain.PaymentPending}
	guest := &domain.User{ID: guestID, Email: "abel@example.com"}

	f.bookingRepo.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.paymentRepo.On("GetByBookingID", ctx, booking.ID).Return(payment, nil)
	f.userRepo.On("GetByID", ctx, guestID).Return(guest, nil)
	f.gateway.On("InitiateCheckout", ctx, payment, booking, guest).Return(&ports.CheckoutSession{
		CheckoutURL: "https://checkout.chapa.co/checkout/abc",
		Reference:   payment.ID.String(),
	}, nil)
	f.paymentRepo.On("SetGatewayReference", ctx, payment.ID, payment.ID.String()).Return(nil)

	resp, err := f.service.InitiatePayment(ctx, booking.ID, guestID)

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, "https://checkout.chapa.co/checkout/abc", resp.CheckoutURL)
		assert.Equal(t, payment.ID.String(), resp.PaymentID)
		assert.Equal(t, "300", resp.Amount)
	}
}

func TestInitiatePayment_Fail_NotGuest(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	booking := &domain.Booking{ID: uuid.New(), GuestID: uuid.New()}
	f.bookingRepo.On("GetByID", ctx, booking.ID).Return(booking, nil)

	resp, err := f.service.InitiatePayment(ctx, booking.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, resp)
	f.gateway.AssertNotCalled(t, "InitiateCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInitiatePayment_Fail_AlreadyCompleted(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	guestID := uuid.New()
	booking := &domain.Booking{ID: uuid.New(), GuestID: guestID}
	payment := &domain.Payment{ID: uuid.New(), BookingID: booking.ID, Status: domain.PaymentCompleted}

	f.bookingRepo.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.paymentRepo.On("GetByBookingID", ctx, booking.ID).Return(payment, nil)

	resp, err := f.service.InitiatePayment(ctx, booking.ID, guestID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Nil(t, resp)
	f.gateway.AssertNotCalled(t, "InitiateCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInitiatePayment_DeclinedMarksFailed(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	guestID := uuid.New()
	booking := &domain.Booking{ID: uuid.New(), GuestID: guestID, TotalPrice: decimal.NewFromInt(300)}
	payment := &domain.Payment{ID: uuid.New(), BookingID: booking.ID, Status: domain.PaymentPending}
	guest := &domain.User{ID: guestID}

	declined := fmt.Errorf("%w: invalid currency", domain.ErrPaymentDeclined)

	f.bookingRepo.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.paymentRepo.On("GetByBookingID", ctx, booking.ID).Return(payment, nil)
	f.userRepo.On("GetByID", ctx, guestID).Return(guest, nil)
	f.gateway.On("InitiateCheckout", ctx, payment, booking, guest).Return(nil, declined)
	f.paymentRepo.On("MarkFailed", ctx, payment.ID, mock.AnythingOfType("string")).Return(true, nil)

	resp, err := f.service.InitiatePayment(ctx, booking.ID, guestID)

	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	assert.Nil(t, resp)
	f.paymentRepo.AssertCalled(t, "MarkFailed", ctx, payment.ID, mock.AnythingOfType("string"))
}

func TestInitiatePayment_TransportErrorMutatesNothing(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	guestID := uuid.New()
	booking := &domain.Booking{ID: uuid.New(), GuestID: guestID}
	payment := &domain.Payment{ID: uuid.New(), BookingID: booking.ID, Status: domain.PaymentPending}
	guest := &domain.User{ID: guestID}

	transportErr := fmt.Errorf("%w: connection refused", domain.ErrGateway)

	f.bookingRepo.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.paymentRepo.On("GetByBookingID", ctx, booking.ID).Return(payment, nil)
	f.userRepo.On("GetByID", ctx, guestID).Return(guest, nil)
	f.gateway.On("InitiateCheckout", ctx, payment, booking, guest).Return(nil, transportErr)

	resp, err := f.service.InitiatePayment(ctx, booking.ID, guestID)

	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.Nil(t, resp)
	f.paymentRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	f.paymentRepo.AssertNotCalled(t, "SetGatewayReference", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPayment_SuccessCompletesAndNotifies(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	guest := &domain.User{ID: uuid.New(), FirstName: "Abel", Email: "abel@example.com"}
	listing := &domain.Listing{ID: uuid.New(), Title: "Lakeside Cottage", Location: "Bahir Dar"}
	booking := &domain.Booking{ID: uuid.New(), GuestID: guest.ID, ListingID: listing.ID}
	payment := &domain.Payment{
		ID:               uuid.New(),
		BookingID:        booking.ID,
		Amount:           decimal.NewFromInt(300),
		Currency:         "ETB",
		Status:           domain.PaymentPending,
		GatewayReference: "ref-123",
	}

	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)
	f.gateway.On("VerifyStatus", ctx, "ref-123").Return(&ports.VerifyResult{
		Success:   true,
		Status:    ports.GatewayStatusSuccess,
		Reference: "TX1",
		Method:    "telebirr",
	}, nil)
	f.paymentRepo.On("MarkCompleted", ctx, payment.ID, "TX1", "telebirr").Return(true, nil)
	f.expectNoticeLookups(ctx, booking, listing, guest)
	f.notifier.On("NotifyPaymentSuccess", ctx, mock.Anything).Return()

	resp, err := f.service.VerifyPayment(ctx, payment.ID)

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, string(domain.PaymentCompleted), resp.Status)
		assert.Equal(t, "TX1", resp.TransactionID)
	}
	f.notifier.AssertNumberOfCalls(t, "NotifyPaymentSuccess", 1)

	notice := f.notifier.Calls[0].Arguments.Get(1).(ports.BookingNotice)
	assert.Equal(t, "abel@example.com", notice.GuestEmail)
	assert.Equal(t, "TX1", notice.TransactionID)
	assert.Equal(t, "300", notice.Amount)
}

func TestVerifyPayment_TerminalIsIdempotent(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	payment := &domain.Payment{
		ID:            uuid.New(),
		BookingID:     uuid.New(),
		Status:        domain.PaymentCompleted,
		TransactionID: "TX1",
	}

	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)

	resp, err := f.service.VerifyPayment(ctx, payment.ID)

	// Completed payments answer from local state without touching the
	// gateway, and no second notification goes out.
	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, string(domain.PaymentCompleted), resp.Status)
		assert.Equal(t, "TX1", resp.TransactionID)
	}
	f.gateway.AssertNotCalled(t, "VerifyStatus", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "NotifyPaymentSuccess", mock.Anything, mock.Anything)
}

func TestVerifyPayment_LostRaceSkipsNotification(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	payment := &domain.Payment{
		ID:               uuid.New(),
		BookingID:        uuid.New(),
		Status:           domain.PaymentPending,
		GatewayReference: "ref-123",
	}

	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)
	f.gateway.On("VerifyStatus", ctx, "ref-123").Return(&ports.VerifyResult{
		Success:   true,
		Status:    ports.GatewayStatusSuccess,
		Reference: "TX1",
	}, nil)
	// Another verifier completed the payment between our read and our
	// write: the compare-and-swap reports nothing written.
	f.paymentRepo.On("MarkCompleted", ctx, payment.ID, "TX1", "").Return(false, nil)

	resp, err := f.service.VerifyPayment(ctx, payment.ID)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	f.notifier.AssertNotCalled(t, "NotifyPaymentSuccess", mock.Anything, mock.Anything)
}

func TestVerifyPayment_FailureMarksFailedAndNotifies(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	guest := &domain.User{ID: uuid.New(), Email: "abel@example.com"}
	listing := &domain.Listing{ID: uuid.New(), Title: "Lakeside Cottage"}
	booking := &domain.Booking{ID: uuid.New(), GuestID: guest.ID, ListingID: listing.ID}
	payment := &domain.Payment{
		ID:               uuid.New(),
		BookingID:        booking.ID,
		Amount:           decimal.NewFromInt(300),
		Currency:         "ETB",
		Status:           domain.PaymentPending,
		GatewayReference: "ref-123",
	}

	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)
	f.gateway.On("VerifyStatus", ctx, "ref-123").Return(&ports.VerifyResult{
		Success: true,
		Status:  ports.GatewayStatusFailed,
	}, nil)
	f.paymentRepo.On("MarkFailed", ctx, payment.ID, mock.AnythingOfType("string")).Return(true, nil)
	f.expectNoticeLookups(ctx, booking, listing, guest)
	f.notifier.On("NotifyPaymentFailure", ctx, mock.Anything, mock.AnythingOfType("string")).Return()

	resp, err := f.service.VerifyPayment(ctx, payment.ID)

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, string(domain.PaymentFailed), resp.Status)
	}
	f.notifier.AssertNumberOfCalls(t, "NotifyPaymentFailure", 1)
}

func TestVerifyPayment_GatewayPendingMutatesNothing(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	payment := &domain.Payment{
		ID:               uuid.New(),
		BookingID:        uuid.New(),
		Status:           domain.PaymentPending,
		GatewayReference: "ref-123",
	}

	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)
	f.gateway.On("VerifyStatus", ctx, "ref-123").Return(&ports.VerifyResult{
		Success: true,
		Status:  ports.GatewayStatusPending,
	}, nil)

	resp, err := f.service.VerifyPayment(ctx, payment.ID)

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, string(domain.PaymentPending), resp.Status)
	}
	f.paymentRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.paymentRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPayment_Fail_NotInitiated(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	payment := &domain.Payment{ID: uuid.New(), BookingID: uuid.New(), Status: domain.PaymentPending}

	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)

	resp, err := f.service.VerifyPayment(ctx, payment.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Nil(t, resp)
	f.gateway.AssertNotCalled(t, "VerifyStatus", mock.Anything, mock.Anything)
}

func TestVerifyPayment_GatewayErrorMutatesNothing(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	payment := &domain.Payment{
		ID:               uuid.New(),
		BookingID:        uuid.New(),
		Status:           domain.PaymentPending,
		GatewayReference: "ref-123",
	}

	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)
	f.gateway.On("VerifyStatus", ctx, "ref-123").Return(nil, errors.New("connection reset"))

	resp, err := f.service.VerifyPayment(ctx, payment.ID)

	assert.Error(t, err)
	assert.Nil(t, resp)
	f.paymentRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.paymentRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyByReference_StripsTransactionID(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	payment := &domain.Payment{
		ID:            uuid.New(),
		BookingID:     uuid.New(),
		Status:        domain.PaymentCompleted,
		TransactionID: "TX1",
	}

	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)

	resp, err := f.service.VerifyByReference(ctx, payment.ID.String())

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, string(domain.PaymentCompleted), resp.Status)
		assert.Empty(t, resp.TransactionID)
	}
}

func TestVerifyByReference_Fail_MalformedReference(t *testing.T) {
	f := newPaymentFixture()

	resp, err := f.service.VerifyByReference(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, resp)
}

func TestGetPayment_Fail_Stranger(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	listing := &domain.Listing{ID: uuid.New(), HostID: uuid.New()}
	booking := &domain.Booking{ID: uuid.New(), GuestID: uuid.New(), ListingID: listing.ID}
	payment := &domain.Payment{ID: uuid.New(), BookingID: booking.ID, Status: domain.PaymentPending}

	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)
	f.bookingRepo.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.listingRepo.On("GetByID", ctx, listing.ID).Return(listing, nil)

	resp, err := f.service.GetPayment(ctx, payment.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, resp)
}
