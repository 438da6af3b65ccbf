package ports

import (
	"context"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CheckoutSession is returned by the gateway when checkout initiation
// succeeds. The reference is the opaque identifier used to poll
// verification status later.
type CheckoutSession struct {
	CheckoutURL string
	Reference   string
}

// Gateway verification statuses, normalized across providers.
const (
	GatewayStatusSuccess = "success"
	GatewayStatusFailed  = "failed"
	GatewayStatusPending = "pending"
)

// VerifyResult is the normalized shape of a gateway verification response.
// The gateway client only translates; interpreting the result is the
// payment service's job.
type VerifyResult struct {
	Success        bool
	Status         string
	Reference      string
	Amount         decimal.Decimal
	ReceivedAmount decimal.Decimal
	Method         string
	Message        string
}

// PaymentGateway wraps the remote payment initiation/verification API.
// Implementations contain no business logic and never mutate entities.
type PaymentGateway interface {
	InitiateCheckout(ctx context.Context, payment *domain.Payment, booking *domain.Booking, guest *domain.User) (*CheckoutSession, error)
	VerifyStatus(ctx context.Context, reference string) (*VerifyResult, error)
}
