package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRange is returned when check_out is not after check_in.
	ErrInvalidRange = errors.New("check-out date must be after check-in date")

	// ErrInvalidInput is returned for malformed request fields outside the
	// date-range rule, such as an unparseable price or rating.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned when the actor lacks permission for the target entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition is returned when a state machine guard is violated.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPaymentDeclined is returned when the gateway processed an
	// initiation request and rejected it. Unlike ErrGateway this records a
	// definite outcome, so the payment is marked failed.
	ErrPaymentDeclined = errors.New("payment declined by gateway")

	// ErrGateway is returned on network or protocol failures talking to the
	// payment gateway. The payment record is never mutated on this error.
	ErrGateway = errors.New("payment gateway error")

	// ErrConfiguration is returned when the gateway credentials are missing.
	ErrConfiguration = errors.New("payment gateway misconfigured")
)
