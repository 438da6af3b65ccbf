package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/google/uuid"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
	INSERT INTO payments (id, booking_id, amount, currency, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID, payment.BookingID, payment.Amount, payment.Currency,
		payment.Status, payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	return r.getOne(ctx, `WHERE id = $1`, paymentID)
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	return r.getOne(ctx, `WHERE booking_id = $1`, bookingID)
}

func (r *PaymentRepository) getOne(ctx context.Context, where string, arg any) (*domain.Payment, error) {
	query := `
	SELECT id, booking_id, amount, currency, status, gateway_reference, transaction_id, payment_method, error_message, created_at, updated_at
	FROM payments
	` + where

	var p domain.Payment
	var gatewayRef, transactionID, method, errMsg sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.BookingID, &p.Amount, &p.Currency, &p.Status,
		&gatewayRef, &transactionID, &method, &errMsg,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment", domain.ErrNotFound)
		}
		return nil, err
	}

	p.GatewayReference = gatewayRef.String
	p.TransactionID = transactionID.String
	p.PaymentMethod = method.String
	p.ErrorMessage = errMsg.String

	return &p, nil
}

func (r *PaymentRepository) SetGatewayReference(ctx context.Context, paymentID uuid.UUID, reference string) error {
	query := `
	UPDATE payments
	SET gateway_reference = $1, updated_at = $2
	WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, reference, time.Now(), paymentID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: payment %s", domain.ErrNotFound, paymentID)
	}

	return nil
}

// MarkCompleted advances pending -> completed, writing the transaction id
// and payment method in the same statement. The status predicate makes the
// update a compare-and-swap: of two racing verifications only one sees a
// row change, so terminal transitions and their notifications happen once.
func (r *PaymentRepository) MarkCompleted(ctx context.Context, paymentID uuid.UUID, transactionID, method string) (bool, error) {
	query := `
	UPDATE payments
	SET status = $1, transaction_id = $2, payment_method = $3, updated_at = $4
	WHERE id = $5 AND status = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		domain.PaymentCompleted, transactionID, method, time.Now(),
		paymentID, domain.PaymentPending,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// MarkFailed advances pending -> failed under the same guard as
// MarkCompleted.
func (r *PaymentRepository) MarkFailed(ctx context.Context, paymentID uuid.UUID, errorMessage string) (bool, error) {
	query := `
	UPDATE payments
	SET status = $1, error_message = $2, updated_at = $3
	WHERE id = $4 AND status = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		domain.PaymentFailed, errorMessage, time.Now(),
		paymentID, domain.PaymentPending,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
