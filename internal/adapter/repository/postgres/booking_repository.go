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

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking and its pending payment in one transaction so
// neither record can exist without the other.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	bookingQuery := `
	INSERT INTO bookings (id, guest_id, listing_id, check_in_date, check_out_date, total_price, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.ExecContext(ctx, bookingQuery,
		booking.ID, booking.GuestID, booking.ListingID,
		booking.CheckInDate, booking.CheckOutDate, booking.TotalPrice,
		booking.Status, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	paymentQuery := `
	INSERT INTO payments (id, booking_id, amount, currency, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(ctx, paymentQuery,
		payment.ID, payment.BookingID, payment.Amount, payment.Currency,
		payment.Status, payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := `
	SELECT id, guest_id, listing_id, check_in_date, check_out_date, total_price, status, created_at, updated_at
	FROM bookings
	WHERE id = $1
	`

	var b domain.Booking
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&b.ID, &b.GuestID, &b.ListingID,
		&b.CheckInDate, &b.CheckOutDate, &b.TotalPrice,
		&b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %s", domain.ErrNotFound, bookingID)
		}
		return nil, err
	}

	return &b, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) error {
	query := `
	UPDATE bookings
	SET status = $1, updated_at = $2
	WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), bookingID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: booking %s", domain.ErrNotFound, bookingID)
	}

	return nil
}

func (r *BookingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	query := `
	SELECT b.id, b.guest_id, b.listing_id, b.check_in_date, b.check_out_date, b.total_price, b.status, b.created_at, b.updated_at
	FROM bookings b
	JOIN listings l ON l.id = b.listing_id
	WHERE b.guest_id = $1 OR l.host_id = $1
	ORDER BY b.created_at DESC
	`

	return r.queryBookings(ctx, query, userID)
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error) {
	query := `
	SELECT id, guest_id, listing_id, check_in_date, check_out_date, total_price, status, created_at, updated_at
	FROM bookings
	WHERE guest_id = $1
	ORDER BY created_at DESC
	`

	return r.queryBookings(ctx, query, guestID)
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.GuestID, &b.ListingID,
			&b.CheckInDate, &b.CheckOutDate, &b.TotalPrice,
			&b.Status, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
