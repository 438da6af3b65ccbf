package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/google/uuid"
)

type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	query := `
	INSERT INTO listings (id, host_id, title, description, location, price_per_night, is_available, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		listing.ID, listing.HostID, listing.Title, listing.Description,
		listing.Location, listing.PricePerNight, listing.IsAvailable,
		listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}

	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	query := `
	SELECT id, host_id, title, description, location, price_per_night, is_available, created_at, updated_at
	FROM listings
	WHERE id = $1
	`

	var l domain.Listing
	err := r.db.QueryRowContext(ctx, query, listingID).Scan(
		&l.ID, &l.HostID, &l.Title, &l.Description,
		&l.Location, &l.PricePerNight, &l.IsAvailable,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: listing %s", domain.ErrNotFound, listingID)
		}
		return nil, err
	}

	return &l, nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	query := `
	UPDATE listings
	SET title = $1, description = $2, location = $3, price_per_night = $4, is_available = $5, updated_at = $6
	WHERE id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		listing.Title, listing.Description, listing.Location,
		listing.PricePerNight, listing.IsAvailable, listing.UpdatedAt,
		listing.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: listing %s", domain.ErrNotFound, listing.ID)
	}

	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, listingID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, listingID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: listing %s", domain.ErrNotFound, listingID)
	}

	return nil
}

func (r *ListingRepository) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	query := `
	SELECT id, host_id, title, description, location, price_per_night, is_available, created_at, updated_at
	FROM listings
	WHERE ($1::text = '' OR location ILIKE '%' || $1 || '%')
	  AND (NOT $2::boolean OR is_available)
	ORDER BY created_at DESC
	`

	return r.queryListings(ctx, query, filter.Location, filter.OnlyAvailable)
}

func (r *ListingRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]domain.Listing, error) {
	query := `
	SELECT id, host_id, title, description, location, price_per_night, is_available, created_at, updated_at
	FROM listings
	WHERE host_id = $1
	ORDER BY created_at DESC
	`

	return r.queryListings(ctx, query, hostID)
}

func (r *ListingRepository) queryListings(ctx context.Context, query string, args ...any) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(
			&l.ID, &l.HostID, &l.Title, &l.Description,
			&l.Location, &l.PricePerNight, &l.IsAvailable,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}
