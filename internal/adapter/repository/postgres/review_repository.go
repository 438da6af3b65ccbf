package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/google/uuid"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
	INSERT INTO reviews (id, listing_id, reviewer_id, rating, comment, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.ListingID, review.ReviewerID,
		review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error) {
	query := `
	SELECT id, listing_id, reviewer_id, rating, comment, created_at
	FROM reviews
	WHERE id = $1
	`

	var rev domain.Review
	err := r.db.QueryRowContext(ctx, query, reviewID).Scan(
		&rev.ID, &rev.ListingID, &rev.ReviewerID,
		&rev.Rating, &rev.Comment, &rev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: review %s", domain.ErrNotFound, reviewID)
		}
		return nil, err
	}

	return &rev, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
	UPDATE reviews
	SET rating = $1, comment = $2
	WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, review.Rating, review.Comment, review.ID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: review %s", domain.ErrNotFound, review.ID)
	}

	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, reviewID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: review %s", domain.ErrNotFound, reviewID)
	}

	return nil
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]domain.Review, error) {
	query := `
	SELECT id, listing_id, reviewer_id, rating, comment, created_at
	FROM reviews
	WHERE listing_id = $1
	ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(
			&rev.ID, &rev.ListingID, &rev.ReviewerID,
			&rev.Rating, &rev.Comment, &rev.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}

	return reviews, rows.Err()
}
