package services

import (
	"context"
	"fmt"
	"time"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/amanuel-t/travel_booking/internal/core/ports"
	"github.com/google/uuid"
)

type ReviewRequest struct {
	ListingID string `json:"listing_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type ReviewResponse struct {
	ReviewID   string `json:"review_id"`
	ListingID  string `json:"listing_id"`
	ReviewerID string `json:"reviewer_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type ReviewService struct {
	reviewRepo  ports.ReviewRepository
	listingRepo ports.ListingRepository
}

func NewReviewService(reviewRepo ports.ReviewRepository, listingRepo ports.ListingRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, listingRepo: listingRepo}
}

func (s *ReviewService) Create(ctx context.Context, reviewerID uuid.UUID, req ReviewRequest) (*ReviewResponse, error) {
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %q", domain.ErrNotFound, req.ListingID)
	}

	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}

	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:         uuid.New(),
		ListingID:  listingID,
		ReviewerID: reviewerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return toReviewResponse(review), nil
}

func (s *ReviewService) Update(ctx context.Context, reviewID, actor uuid.UUID, rating int, comment string) (*ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.ReviewerID != actor {
		return nil, fmt.Errorf("%w: you can only update your own reviews", domain.ErrForbidden)
	}

	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}

	review.Rating = rating
	review.Comment = comment

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return toReviewResponse(review), nil
}

func (s *ReviewService) Delete(ctx context.Context, reviewID, actor uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.ReviewerID != actor {
		return fmt.Errorf("%w: you can only delete your own reviews", domain.ErrForbidden)
	}

	return s.reviewRepo.Delete(ctx, reviewID)
}

func (s *ReviewService) ListForListing(ctx context.Context, listingID uuid.UUID) ([]ReviewResponse, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, *toReviewResponse(&reviews[i]))
	}
	return out, nil
}

func toReviewResponse(r *domain.Review) *ReviewResponse {
	return &ReviewResponse{
		ReviewID:   r.ID.String(),
		ListingID:  r.ListingID.String(),
		ReviewerID: r.ReviewerID.String(),
		Rating:     r.Rating,
		Comment:    r.Comment,
	}
}
