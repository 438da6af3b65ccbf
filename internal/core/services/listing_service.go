package services

import (
	"context"
	"fmt"
	"time"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/amanuel-t/travel_booking/internal/core/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ListingRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	PricePerNight string `json:"price_per_night"`
	IsAvailable   *bool  `json:"is_available,omitempty"`
}

type ListingResponse struct {
	ListingID     string `json:"listing_id"`
	HostID        string `json:"host_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	PricePerNight string `json:"price_per_night"`
	IsAvailable   bool   `json:"is_available"`
}

// ListingService manages host-owned property listings.
type ListingService struct {
	listingRepo ports.ListingRepository
}

func NewListingService(listingRepo ports.ListingRepository) *ListingService {
	return &ListingService{listingRepo: listingRepo}
}

func (s *ListingService) Create(ctx context.Context, hostID uuid.UUID, req ListingRequest) (*ListingResponse, error) {
	price, err := parsePrice(req.PricePerNight)
	if err != nil {
		return nil, err
	}
	if req.Title == "" || req.Location == "" {
		return nil, fmt.Errorf("%w: title and location are required", domain.ErrInvalidInput)
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	now := time.Now()
	listing := &domain.Listing{
		ID:            uuid.New(),
		HostID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: price,
		IsAvailable:   available,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return toListingResponse(listing), nil
}

func (s *ListingService) Update(ctx context.Context, listingID, actor uuid.UUID, req ListingRequest) (*ListingResponse, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if !listing.IsOwnedBy(actor) {
		return nil, fmt.Errorf("%w: you can only update your own listings", domain.ErrForbidden)
	}

	if req.Title != "" {
		listing.Title = req.Title
	}
	if req.Description != "" {
		listing.Description = req.Description
	}
	if req.Location != "" {
		listing.Location = req.Location
	}
	if req.PricePerNight != "" {
		price, err := parsePrice(req.PricePerNight)
		if err != nil {
			return nil, err
		}
		listing.PricePerNight = price
	}
	if req.IsAvailable != nil {
		listing.IsAvailable = *req.IsAvailable
	}
	listing.UpdatedAt = time.Now()

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	return toListingResponse(listing), nil
}

func (s *ListingService) Delete(ctx context.Context, listingID, actor uuid.UUID) error {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}

	if !listing.IsOwnedBy(actor) {
		return fmt.Errorf("%w: you can only delete your own listings", domain.ErrForbidden)
	}

	return s.listingRepo.Delete(ctx, listingID)
}

func (s *ListingService) Get(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return toListingResponse(listing), nil
}

func (s *ListingService) List(ctx context.Context, filter domain.ListingFilter) ([]ListingResponse, error) {
	listings, err := s.listingRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toListingResponses(listings), nil
}

func (s *ListingService) ListForHost(ctx context.Context, hostID uuid.UUID) ([]ListingResponse, error) {
	listings, err := s.listingRepo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	return toListingResponses(listings), nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: invalid price_per_night", domain.ErrInvalidInput)
	}
	return price, nil
}

func toListingResponse(l *domain.Listing) *ListingResponse {
	return &ListingResponse{
		ListingID:     l.ID.String(),
		HostID:        l.HostID.String(),
		Title:         l.Title,
		Description:   l.Description,
		Location:      l.Location,
		PricePerNight: l.PricePerNight.String(),
		IsAvailable:   l.IsAvailable,
	}
}

func toListingResponses(listings []domain.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, *toListingResponse(&listings[i]))
	}
	return out
}
