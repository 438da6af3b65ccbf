package services_test

import (
	"context"
	"testing"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/amanuel-t/travel_booking/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateListing_Success(t *testing.T) {
	mockRepo := new(MockListingRepository)
	service := services.NewListingService(mockRepo)

	ctx := context.Background()
	hostID := uuid.New()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)

	resp, err := service.Create(ctx, hostID, services.ListingRequest{
		Title:         "Lakeside Cottage",
		Location:      "Bahir Dar",
		PricePerNight: "100",
	})

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, hostID.String(), resp.HostID)
		assert.Equal(t, "100", resp.PricePerNight)
		assert.True(t, resp.IsAvailable)
	}
}

func TestCreateListing_Fail_MissingTitle(t *testing.T) {
	service := services.NewListingService(new(MockListingRepository))

	resp, err := service.Create(context.Background(), uuid.New(), services.ListingRequest{
		Location:      "Bahir Dar",
		PricePerNight: "100",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, resp)
}

func TestCreateListing_Fail_NegativePrice(t *testing.T) {
	service := services.NewListingService(new(MockListingRepository))

	resp, err := service.Create(context.Background(), uuid.New(), services.ListingRequest{
		Title:         "Lakeside Cottage",
		Location:      "Bahir Dar",
		PricePerNight: "-100",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, resp)
}

func TestUpdateListing_Fail_NotOwner(t *testing.T) {
	mockRepo := new(MockListingRepository)
	service := services.NewListingService(mockRepo)

	ctx := context.Background()
	listingID := uuid.New()

	mockRepo.On("GetByID", ctx, listingID).Return(&domain.Listing{
		ID:     listingID,
		HostID: uuid.New(),
	}, nil)

	resp, err := service.Update(ctx, listingID, uuid.New(), services.ListingRequest{Title: "New Title"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, resp)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateListing_PartialUpdate(t *testing.T) {
	mockRepo := new(MockListingRepository)
	service := services.NewListingService(mockRepo)

	ctx := context.Background()
	hostID := uuid.New()
	listingID := uuid.New()

	mockRepo.On("GetByID", ctx, listingID).Return(&domain.Listing{
		ID:            listingID,
		HostID:        hostID,
		Title:         "Lakeside Cottage",
		Location:      "Bahir Dar",
		PricePerNight: decimal.NewFromInt(100),
		IsAvailable:   true,
	}, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)

	available := false
	resp, err := service.Update(ctx, listingID, hostID, services.ListingRequest{IsAvailable: &available})

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		// Untouched fields keep their values.
		assert.Equal(t, "Lakeside Cottage", resp.Title)
		assert.Equal(t, "100", resp.PricePerNight)
		assert.False(t, resp.IsAvailable)
	}
}

func TestDeleteListing_Fail_NotOwner(t *testing.T) {
	mockRepo := new(MockListingRepository)
	service := services.NewListingService(mockRepo)

	ctx := context.Background()
	listingID := uuid.New()

	mockRepo.On("GetByID", ctx, listingID).Return(&domain.Listing{
		ID:     listingID,
		HostID: uuid.New(),
	}, nil)

	err := service.Delete(ctx, listingID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListListings_PassesFilter(t *testing.T) {
	mockRepo := new(MockListingRepository)
	service := services.NewListingService(mockRepo)

	ctx := context.Background()
	filter := domain.ListingFilter{Location: "Bahir Dar", OnlyAvailable: true}

	mockRepo.On("List", ctx, filter).Return([]domain.Listing{
		{ID: uuid.New(), Title: "Lakeside Cottage", Location: "Bahir Dar", IsAvailable: true},
	}, nil)

	resp, err := service.List(ctx, filter)

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
}
