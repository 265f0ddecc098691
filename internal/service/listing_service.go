package service

import (
	"context"
	"math"
	"strings"

	"tenanthub/internal/domain"
	"tenanthub/internal/models"

	"github.com/rs/zerolog"
)

type ListingService struct {
	repo   domain.ListingRepository
	logger *zerolog.Logger
}

func NewListingService(repo domain.ListingRepository, logger *zerolog.Logger) *ListingService {
	return &ListingService{repo: repo, logger: logger}
}

func (s *ListingService) CreateListing(ctx context.Context, listing *models.Listing) error {
	if strings.TrimSpace(listing.Title) == "" {
		return validation("listing title is required")
	}
	if strings.TrimSpace(listing.Address) == "" {
		return validation("listing address is required")
	}
	if listing.PriceCents <= 0 {
		return validation("listing price must be positive")
	}
	if !models.ValidPropertyType(listing.PropertyType) {
		return validation("unknown property type")
	}
	listing.IsActive = true
	return s.repo.CreateListing(ctx, listing)
}

func (s *ListingService) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	return s.repo.GetListing(ctx, id)
}

func (s *ListingService) UpdateListing(ctx context.Context, listing *models.Listing) error {
	if !models.ValidPropertyType(listing.PropertyType) {
		return validation("unknown property type")
	}
	return s.repo.UpdateListing(ctx, listing)
}

func (s *ListingService) DeactivateListing(ctx context.Context, id int64) error {
	return s.repo.SetListingActive(ctx, id, false)
}

func (s *ListingService) ActivateListing(ctx context.Context, id int64) error {
	return s.repo.SetListingActive(ctx, id, true)
}

func (s *ListingService) GetActiveListings(ctx context.Context) ([]*models.Listing, error) {
	return s.repo.GetActiveListings(ctx)
}

func (s *ListingService) GetListingsByOwner(ctx context.Context, ownerID int64) ([]*models.Listing, error) {
	return s.repo.GetListingsByOwner(ctx, ownerID)
}

func (s *ListingService) CreateAmenity(ctx context.Context, amenity *models.Amenity) error {
	if strings.TrimSpace(amenity.Name) == "" {
		return validation("amenity name is required")
	}
	return s.repo.CreateAmenity(ctx, amenity)
}

func (s *ListingService) GetAllAmenities(ctx context.Context) ([]*models.Amenity, error) {
	return s.repo.GetAllAmenities(ctx)
}

func (s *ListingService) AttachAmenity(ctx context.Context, listingID, amenityID int64) error {
	return s.repo.AttachAmenity(ctx, listingID, amenityID)
}

func (s *ListingService) GetListingAmenities(ctx context.Context, listingID int64) ([]*models.Amenity, error) {
	return s.repo.GetListingAmenities(ctx, listingID)
}

// AverageRating returns the mean review rating rounded to two decimals; ok is
// false when the listing has no reviews.
func (s *ListingService) AverageRating(ctx context.Context, listingID int64) (float64, bool, error) {
	avg, ok, err := s.repo.GetListingAverageRating(ctx, listingID)
	if err != nil || !ok {
		return 0, ok, err
	}
	return math.Round(avg*100) / 100, true, nil
}
