package service

import (
	"context"
	"strings"

	"tenanthub/internal/database"
	"tenanthub/internal/domain"
	"tenanthub/internal/events"
	"tenanthub/internal/models"

	"github.com/rs/zerolog"
)

// ReviewService covers reviews, favorites and inquiries against listings.
type ReviewService struct {
	repo     domain.ReviewRepository
	listings domain.ListingDirectory
	users    domain.UserDirectory
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewReviewService(repo domain.ReviewRepository, listings domain.ListingDirectory, users domain.UserDirectory, eventBus domain.EventPublisher, logger *zerolog.Logger) *ReviewService {
	return &ReviewService{repo: repo, listings: listings, users: users, eventBus: eventBus, logger: logger}
}

func (s *ReviewService) checkListingAndUser(ctx context.Context, listingID, userID int64) error {
	exists, err := s.listings.ListingExists(ctx, listingID)
	if err != nil {
		return err
	}
	if !exists {
		return database.ErrNotFound
	}
	exists, err = s.users.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return database.ErrNotFound
	}
	return nil
}

// CreateReview enforces the 1..5 rating range and one review per user per listing.
func (s *ReviewService) CreateReview(ctx context.Context, review *models.Review) error {
	if review.Rating < models.MinRating || review.Rating > models.MaxRating {
		return validation("rating must be between 1 and 5")
	}
	if err := s.checkListingAndUser(ctx, review.ListingID, review.UserID); err != nil {
		return err
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return err
	}
	s.logger.Info().
		Int64("review_id", review.ID).
		Int64("listing_id", review.ListingID).
		Int64("rating", review.Rating).
		Msg("review created")
	return nil
}

func (s *ReviewService) GetReviewsForListing(ctx context.Context, listingID int64) ([]*models.Review, error) {
	return s.repo.GetReviewsForListing(ctx, listingID)
}

func (s *ReviewService) GetReviewsByUser(ctx context.Context, userID int64) ([]*models.Review, error) {
	return s.repo.GetReviewsByUser(ctx, userID)
}

func (s *ReviewService) AddFavorite(ctx context.Context, userID, listingID int64) error {
	if err := s.checkListingAndUser(ctx, listingID, userID); err != nil {
		return err
	}
	return s.repo.AddFavorite(ctx, &models.Favorite{UserID: userID, ListingID: listingID})
}

func (s *ReviewService) RemoveFavorite(ctx context.Context, userID, listingID int64) error {
	return s.repo.RemoveFavorite(ctx, userID, listingID)
}

func (s *ReviewService) GetFavoritesForUser(ctx context.Context, userID int64) ([]*models.Favorite, error) {
	return s.repo.GetFavoritesForUser(ctx, userID)
}

func (s *ReviewService) IsFavorited(ctx context.Context, userID, listingID int64) (bool, error) {
	return s.repo.IsFavorited(ctx, userID, listingID)
}

// CreateInquiry stores a pre-booking question and announces it on the bus.
func (s *ReviewService) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	if strings.TrimSpace(inquiry.Message) == "" {
		return validation("inquiry message is required")
	}
	if err := s.checkListingAndUser(ctx, inquiry.ListingID, inquiry.UserID); err != nil {
		return err
	}
	if err := s.repo.CreateInquiry(ctx, inquiry); err != nil {
		return err
	}

	if s.eventBus != nil {
		if err := s.eventBus.PublishJSON(events.EventInquiryCreated, inquiry); err != nil {
			s.logger.Error().Err(err).Int64("inquiry_id", inquiry.ID).Msg("publish inquiry event")
		}
	}
	return nil
}

func (s *ReviewService) MarkInquiryResponded(ctx context.Context, id int64) error {
	return s.repo.MarkInquiryResponded(ctx, id)
}

func (s *ReviewService) GetInquiriesForListing(ctx context.Context, listingID int64) ([]*models.Inquiry, error) {
	return s.repo.GetInquiriesForListing(ctx, listingID)
}

func (s *ReviewService) GetInquiriesByUser(ctx context.Context, userID int64) ([]*models.Inquiry, error) {
	return s.repo.GetInquiriesByUser(ctx, userID)
}
