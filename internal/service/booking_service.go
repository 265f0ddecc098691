package service

import (
	"context"
	"time"

	"tenanthub/internal/database"
	"tenanthub/internal/domain"
	"tenanthub/internal/events"
	"tenanthub/internal/metrics"
	"tenanthub/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the availability invariant: a listing can never hold
// two pending/confirmed bookings with overlapping [start, end) ranges.
type BookingService struct {
	repo     domain.BookingRepository
	listings domain.ListingDirectory
	users    domain.UserDirectory
	eventBus domain.EventPublisher
	exports  domain.ExportEnqueuer
	logger   *zerolog.Logger
}

func NewBookingService(
	repo domain.BookingRepository,
	listings domain.ListingDirectory,
	users domain.UserDirectory,
	eventBus domain.EventPublisher,
	exports domain.ExportEnqueuer,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		listings: listings,
		users:    users,
		eventBus: eventBus,
		exports:  exports,
		logger:   logger,
	}
}

// IsAvailable is a pure query: true iff no pending or confirmed booking on
// the listing overlaps [start, end).
func (s *BookingService) IsAvailable(ctx context.Context, listingID int64, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, database.ErrInvalidRange
	}
	return s.repo.IsAvailable(ctx, listingID, start, end)
}

// CreateBooking validates the request and inserts a pending booking. The
// availability check is repeated inside the storage transaction, so two
// concurrent conflicting requests cannot both succeed; the loser gets
// database.ErrBookingConflict.
func (s *BookingService) CreateBooking(ctx context.Context, listingID, userID int64, start, end time.Time, guests int64) (*models.Booking, error) {
	if !start.Before(end) {
		return nil, database.ErrInvalidRange
	}
	if guests < 1 {
		return nil, database.ErrInvalidGuests
	}

	exists, err := s.listings.ListingExists(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	active, err := s.listings.ListingIsActive(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, database.ErrListingInactive
	}

	if ok, err := s.users.UserExists(ctx, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, database.ErrNotFound
	}

	// Fast pre-check; the authoritative check runs inside the insert tx.
	available, err := s.repo.IsAvailable(ctx, listingID, start, end)
	if err != nil {
		return nil, err
	}
	if !available {
		metrics.IncBookingConflict()
		return nil, database.ErrBookingConflict
	}

	booking := &models.Booking{
		ListingID: listingID,
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Guests:    guests,
		Status:    models.StatusPending,
	}
	if err := s.repo.CreateBookingWithGuard(ctx, booking); err != nil {
		if err == database.ErrBookingConflict {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publishBookingEvent(events.EventBookingCreated, booking, "user", userID)
	s.enqueueExport(ctx)

	return booking, nil
}

// TransitionStatus applies one edge of the booking state machine. Confirming
// a booking cancels conflicting pending bookings on the same listing in the
// same transaction; a cancellation event is published per casualty.
func (s *BookingService) TransitionStatus(ctx context.Context, bookingID int64, newStatus string) (*models.Booking, error) {
	if !models.ValidStatus(newStatus) || newStatus == models.StatusPending {
		// No edge re-enters pending.
		return nil, database.ErrInvalidTransition
	}

	booking, reconciled, err := s.repo.TransitionBookingStatus(ctx, bookingID, newStatus)
	if err != nil {
		return nil, err
	}

	metrics.IncBookingTransition(newStatus)
	s.publishBookingEvent(eventForStatus(newStatus), booking, "system", 0)

	for _, id := range reconciled {
		cancelled, err := s.repo.GetBooking(ctx, id)
		if err != nil {
			s.logger.Error().Err(err).Int64("booking_id", id).Msg("load reconciled booking")
			continue
		}
		s.logger.Info().
			Int64("booking_id", id).
			Int64("confirmed_id", booking.ID).
			Msg("cancelled pending booking conflicting with confirmation")
		s.publishBookingEvent(events.EventBookingCancelled, cancelled, "system", 0)
	}

	s.enqueueExport(ctx)
	return booking, nil
}

func eventForStatus(status string) string {
	switch status {
	case models.StatusConfirmed:
		return events.EventBookingConfirmed
	case models.StatusCancelled:
		return events.EventBookingCancelled
	case models.StatusCompleted:
		return events.EventBookingCompleted
	}
	return ""
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

func (s *BookingService) ListForListing(ctx context.Context, listingID int64) ([]*models.Booking, error) {
	return s.repo.GetBookingsForListing(ctx, listingID)
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64) ([]*models.Booking, error) {
	return s.repo.GetBookingsForUser(ctx, userID)
}

func (s *BookingService) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	if !start.Before(end) {
		return nil, database.ErrInvalidRange
	}
	return s.repo.GetBookingsByDateRange(ctx, start, end)
}

// DeleteBooking is the owner/admin hard-delete path; normal flows cancel.
func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	return s.repo.DeleteBooking(ctx, id)
}

func (s *BookingService) publishBookingEvent(eventType string, booking *models.Booking, changedBy string, changedByID int64) {
	if s.eventBus == nil || eventType == "" {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		ListingID:   booking.ListingID,
		UserID:      booking.UserID,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		Status:      booking.Status,
		ChangedBy:   changedBy,
		ChangedByID: changedByID,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueExport(ctx context.Context) {
	if s.exports == nil {
		return
	}
	if err := s.exports.EnqueueExport(ctx, models.ExportTypeBookings); err != nil {
		s.logger.Error().Err(err).Msg("export enqueue error")
	}
}
