package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"tenanthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ten goroutines race to book the same dates; the tx guard must let exactly
// one through.
func TestConcurrentBookingCreation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "concurrency.db")
	logger := zerolog.Nop()
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	listing := createTestListing(t, db, owner.ID, "Contested Flat")

	const workers = 10
	users := make([]*models.User, workers)
	for i := range users {
		users[i] = createTestUser(t, db, "racer"+string(rune('a'+i)))
	}

	start := date(t, "2026-09-10")
	end := date(t, "2026-09-15")

	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			booking := &models.Booking{
				ListingID: listing.ID,
				UserID:    userID,
				StartDate: start,
				EndDate:   end,
				Guests:    1,
				Status:    models.StatusPending,
			}
			results <- db.CreateBookingWithGuard(ctx, booking)
		}(users[i].ID)
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrBookingConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one booking must win the race")
	assert.Equal(t, workers-1, conflicts)

	bookings, err := db.GetBookingsForListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

// Concurrent status transitions on one booking: the version check must reject
// all but the first writer.
func TestConcurrentStatusTransition(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "transitions.db")
	logger := zerolog.Nop()
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	listing := createTestListing(t, db, owner.ID, "Contested Flat")
	booking := createTestBooking(t, db, listing.ID, owner.ID, "2026-09-10", "2026-09-15", models.StatusPending)

	const workers = 5
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := db.TransitionBookingStatus(ctx, booking.ID, models.StatusConfirmed)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrConcurrentModification), errors.Is(err, ErrInvalidTransition):
			// проигравшие видят либо устаревшую версию, либо уже confirmed
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)

	final, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, final.Status)
}
