package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tenanthub/internal/models"
)

const bookingColumns = `id, listing_id, user_id, date(start_date), date(end_date),
                 guests, status, created_at, updated_at, version`

func scanBooking(row interface{ Scan(dest ...any) error }) (*models.Booking, error) {
	var b models.Booking
	var startStr, endStr string
	err := row.Scan(
		&b.ID, &b.ListingID, &b.UserID, &startStr, &endStr,
		&b.Guests, &b.Status, &b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}

	if b.StartDate, err = time.Parse(dateLayout, startStr); err != nil {
		return nil, fmt.Errorf("failed to parse booking start date %s: %w", startStr, err)
	}
	if b.EndDate, err = time.Parse(dateLayout, endStr); err != nil {
		return nil, fmt.Errorf("failed to parse booking end date %s: %w", endStr, err)
	}
	return &b, nil
}

// IsAvailable reports whether no pending or confirmed booking on the listing
// overlaps [start, end). Intervals are half-open: two ranges [a,b) and [c,d)
// overlap iff a < d AND c < b, so touching endpoints are adjacent.
func (db *DB) IsAvailable(ctx context.Context, listingID int64, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, ErrInvalidRange
	}

	count, err := db.overlapCount(ctx, db.DB, listingID, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return count == 0, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (db *DB) overlapCount(ctx context.Context, q querier, listingID int64, start, end time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE listing_id = ?
                AND status IN (?, ?)
                AND date(start_date) < date(?)
                AND date(?) < date(end_date)`
	var count int
	err := q.QueryRowContext(ctx, query, listingID,
		models.StatusPending, models.StatusConfirmed,
		end.Format(dateLayout), start.Format(dateLayout)).Scan(&count)
	return count, err
}

// CreateBookingWithGuard re-checks the overlap inside the insert transaction.
// SQLite serializes writers, so the check and the insert form one atomic unit
// and two concurrent conflicting creates cannot both succeed.
func (db *DB) CreateBookingWithGuard(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var isActive bool
	err = tx.QueryRowContext(ctx, `SELECT is_active FROM listings WHERE id = ?`, booking.ListingID).Scan(&isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load listing in tx: %w", err)
	}
	if !isActive {
		return ErrListingInactive
	}

	count, err := db.overlapCount(ctx, tx, booking.ListingID, booking.StartDate, booking.EndDate)
	if err != nil {
		return fmt.Errorf("failed to check availability in tx: %w", err)
	}
	if count > 0 {
		return ErrBookingConflict
	}

	query := `INSERT INTO bookings (listing_id, user_id, start_date, end_date, guests, status, created_at, updated_at, version)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := tx.ExecContext(ctx, query,
		booking.ListingID,
		booking.UserID,
		booking.StartDate.Format(dateLayout),
		booking.EndDate.Format(dateLayout),
		booking.Guests,
		booking.Status,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// TransitionBookingStatus validates the status edge and applies it as one
// transaction. Confirming a booking also cancels every other pending booking
// on the listing whose range overlaps the confirmed one; the cancelled ids are
// returned so callers can publish events for them.
func (db *DB) TransitionBookingStatus(ctx context.Context, id int64, newStatus string) (*models.Booking, []int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load booking in tx: %w", err)
	}

	if !models.CanTransition(booking.Status, newStatus) {
		return nil, nil, ErrInvalidTransition
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`,
		newStatus, now, id, booking.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, nil, ErrConcurrentModification
	}

	var reconciled []int64
	if newStatus == models.StatusConfirmed {
		reconciled, err = cancelOverlappingPending(ctx, tx, booking, now)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit status transition: %w", err)
	}

	booking.Status = newStatus
	booking.UpdatedAt = now
	booking.Version++
	return booking, reconciled, nil
}

func cancelOverlappingPending(ctx context.Context, tx *sql.Tx, confirmed *models.Booking, now time.Time) ([]int64, error) {
	query := `SELECT id FROM bookings
              WHERE listing_id = ? AND id != ? AND status = ?
                AND date(start_date) < date(?)
                AND date(?) < date(end_date)`
	rows, err := tx.QueryContext(ctx, query,
		confirmed.ListingID, confirmed.ID, models.StatusPending,
		confirmed.EndDate.Format(dateLayout), confirmed.StartDate.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to find conflicting pending bookings: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan conflicting booking id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		_, err := tx.ExecContext(ctx,
			`UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ?`,
			models.StatusCancelled, now, id)
		if err != nil {
			return nil, fmt.Errorf("failed to cancel conflicting booking %d: %w", id, err)
		}
	}
	return ids, nil
}

func (db *DB) GetBookingsForListing(ctx context.Context, listingID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE listing_id = ? ORDER BY created_at DESC`
	return db.queryBookings(ctx, query, listingID)
}

func (db *DB) GetBookingsForUser(ctx context.Context, userID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`
	return db.queryBookings(ctx, query, userID)
}

func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	return db.queryBookings(ctx, query)
}

func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE date(start_date) < date(?) AND date(?) < date(end_date)
              ORDER BY start_date ASC`
	return db.queryBookings(ctx, query, end.Format(dateLayout), start.Format(dateLayout))
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// DeleteBooking removes the row. Normal operation cancels instead; this exists
// for the owner/admin hard-delete path.
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
