package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tenanthub/internal/models"
)

const listingColumns = `id, title, description, address, city, state, country, postal_code,
                 price_cents, property_type, bedrooms, bathrooms, square_feet,
                 owner_id, is_active, created_at, updated_at`

func scanListing(row interface{ Scan(dest ...any) error }) (*models.Listing, error) {
	var l models.Listing
	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.Address, &l.City, &l.State, &l.Country, &l.PostalCode,
		&l.PriceCents, &l.PropertyType, &l.Bedrooms, &l.Bathrooms, &l.SquareFeet,
		&l.OwnerID, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (db *DB) CreateListing(ctx context.Context, listing *models.Listing) error {
	query := `INSERT INTO listings (
                title, description, address, city, state, country, postal_code,
                price_cents, property_type, bedrooms, bathrooms, square_feet,
                owner_id, is_active, created_at, updated_at
              ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		listing.Title, listing.Description, listing.Address, listing.City,
		listing.State, listing.Country, listing.PostalCode,
		listing.PriceCents, listing.PropertyType, listing.Bedrooms,
		listing.Bathrooms, listing.SquareFeet,
		listing.OwnerID, listing.IsActive, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	listing.ID = id
	listing.CreatedAt = now
	listing.UpdatedAt = now
	return nil
}

func (db *DB) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = ?`
	listing, err := scanListing(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

func (db *DB) UpdateListing(ctx context.Context, listing *models.Listing) error {
	query := `UPDATE listings SET
                title = ?, description = ?, address = ?, city = ?, state = ?,
                country = ?, postal_code = ?, price_cents = ?, property_type = ?,
                bedrooms = ?, bathrooms = ?, square_feet = ?, is_active = ?, updated_at = ?
              WHERE id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		listing.Title, listing.Description, listing.Address, listing.City, listing.State,
		listing.Country, listing.PostalCode, listing.PriceCents, listing.PropertyType,
		listing.Bedrooms, listing.Bathrooms, listing.SquareFeet, listing.IsActive, now,
		listing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	listing.UpdatedAt = now
	return nil
}

func (db *DB) SetListingActive(ctx context.Context, id int64, active bool) error {
	result, err := db.ExecContext(ctx,
		`UPDATE listings SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set listing active flag: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetActiveListings(ctx context.Context) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE is_active = 1 ORDER BY created_at DESC`
	return db.queryListings(ctx, query)
}

// GetAllListings returns every listing regardless of the active flag.
func (db *DB) GetAllListings(ctx context.Context) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at DESC`
	return db.queryListings(ctx, query)
}

func (db *DB) GetListingsByOwner(ctx context.Context, ownerID int64) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_id = ? ORDER BY created_at DESC`
	return db.queryListings(ctx, query, ownerID)
}

func (db *DB) queryListings(ctx context.Context, query string, args ...any) ([]*models.Listing, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// ListingExists and ListingIsActive are the lookups the booking core consumes.

func (db *DB) ListingExists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check listing existence: %w", err)
	}
	return n > 0, nil
}

func (db *DB) ListingIsActive(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := db.QueryRowContext(ctx, `SELECT is_active FROM listings WHERE id = ?`, id).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to check listing active flag: %w", err)
	}
	return active, nil
}

// Amenities

func (db *DB) CreateAmenity(ctx context.Context, amenity *models.Amenity) error {
	result, err := db.ExecContext(ctx,
		`INSERT INTO amenities (name, description) VALUES (?, ?)`,
		amenity.Name, amenity.Description)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create amenity: %w", err)
	}
	amenity.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (db *DB) GetAllAmenities(ctx context.Context) ([]*models.Amenity, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, description FROM amenities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query amenities: %w", err)
	}
	defer rows.Close()

	var amenities []*models.Amenity
	for rows.Next() {
		var a models.Amenity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description); err != nil {
			return nil, fmt.Errorf("failed to scan amenity: %w", err)
		}
		amenities = append(amenities, &a)
	}
	return amenities, rows.Err()
}

func (db *DB) AttachAmenity(ctx context.Context, listingID, amenityID int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO listing_amenities (listing_id, amenity_id) VALUES (?, ?)`,
		listingID, amenityID)
	if err != nil {
		return fmt.Errorf("failed to attach amenity: %w", err)
	}
	return nil
}

func (db *DB) GetListingAmenities(ctx context.Context, listingID int64) ([]*models.Amenity, error) {
	query := `SELECT a.id, a.name, a.description FROM amenities a
              JOIN listing_amenities la ON la.amenity_id = a.id
              WHERE la.listing_id = ? ORDER BY a.name`
	rows, err := db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query listing amenities: %w", err)
	}
	defer rows.Close()

	var amenities []*models.Amenity
	for rows.Next() {
		var a models.Amenity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description); err != nil {
			return nil, fmt.Errorf("failed to scan amenity: %w", err)
		}
		amenities = append(amenities, &a)
	}
	return amenities, rows.Err()
}

// GetListingAverageRating returns the rounded mean rating, or false when the
// listing has no reviews yet.
func (db *DB) GetListingAverageRating(ctx context.Context, listingID int64) (float64, bool, error) {
	var avg sql.NullFloat64
	err := db.QueryRowContext(ctx,
		`SELECT AVG(rating) FROM reviews WHERE listing_id = ?`, listingID).Scan(&avg)
	if err != nil {
		return 0, false, fmt.Errorf("failed to get average rating: %w", err)
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}
