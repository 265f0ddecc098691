package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tenanthub/internal/models"
)

func (db *DB) CreateReview(ctx context.Context, review *models.Review) error {
	query := `INSERT INTO reviews (listing_id, user_id, rating, comment, created_at)
              VALUES (?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		review.ListingID, review.UserID, review.Rating, review.Comment, now)
	if err != nil {
		// One review per (listing, user).
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	review.ID = id
	review.CreatedAt = now
	return nil
}

func (db *DB) GetReviewsForListing(ctx context.Context, listingID int64) ([]*models.Review, error) {
	query := `SELECT id, listing_id, user_id, rating, comment, created_at
              FROM reviews WHERE listing_id = ? ORDER BY created_at DESC`
	return db.queryReviews(ctx, query, listingID)
}

func (db *DB) GetReviewsByUser(ctx context.Context, userID int64) ([]*models.Review, error) {
	query := `SELECT id, listing_id, user_id, rating, comment, created_at
              FROM reviews WHERE user_id = ? ORDER BY created_at DESC`
	return db.queryReviews(ctx, query, userID)
}

func (db *DB) queryReviews(ctx context.Context, query string, args ...any) ([]*models.Review, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ListingID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &r)
	}
	return reviews, rows.Err()
}

// Favorites

func (db *DB) AddFavorite(ctx context.Context, fav *models.Favorite) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, listing_id, created_at) VALUES (?, ?, ?)`,
		fav.UserID, fav.ListingID, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	fav.ID = id
	fav.CreatedAt = now
	return nil
}

func (db *DB) RemoveFavorite(ctx context.Context, userID, listingID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND listing_id = ?`, userID, listingID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetFavoritesForUser(ctx context.Context, userID int64) ([]*models.Favorite, error) {
	query := `SELECT id, user_id, listing_id, created_at
              FROM favorites WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*models.Favorite
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.ListingID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, &f)
	}
	return favorites, rows.Err()
}

func (db *DB) IsFavorited(ctx context.Context, userID, listingID int64) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND listing_id = ?`,
		userID, listingID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return n > 0, nil
}

// Inquiries

func (db *DB) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO inquiries (listing_id, user_id, message, responded, created_at) VALUES (?, ?, ?, 0, ?)`,
		inquiry.ListingID, inquiry.UserID, inquiry.Message, now)
	if err != nil {
		return fmt.Errorf("failed to create inquiry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	inquiry.ID = id
	inquiry.Responded = false
	inquiry.CreatedAt = now
	return nil
}

func (db *DB) MarkInquiryResponded(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE inquiries SET responded = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark inquiry responded: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetInquiriesForListing(ctx context.Context, listingID int64) ([]*models.Inquiry, error) {
	query := `SELECT id, listing_id, user_id, message, responded, created_at
              FROM inquiries WHERE listing_id = ? ORDER BY created_at DESC`
	return db.queryInquiries(ctx, query, listingID)
}

func (db *DB) GetInquiriesByUser(ctx context.Context, userID int64) ([]*models.Inquiry, error) {
	query := `SELECT id, listing_id, user_id, message, responded, created_at
              FROM inquiries WHERE user_id = ? ORDER BY created_at DESC`
	return db.queryInquiries(ctx, query, userID)
}

func (db *DB) queryInquiries(ctx context.Context, query string, args ...any) ([]*models.Inquiry, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []*models.Inquiry
	for rows.Next() {
		var q models.Inquiry
		if err := rows.Scan(&q.ID, &q.ListingID, &q.UserID, &q.Message, &q.Responded, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		inquiries = append(inquiries, &q)
	}
	return inquiries, rows.Err()
}
