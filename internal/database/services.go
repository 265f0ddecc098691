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

const serviceColumns = `id, name, description, is_active, deleted, created_at, updated_at`

func scanService(row interface{ Scan(dest ...any) error }) (*models.Service, error) {
	var s models.Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.IsActive, &s.Deleted, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *DB) CreateService(ctx context.Context, service *models.Service) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO services (name, description, is_active, deleted, created_at, updated_at)
         VALUES (?, ?, ?, 0, ?, ?)`,
		service.Name, service.Description, service.IsActive, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create service: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	service.ID = id
	service.Deleted = false
	service.CreatedAt = now
	service.UpdatedAt = now
	return nil
}

func (db *DB) GetService(ctx context.Context, id int64) (*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = ?`
	service, err := scanService(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return service, nil
}

// ActiveServices is the default accessor: deleted and deactivated rows are
// filtered out.
func (db *DB) ActiveServices(ctx context.Context) ([]*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE deleted = 0 AND is_active = 1 ORDER BY name`
	return db.queryServices(ctx, query)
}

// ServicesIncludingDeleted returns the full history, soft-deleted rows
// included.
func (db *DB) ServicesIncludingDeleted(ctx context.Context) ([]*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY name`
	return db.queryServices(ctx, query)
}

func (db *DB) DeletedServices(ctx context.Context) ([]*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE deleted = 1 ORDER BY name`
	return db.queryServices(ctx, query)
}

func (db *DB) queryServices(ctx context.Context, query string, args ...any) ([]*models.Service, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (db *DB) setServiceFlag(ctx context.Context, id int64, column string, value bool) error {
	// column comes from a fixed internal call set, never user input
	query := fmt.Sprintf(`UPDATE services SET %s = ?, updated_at = ? WHERE id = ?`, column)
	result, err := db.ExecContext(ctx, query, value, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update service %s: %w", column, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) SoftDeleteService(ctx context.Context, id int64) error {
	return db.setServiceFlag(ctx, id, "deleted", true)
}

func (db *DB) RestoreService(ctx context.Context, id int64) error {
	return db.setServiceFlag(ctx, id, "deleted", false)
}

func (db *DB) ActivateService(ctx context.Context, id int64) error {
	return db.setServiceFlag(ctx, id, "is_active", true)
}

func (db *DB) DeactivateService(ctx context.Context, id int64) error {
	return db.setServiceFlag(ctx, id, "is_active", false)
}

// Categories

func (db *DB) CreateServiceCategory(ctx context.Context, category *models.ServiceCategory) error {
	result, err := db.ExecContext(ctx,
		`INSERT INTO service_categories (name, description) VALUES (?, ?)`,
		category.Name, category.Description)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create service category: %w", err)
	}
	category.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (db *DB) GetServiceCategories(ctx context.Context) ([]*models.ServiceCategory, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description FROM service_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query service categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.ServiceCategory
	for rows.Next() {
		var c models.ServiceCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan service category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}
