package service

import (
	"context"
	"testing"

	"tenanthub/internal/database"
	"tenanthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// setupServiceDB backs the service under test with a real sqlite store.
func setupServiceDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *database.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func seedListing(t *testing.T, db *database.DB, ownerID int64) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		Title:        "Seeded Flat",
		Address:      "1 Seed St",
		PriceCents:   120000,
		PropertyType: "AP",
		OwnerID:      ownerID,
		IsActive:     true,
	}
	require.NoError(t, db.CreateListing(context.Background(), listing))
	return listing
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
