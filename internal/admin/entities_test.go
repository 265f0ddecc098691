package admin

import (
	"context"
	"testing"
	"time"

	"tenanthub/internal/database"
	"tenanthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRegistry(t *testing.T) (*Registry, *database.DB) {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDefaultRegistry(db), db
}

func TestDefaultRegistry_Entities(t *testing.T) {
	r, _ := setupRegistry(t)
	assert.Equal(t,
		[]string{"bookings", "export_tasks", "invoices", "listings", "services", "users"},
		r.Names())
}

func TestUsersEntity_HidesPasswordHash(t *testing.T) {
	r, db := setupRegistry(t)
	ctx := context.Background()

	user := &models.User{
		Username: "alice", Email: "alice@example.com",
		PasswordHash: "super-secret-hash", FirstName: "Alice", IsActive: true,
	}
	require.NoError(t, db.CreateUser(ctx, user))

	entity, ok := r.Lookup("users")
	require.True(t, ok)

	rows, err := entity.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "alice", row["username"])
	for key, value := range row {
		assert.NotEqual(t, "super-secret-hash", value, "hash leaked via %s", key)
	}
	_, hasHash := row["password_hash"]
	assert.False(t, hasHash)

	got, err := entity.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got["id"])
}

func TestBookingsEntity(t *testing.T) {
	r, db := setupRegistry(t)
	ctx := context.Background()

	owner := &models.User{Username: "owner", Email: "o@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.CreateUser(ctx, owner))
	listing := &models.Listing{Title: "Flat", PriceCents: 100000, PropertyType: "AP", OwnerID: owner.ID, IsActive: true}
	require.NoError(t, db.CreateListing(ctx, listing))

	booking := &models.Booking{
		ListingID: listing.ID, UserID: owner.ID,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Guests:    2, Status: models.StatusPending,
	}
	require.NoError(t, db.CreateBookingWithGuard(ctx, booking))

	entity, ok := r.Lookup("bookings")
	require.True(t, ok)

	rows, err := entity.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-09-01", rows[0]["start_date"])
	assert.Equal(t, "2026-09-05", rows[0]["end_date"])
	assert.Equal(t, models.StatusPending, rows[0]["status"])

	got, err := entity.Get(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got["id"])
}

func TestEntities_GetNotFound(t *testing.T) {
	r, _ := setupRegistry(t)
	ctx := context.Background()

	for _, name := range []string{"users", "listings", "bookings", "invoices", "services"} {
		entity, ok := r.Lookup(name)
		require.True(t, ok, name)
		require.NotNil(t, entity.Get, name)

		_, err := entity.Get(ctx, 9999)
		assert.ErrorIs(t, err, database.ErrNotFound, name)
	}
}

func TestExportTasksEntity(t *testing.T) {
	r, db := setupRegistry(t)
	ctx := context.Background()

	task := models.ExportTask{TaskType: models.ExportTypePayments, Payload: "{}", Status: models.TaskStatusPending}
	require.NoError(t, db.CreateExportTask(ctx, &task))
	require.NoError(t, db.UpdateExportTaskStatus(ctx, task.ID, models.TaskStatusFailed, "exporter exploded", nil))

	entity, ok := r.Lookup("export_tasks")
	require.True(t, ok)
	// Одиночная запись смысла не имеет, поэтому Get не объявлен
	assert.Nil(t, entity.Get)

	rows, err := entity.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.TaskStatusFailed, rows[0]["status"])
	assert.Equal(t, "exporter exploded", rows[0]["last_error"])
}

func TestServicesEntity_IncludesDeleted(t *testing.T) {
	r, db := setupRegistry(t)
	ctx := context.Background()

	kept := &models.Service{Name: "Cleaning", IsActive: true}
	require.NoError(t, db.CreateService(ctx, kept))
	gone := &models.Service{Name: "Valet", IsActive: true}
	require.NoError(t, db.CreateService(ctx, gone))
	require.NoError(t, db.SoftDeleteService(ctx, gone.ID))

	entity, ok := r.Lookup("services")
	require.True(t, ok)

	rows, err := entity.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	deleted := map[string]bool{}
	for _, row := range rows {
		deleted[row["name"].(string)] = row["deleted"].(bool)
	}
	assert.False(t, deleted["Cleaning"])
	assert.True(t, deleted["Valet"])
}
