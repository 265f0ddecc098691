package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tenanthub/internal/database"
	"tenanthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupExporter(t *testing.T) (*Exporter, *database.DB, string) {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	return NewExporter(db, db, dir, &logger), db, dir
}

func seedBookingData(t *testing.T, db *database.DB) *models.Booking {
	t.Helper()
	ctx := context.Background()

	owner := &models.User{Username: "owner", Email: "owner@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.CreateUser(ctx, owner))
	tenant := &models.User{Username: "tenant", Email: "tenant@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.CreateUser(ctx, tenant))

	listing := &models.Listing{
		Title: "Canal View Flat", Address: "Herengracht 1", City: "Amsterdam",
		PriceCents: 175000, PropertyType: "AP", OwnerID: owner.ID, IsActive: true,
	}
	require.NoError(t, db.CreateListing(ctx, listing))

	booking := &models.Booking{
		ListingID: listing.ID,
		UserID:    tenant.ID,
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
		Guests:    2,
		Status:    models.StatusPending,
	}
	require.NoError(t, db.CreateBookingWithGuard(ctx, booking))
	return booking
}

func TestExportBookings(t *testing.T) {
	exporter, db, dir := setupExporter(t)
	ctx := context.Background()
	booking := seedBookingData(t, db)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	path, err := exporter.ExportBookings(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Bookings")

	// Строка объявления и занятая ночь в сетке
	title, err := f.GetCellValue("Bookings", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Canal View Flat, Amsterdam", title)

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	want := fmt.Sprintf("#%d user %d (%d guests)", booking.ID, booking.UserID, booking.Guests)
	var found bool
	for _, row := range rows {
		for _, cell := range row {
			if cell == want {
				found = true
			}
		}
	}
	assert.True(t, found, "booking cell missing from grid")
}

func TestExportBookings_EmptyWindow(t *testing.T) {
	exporter, _, _ := setupExporter(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	path, err := exporter.ExportBookings(ctx, start, start.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestExportPayments(t *testing.T) {
	exporter, db, _ := setupExporter(t)
	ctx := context.Background()

	tenant := &models.User{Username: "payer", Email: "payer@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.CreateUser(ctx, tenant))

	method := &models.PaymentMethod{Name: "Bank transfer", IsActive: true}
	require.NoError(t, db.CreatePaymentMethod(ctx, method))

	invoice := &models.Invoice{
		TenantID:    tenant.ID,
		AmountCents: 80000,
		IssuedDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Description: "August rent",
	}
	require.NoError(t, db.CreateInvoice(ctx, invoice))

	payment := &models.Payment{
		InvoiceID:   invoice.ID,
		MethodID:    method.ID,
		AmountCents: 30000,
		PaidAt:      time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Reference:   "PAY-1",
		Status:      models.PaymentCompleted,
	}
	require.NoError(t, db.RecordPayment(ctx, payment))

	path, err := exporter.ExportPayments(ctx)
	require.NoError(t, err)
	assert.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Totals")
	assert.Contains(t, sheets, "Balances")

	status, err := f.GetCellValue("Totals", "A2")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, status)
	amount, err := f.GetCellValue("Totals", "C2")
	require.NoError(t, err)
	assert.Equal(t, "300", amount)

	outstanding, err := f.GetCellValue("Balances", "D2")
	require.NoError(t, err)
	assert.Equal(t, "500", outstanding)
}

func TestExportBookings_BadDirectory(t *testing.T) {
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Путь занят обычным файлом
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))
	exporter := NewExporter(db, db, filepath.Join(blocked, "exports"), &logger)

	_, err = exporter.ExportBookings(context.Background(), time.Now(), time.Now().AddDate(0, 0, 7))
	assert.Error(t, err)
}
