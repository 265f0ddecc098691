package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tenanthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// BookingSource supplies the data behind the bookings report.
type BookingSource interface {
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	GetActiveListings(ctx context.Context) ([]*models.Listing, error)
}

// PaymentSource supplies the data behind the payments report.
type PaymentSource interface {
	GetPaymentTotalsByStatus(ctx context.Context) ([]*models.PaymentStatusTotal, error)
	GetTenantBalances(ctx context.Context) ([]*models.TenantBalance, error)
}

// Exporter writes XLSX reports into a configured directory.
type Exporter struct {
	bookings BookingSource
	payments PaymentSource
	path     string
	logger   *zerolog.Logger
}

func NewExporter(bookings BookingSource, payments PaymentSource, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{bookings: bookings, payments: payments, path: path, logger: logger}
}

// ExportBookings builds an occupancy grid: listings down the rows, one column
// per day of the reporting window.
func (e *Exporter) ExportBookings(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	bookings, err := e.bookings.GetBookingsByDateRange(ctx, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}
	listings, err := e.bookings.GetActiveListings(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting listings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		startDate.Format("02.01.2006"), endDate.Format("02.01.2006")))

	dateCols := e.writeDateHeaders(f, sheetName, startDate, endDate)
	e.writeListingHeaders(f, sheetName, listings)
	e.writeBookingCells(f, sheetName, bookings, listings, dateCols)

	_ = f.SetColWidth(sheetName, "A", "A", 30)
	for i := 'B'; i <= 'Z'; i++ {
		_ = f.SetColWidth(sheetName, string(i), string(i), 18)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(dateCols) + 1)
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("bookings report created")
	return filePath, nil
}

func (e *Exporter) writeDateHeaders(f *excelize.File, sheetName string, startDate, endDate time.Time) map[string]int {
	col := 2
	current := startDate
	dateCols := make(map[string]int)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for !current.After(endDate) {
		cell, _ := excelize.CoordinatesToCellName(col, 2)
		_ = f.SetCellValue(sheetName, cell, current.Format("02.01"))
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
		dateCols[current.Format("2006-01-02")] = col

		col++
		current = current.AddDate(0, 0, 1)
	}
	return dateCols
}

func (e *Exporter) writeListingHeaders(f *excelize.File, sheetName string, listings []*models.Listing) {
	rowStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	row := 3
	for _, listing := range listings {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		label := fmt.Sprintf("%s, %s", listing.Title, listing.City)
		_ = f.SetCellValue(sheetName, cell, label)
		_ = f.SetCellStyle(sheetName, cell, cell, rowStyle)
		row++
	}
}

func (e *Exporter) writeBookingCells(
	f *excelize.File, sheetName string,
	bookings []*models.Booking,
	listings []*models.Listing,
	dateCols map[string]int,
) {
	listingRow := make(map[int64]int, len(listings))
	for i, listing := range listings {
		listingRow[listing.ID] = 3 + i
	}

	bookedStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#C6EFCE"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
	})
	pendingStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFEB9C"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
	})

	for _, booking := range bookings {
		row, ok := listingRow[booking.ListingID]
		if !ok {
			continue
		}
		if !booking.IsActive() {
			continue
		}

		// Конечная дата не входит в занятые ночи
		for d := booking.StartDate; d.Before(booking.EndDate); d = d.AddDate(0, 0, 1) {
			col, ok := dateCols[d.Format("2006-01-02")]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetName, cell,
				fmt.Sprintf("#%d user %d (%d guests)", booking.ID, booking.UserID, booking.Guests))
			if booking.Status == models.StatusConfirmed {
				_ = f.SetCellStyle(sheetName, cell, cell, bookedStyle)
			} else {
				_ = f.SetCellStyle(sheetName, cell, cell, pendingStyle)
			}
		}
	}
}

// ExportPayments writes the by-status totals and per-tenant outstanding
// balances as two sheets.
func (e *Exporter) ExportPayments(ctx context.Context) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	totals, err := e.payments.GetPaymentTotalsByStatus(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting payment totals: %v", err)
	}
	balances, err := e.payments.GetTenantBalances(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting tenant balances: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	index, err := f.NewSheet("Totals")
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	for i, header := range []string{"Status", "Count", "Amount"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue("Totals", cell, header)
		_ = f.SetCellStyle("Totals", cell, cell, headerStyle)
	}
	for i, t := range totals {
		row := i + 2
		_ = f.SetCellValue("Totals", fmt.Sprintf("A%d", row), t.Status)
		_ = f.SetCellValue("Totals", fmt.Sprintf("B%d", row), t.Count)
		_ = f.SetCellValue("Totals", fmt.Sprintf("C%d", row), centsToDecimal(t.AmountCents))
	}

	if _, err := f.NewSheet("Balances"); err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	for i, header := range []string{"Tenant ID", "Invoiced", "Paid", "Outstanding"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue("Balances", cell, header)
		_ = f.SetCellStyle("Balances", cell, cell, headerStyle)
	}
	for i, b := range balances {
		row := i + 2
		_ = f.SetCellValue("Balances", fmt.Sprintf("A%d", row), b.TenantID)
		_ = f.SetCellValue("Balances", fmt.Sprintf("B%d", row), centsToDecimal(b.InvoicedCents))
		_ = f.SetCellValue("Balances", fmt.Sprintf("C%d", row), centsToDecimal(b.PaidCents))
		_ = f.SetCellValue("Balances", fmt.Sprintf("D%d", row), centsToDecimal(b.OutstandingCents))
	}

	_ = f.SetColWidth("Totals", "A", "C", 15)
	_ = f.SetColWidth("Balances", "A", "D", 15)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("payments report created")
	return filePath, nil
}

// centsToDecimal renders integer cents as a display amount. All arithmetic
// stays in cents; this is formatting only.
func centsToDecimal(cents int64) float64 {
	return float64(cents) / 100
}
