package admin

import (
	"context"

	"tenanthub/internal/database"
	"tenanthub/internal/models"
)

const dateLayout = "2006-01-02"

// NewDefaultRegistry declares the entities browsable through the console.
// Each entity maps its model to rows by hand, so sensitive fields (password
// hashes) simply never appear here.
func NewDefaultRegistry(db *database.DB) *Registry {
	r := NewRegistry()

	r.MustRegister(Entity{
		Name: "users",
		Fields: []Field{
			{Name: "id", Type: "int"}, {Name: "username", Type: "string"},
			{Name: "email", Type: "string"}, {Name: "first_name", Type: "string"},
			{Name: "last_name", Type: "string"}, {Name: "is_staff", Type: "bool"},
			{Name: "is_active", Type: "bool"}, {Name: "created_at", Type: "time"},
		},
		List: func(ctx context.Context) ([]Row, error) {
			users, err := db.GetAllUsers(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, 0, len(users))
			for _, u := range users {
				rows = append(rows, userRow(u))
			}
			return rows, nil
		},
		Get: func(ctx context.Context, id int64) (Row, error) {
			u, err := db.GetUserByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return userRow(u), nil
		},
	})

	r.MustRegister(Entity{
		Name: "listings",
		Fields: []Field{
			{Name: "id", Type: "int"}, {Name: "title", Type: "string"},
			{Name: "city", Type: "string"}, {Name: "property_type", Type: "string"},
			{Name: "price_cents", Type: "money"}, {Name: "owner_id", Type: "int"},
			{Name: "is_active", Type: "bool"},
		},
		List: func(ctx context.Context) ([]Row, error) {
			listings, err := db.GetAllListings(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, 0, len(listings))
			for _, l := range listings {
				rows = append(rows, listingRow(l))
			}
			return rows, nil
		},
		Get: func(ctx context.Context, id int64) (Row, error) {
			l, err := db.GetListing(ctx, id)
			if err != nil {
				return nil, err
			}
			return listingRow(l), nil
		},
	})

	r.MustRegister(Entity{
		Name: "bookings",
		Fields: []Field{
			{Name: "id", Type: "int"}, {Name: "listing_id", Type: "int"},
			{Name: "user_id", Type: "int"}, {Name: "start_date", Type: "time"},
			{Name: "end_date", Type: "time"}, {Name: "guests", Type: "int"},
			{Name: "status", Type: "string"}, {Name: "version", Type: "int"},
		},
		List: func(ctx context.Context) ([]Row, error) {
			bookings, err := db.GetAllBookings(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, 0, len(bookings))
			for _, b := range bookings {
				rows = append(rows, bookingRow(b))
			}
			return rows, nil
		},
		Get: func(ctx context.Context, id int64) (Row, error) {
			b, err := db.GetBooking(ctx, id)
			if err != nil {
				return nil, err
			}
			return bookingRow(b), nil
		},
	})

	r.MustRegister(Entity{
		Name: "invoices",
		Fields: []Field{
			{Name: "id", Type: "int"}, {Name: "tenant_id", Type: "int"},
			{Name: "amount_cents", Type: "money"}, {Name: "due_date", Type: "time"},
			{Name: "issued_date", Type: "time"}, {Name: "is_paid", Type: "bool"},
		},
		List: func(ctx context.Context) ([]Row, error) {
			invoices, err := db.GetAllInvoices(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, 0, len(invoices))
			for _, inv := range invoices {
				rows = append(rows, invoiceRow(inv))
			}
			return rows, nil
		},
		Get: func(ctx context.Context, id int64) (Row, error) {
			inv, err := db.GetInvoice(ctx, id)
			if err != nil {
				return nil, err
			}
			return invoiceRow(inv), nil
		},
	})

	r.MustRegister(Entity{
		Name: "services",
		Fields: []Field{
			{Name: "id", Type: "int"}, {Name: "name", Type: "string"},
			{Name: "is_active", Type: "bool"}, {Name: "deleted", Type: "bool"},
		},
		List: func(ctx context.Context) ([]Row, error) {
			services, err := db.ServicesIncludingDeleted(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, 0, len(services))
			for _, s := range services {
				rows = append(rows, Row{
					"id": s.ID, "name": s.Name,
					"is_active": s.IsActive, "deleted": s.Deleted,
				})
			}
			return rows, nil
		},
		Get: func(ctx context.Context, id int64) (Row, error) {
			s, err := db.GetService(ctx, id)
			if err != nil {
				return nil, err
			}
			return Row{
				"id": s.ID, "name": s.Name,
				"is_active": s.IsActive, "deleted": s.Deleted,
			}, nil
		},
	})

	r.MustRegister(Entity{
		Name: "export_tasks",
		Fields: []Field{
			{Name: "id", Type: "int"}, {Name: "task_type", Type: "string"},
			{Name: "status", Type: "string"}, {Name: "retry_count", Type: "int"},
			{Name: "created_at", Type: "time"},
		},
		List: func(ctx context.Context) ([]Row, error) {
			tasks, err := db.GetFailedExportTasks(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, 0, len(tasks))
			for _, t := range tasks {
				row := Row{
					"id": t.ID, "task_type": t.TaskType,
					"status": t.Status, "retry_count": t.RetryCount,
					"created_at": t.CreatedAt,
				}
				if t.LastError != nil {
					row["last_error"] = *t.LastError
				}
				rows = append(rows, row)
			}
			return rows, nil
		},
	})

	return r
}

func userRow(u *models.User) Row {
	return Row{
		"id": u.ID, "username": u.Username, "email": u.Email,
		"first_name": u.FirstName, "last_name": u.LastName,
		"is_staff": u.IsStaff, "is_active": u.IsActive,
		"created_at": u.CreatedAt,
	}
}

func listingRow(l *models.Listing) Row {
	return Row{
		"id": l.ID, "title": l.Title, "city": l.City,
		"property_type": l.PropertyType, "price_cents": l.PriceCents,
		"owner_id": l.OwnerID, "is_active": l.IsActive,
	}
}

func bookingRow(b *models.Booking) Row {
	return Row{
		"id": b.ID, "listing_id": b.ListingID, "user_id": b.UserID,
		"start_date": b.StartDate.Format(dateLayout),
		"end_date":   b.EndDate.Format(dateLayout),
		"guests":     b.Guests, "status": b.Status, "version": b.Version,
	}
}

func invoiceRow(inv *models.Invoice) Row {
	return Row{
		"id": inv.ID, "tenant_id": inv.TenantID,
		"amount_cents": inv.AmountCents,
		"due_date":     inv.DueDate.Format(dateLayout),
		"issued_date":  inv.IssuedDate.Format(dateLayout),
		"is_paid":      inv.IsPaid,
	}
}
