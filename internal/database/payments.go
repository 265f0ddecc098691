package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tenanthub/internal/models"
)

func (db *DB) CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	result, err := db.ExecContext(ctx,
		`INSERT INTO payment_methods (name, description, is_active) VALUES (?, ?, ?)`,
		method.Name, method.Description, method.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	method.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (db *DB) GetActivePaymentMethods(ctx context.Context) ([]*models.PaymentMethod, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, is_active FROM payment_methods WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment methods: %w", err)
	}
	defer rows.Close()

	var methods []*models.PaymentMethod
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		methods = append(methods, &m)
	}
	return methods, rows.Err()
}

func (db *DB) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	now := time.Now()
	if invoice.IssuedDate.IsZero() {
		invoice.IssuedDate = now
	}
	result, err := db.ExecContext(ctx,
		`INSERT INTO invoices (tenant_id, amount_cents, due_date, issued_date, description, is_paid)
         VALUES (?, ?, ?, ?, ?, 0)`,
		invoice.TenantID, invoice.AmountCents,
		invoice.DueDate.Format(dateLayout), invoice.IssuedDate.Format(dateLayout),
		invoice.Description)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	invoice.ID = id
	invoice.IsPaid = false
	return nil
}

func scanInvoice(row interface{ Scan(dest ...any) error }) (*models.Invoice, error) {
	var inv models.Invoice
	var dueStr, issuedStr string
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.AmountCents, &dueStr, &issuedStr,
		&inv.Description, &inv.IsPaid)
	if err != nil {
		return nil, err
	}
	if inv.DueDate, err = time.Parse(dateLayout, dueStr); err != nil {
		return nil, fmt.Errorf("failed to parse due date %s: %w", dueStr, err)
	}
	if inv.IssuedDate, err = time.Parse(dateLayout, issuedStr); err != nil {
		return nil, fmt.Errorf("failed to parse issued date %s: %w", issuedStr, err)
	}
	return &inv, nil
}

const invoiceColumns = `id, tenant_id, amount_cents, date(due_date), date(issued_date), description, is_paid`

func (db *DB) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
	invoice, err := scanInvoice(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

func (db *DB) GetInvoicesForTenant(ctx context.Context, tenantID int64) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = ? ORDER BY issued_date DESC, id DESC`
	return db.queryInvoices(ctx, query, tenantID)
}

func (db *DB) GetAllInvoices(ctx context.Context) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY issued_date DESC, id DESC`
	return db.queryInvoices(ctx, query)
}

func (db *DB) GetUnpaidInvoices(ctx context.Context) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE is_paid = 0 ORDER BY due_date ASC`
	return db.queryInvoices(ctx, query)
}

func (db *DB) queryInvoices(ctx context.Context, query string, args ...any) ([]*models.Invoice, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// RecordPayment inserts the payment and, when its status is completed and the
// cumulative completed amount covers the invoice, flips is_paid — all in one
// transaction.
func (db *DB) RecordPayment(ctx context.Context, payment *models.Payment) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var amountDue int64
	err = tx.QueryRowContext(ctx,
		`SELECT amount_cents FROM invoices WHERE id = ?`, payment.InvoiceID).Scan(&amountDue)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load invoice in tx: %w", err)
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO payments (invoice_id, method_id, amount_cents, paid_at, reference, status, notes)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		payment.InvoiceID, payment.MethodID, payment.AmountCents, now,
		payment.Reference, payment.Status, payment.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert payment in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}

	if payment.Status == models.PaymentCompleted {
		var paid int64
		err = tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE invoice_id = ? AND status = ?`,
			payment.InvoiceID, models.PaymentCompleted).Scan(&paid)
		if err != nil {
			return fmt.Errorf("failed to sum payments in tx: %w", err)
		}
		if paid >= amountDue {
			if _, err := tx.ExecContext(ctx,
				`UPDATE invoices SET is_paid = 1 WHERE id = ?`, payment.InvoiceID); err != nil {
				return fmt.Errorf("failed to mark invoice paid in tx: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}

	payment.ID = id
	payment.PaidAt = now
	return nil
}

func (db *DB) GetPaymentsForInvoice(ctx context.Context, invoiceID int64) ([]*models.Payment, error) {
	query := `SELECT id, invoice_id, COALESCE(method_id, 0), amount_cents, paid_at, reference, status, notes
              FROM payments WHERE invoice_id = ? ORDER BY paid_at DESC, id DESC`
	rows, err := db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.MethodID, &p.AmountCents, &p.PaidAt, &p.Reference, &p.Status, &p.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// GetPaymentTotalsByStatus is the by-status aggregate report.
func (db *DB) GetPaymentTotalsByStatus(ctx context.Context) ([]*models.PaymentStatusTotal, error) {
	query := `SELECT status, COUNT(*), COALESCE(SUM(amount_cents), 0)
              FROM payments GROUP BY status ORDER BY status`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment totals: %w", err)
	}
	defer rows.Close()

	var totals []*models.PaymentStatusTotal
	for rows.Next() {
		var t models.PaymentStatusTotal
		if err := rows.Scan(&t.Status, &t.Count, &t.AmountCents); err != nil {
			return nil, fmt.Errorf("failed to scan payment total: %w", err)
		}
		totals = append(totals, &t)
	}
	return totals, rows.Err()
}

// GetTenantBalances sums invoiced versus completed payments per tenant.
func (db *DB) GetTenantBalances(ctx context.Context) ([]*models.TenantBalance, error) {
	query := `SELECT i.tenant_id,
                     COALESCE(SUM(i.amount_cents), 0) AS invoiced,
                     COALESCE((SELECT SUM(p.amount_cents) FROM payments p
                               JOIN invoices i2 ON i2.id = p.invoice_id
                               WHERE i2.tenant_id = i.tenant_id AND p.status = ?), 0) AS paid
              FROM invoices i
              GROUP BY i.tenant_id ORDER BY i.tenant_id`
	rows, err := db.QueryContext(ctx, query, models.PaymentCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant balances: %w", err)
	}
	defer rows.Close()

	var balances []*models.TenantBalance
	for rows.Next() {
		var b models.TenantBalance
		if err := rows.Scan(&b.TenantID, &b.InvoicedCents, &b.PaidCents); err != nil {
			return nil, fmt.Errorf("failed to scan tenant balance: %w", err)
		}
		b.OutstandingCents = b.InvoicedCents - b.PaidCents
		if b.OutstandingCents < 0 {
			b.OutstandingCents = 0
		}
		balances = append(balances, &b)
	}
	return balances, rows.Err()
}
