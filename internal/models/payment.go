package models

import "time"

type PaymentMethod struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	IsActive    bool   `json:"is_active" yaml:"is_active"`
}

type Invoice struct {
	ID          int64     `json:"id"`
	TenantID    int64     `json:"tenant_id"`
	AmountCents int64     `json:"amount_cents"`
	DueDate     time.Time `json:"due_date"`
	IssuedDate  time.Time `json:"issued_date"`
	Description string    `json:"description"`
	IsPaid      bool      `json:"is_paid"`
}

type Payment struct {
	ID          int64     `json:"id"`
	InvoiceID   int64     `json:"invoice_id"`
	MethodID    int64     `json:"method_id"`
	AmountCents int64     `json:"amount_cents"`
	PaidAt      time.Time `json:"paid_at"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"` // pending, completed, failed, refunded
	Notes       string    `json:"notes"`
}

// PaymentStatusTotal is one row of the by-status aggregate report.
type PaymentStatusTotal struct {
	Status      string `json:"status"`
	Count       int64  `json:"count"`
	AmountCents int64  `json:"amount_cents"`
}

// TenantBalance is the outstanding amount owed by one tenant.
type TenantBalance struct {
	TenantID         int64 `json:"tenant_id"`
	InvoicedCents    int64 `json:"invoiced_cents"`
	PaidCents        int64 `json:"paid_cents"`
	OutstandingCents int64 `json:"outstanding_cents"`
}
