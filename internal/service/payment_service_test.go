package service

import (
	"context"
	"testing"
	"time"

	"tenanthub/internal/database"
	"tenanthub/internal/events"
	"tenanthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentService_IssueInvoice(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewPaymentService(db, db, nil, nil, testLogger())
	ctx := context.Background()

	tenant := seedUser(t, db, "tenant")

	t.Run("amount must be positive", func(t *testing.T) {
		var verr *ValidationError
		err := svc.IssueInvoice(ctx, &models.Invoice{TenantID: tenant.ID, AmountCents: 0})
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		err := svc.IssueInvoice(ctx, &models.Invoice{TenantID: 9999, AmountCents: 1000, DueDate: time.Now().AddDate(0, 1, 0)})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("due date precedes issue date", func(t *testing.T) {
		var verr *ValidationError
		err := svc.IssueInvoice(ctx, &models.Invoice{
			TenantID:    tenant.ID,
			AmountCents: 1000,
			IssuedDate:  time.Now(),
			DueDate:     time.Now().AddDate(0, 0, -1),
		})
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("defaults issue date and stays unpaid", func(t *testing.T) {
		invoice := &models.Invoice{
			TenantID:    tenant.ID,
			AmountCents: 100000,
			DueDate:     time.Now().AddDate(0, 1, 0),
			IsPaid:      true, // игнорируется
		}
		require.NoError(t, svc.IssueInvoice(ctx, invoice))
		assert.NotZero(t, invoice.ID)
		assert.False(t, invoice.IsPaid)
		assert.False(t, invoice.IssuedDate.IsZero())
	})
}

func TestPaymentService_RecordPayment(t *testing.T) {
	db := setupServiceDB(t)
	bus := &recordingBus{}
	exports := &recordingEnqueuer{}
	svc := NewPaymentService(db, db, bus, exports, testLogger())
	ctx := context.Background()

	tenant := seedUser(t, db, "tenant")
	invoice := &models.Invoice{TenantID: tenant.ID, AmountCents: 50000, DueDate: time.Now().AddDate(0, 1, 0)}
	require.NoError(t, svc.IssueInvoice(ctx, invoice))

	t.Run("validations", func(t *testing.T) {
		var verr *ValidationError
		err := svc.RecordPayment(ctx, &models.Payment{InvoiceID: invoice.ID, AmountCents: 0})
		assert.ErrorAs(t, err, &verr)

		err = svc.RecordPayment(ctx, &models.Payment{InvoiceID: invoice.ID, AmountCents: 100, Status: "bartered"})
		assert.ErrorAs(t, err, &verr)

		err = svc.RecordPayment(ctx, &models.Payment{InvoiceID: 9999, AmountCents: 100})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("defaults and side effects", func(t *testing.T) {
		payment := &models.Payment{InvoiceID: invoice.ID, AmountCents: 50000, Status: models.PaymentCompleted}
		require.NoError(t, svc.RecordPayment(ctx, payment))
		assert.NotEmpty(t, payment.Reference, "reference generated when absent")
		assert.False(t, payment.PaidAt.IsZero())

		assert.Contains(t, bus.published(), events.EventPaymentRecorded)
		assert.Contains(t, exports.enqueued(), models.ExportTypePayments)

		// Полная оплата закрывает инвойс
		stored, err := svc.GetInvoice(ctx, invoice.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsPaid)
	})

	t.Run("empty status becomes pending", func(t *testing.T) {
		second := &models.Invoice{TenantID: tenant.ID, AmountCents: 10000, DueDate: time.Now().AddDate(0, 1, 0)}
		require.NoError(t, svc.IssueInvoice(ctx, second))

		payment := &models.Payment{InvoiceID: second.ID, AmountCents: 10000}
		require.NoError(t, svc.RecordPayment(ctx, payment))
		assert.Equal(t, models.PaymentPending, payment.Status)
	})
}

func TestPaymentService_Reports(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewPaymentService(db, db, nil, nil, testLogger())
	ctx := context.Background()

	tenant := seedUser(t, db, "tenant")
	invoice := &models.Invoice{TenantID: tenant.ID, AmountCents: 80000, DueDate: time.Now().AddDate(0, 1, 0)}
	require.NoError(t, svc.IssueInvoice(ctx, invoice))
	require.NoError(t, svc.RecordPayment(ctx, &models.Payment{
		InvoiceID: invoice.ID, AmountCents: 30000, Status: models.PaymentCompleted,
	}))

	totals, err := svc.PaymentTotalsByStatus(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, models.PaymentCompleted, totals[0].Status)
	assert.Equal(t, int64(30000), totals[0].AmountCents)

	balances, err := svc.TenantBalances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, int64(50000), balances[0].OutstandingCents)

	unpaid, err := svc.GetUnpaidInvoices(ctx)
	require.NoError(t, err)
	assert.Len(t, unpaid, 1)
}

func TestPaymentService_PaymentMethods(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewPaymentService(db, db, nil, nil, testLogger())
	ctx := context.Background()

	var verr *ValidationError
	assert.ErrorAs(t, svc.CreatePaymentMethod(ctx, &models.PaymentMethod{}), &verr)

	require.NoError(t, svc.CreatePaymentMethod(ctx, &models.PaymentMethod{Name: "Bank Transfer", IsActive: true}))
	methods, err := svc.GetActivePaymentMethods(ctx)
	require.NoError(t, err)
	assert.Len(t, methods, 1)
}
