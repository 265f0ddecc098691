package service

import (
	"context"
	"fmt"
	"time"

	"tenanthub/internal/database"
	"tenanthub/internal/domain"
	"tenanthub/internal/events"
	"tenanthub/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var validPaymentStatuses = map[string]struct{}{
	models.PaymentPending:   {},
	models.PaymentCompleted: {},
	models.PaymentFailed:    {},
	models.PaymentRefunded:  {},
}

// PaymentService is the manual payment ledger: invoices are issued, payments
// are recorded against them, and the repository settles the is_paid flag.
// Actual money movement happens outside the system.
type PaymentService struct {
	repo     domain.PaymentRepository
	users    domain.UserDirectory
	eventBus domain.EventPublisher
	exports  domain.ExportEnqueuer
	logger   *zerolog.Logger
}

func NewPaymentService(repo domain.PaymentRepository, users domain.UserDirectory, eventBus domain.EventPublisher, exports domain.ExportEnqueuer, logger *zerolog.Logger) *PaymentService {
	return &PaymentService{repo: repo, users: users, eventBus: eventBus, exports: exports, logger: logger}
}

func (s *PaymentService) CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	if method.Name == "" {
		return validation("payment method name is required")
	}
	return s.repo.CreatePaymentMethod(ctx, method)
}

func (s *PaymentService) GetActivePaymentMethods(ctx context.Context) ([]*models.PaymentMethod, error) {
	return s.repo.GetActivePaymentMethods(ctx)
}

// IssueInvoice creates an unpaid invoice for a tenant. Amounts are integer
// cents and must be positive; the due date may not precede the issue date.
func (s *PaymentService) IssueInvoice(ctx context.Context, invoice *models.Invoice) error {
	if invoice.AmountCents <= 0 {
		return validation("invoice amount must be positive")
	}
	exists, err := s.users.UserExists(ctx, invoice.TenantID)
	if err != nil {
		return err
	}
	if !exists {
		return database.ErrNotFound
	}
	if invoice.IssuedDate.IsZero() {
		invoice.IssuedDate = time.Now()
	}
	if invoice.DueDate.Before(invoice.IssuedDate) {
		return validation("due date precedes issue date")
	}
	invoice.IsPaid = false
	if err := s.repo.CreateInvoice(ctx, invoice); err != nil {
		return err
	}
	s.logger.Info().
		Int64("invoice_id", invoice.ID).
		Int64("tenant_id", invoice.TenantID).
		Int64("amount_cents", invoice.AmountCents).
		Msg("invoice issued")
	return nil
}

func (s *PaymentService) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *PaymentService) GetInvoicesForTenant(ctx context.Context, tenantID int64) ([]*models.Invoice, error) {
	return s.repo.GetInvoicesForTenant(ctx, tenantID)
}

func (s *PaymentService) GetUnpaidInvoices(ctx context.Context) ([]*models.Invoice, error) {
	return s.repo.GetUnpaidInvoices(ctx)
}

// RecordPayment attaches a payment to an invoice. A generated reference is
// assigned when the caller did not supply one (например, при ручном вводе).
func (s *PaymentService) RecordPayment(ctx context.Context, payment *models.Payment) error {
	if payment.AmountCents <= 0 {
		return validation("payment amount must be positive")
	}
	if payment.Status == "" {
		payment.Status = models.PaymentPending
	}
	if _, ok := validPaymentStatuses[payment.Status]; !ok {
		return validation(fmt.Sprintf("unknown payment status %q", payment.Status))
	}
	if payment.Reference == "" {
		payment.Reference = uuid.NewString()
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}

	if err := s.repo.RecordPayment(ctx, payment); err != nil {
		return err
	}

	if s.eventBus != nil {
		payload := events.PaymentEventPayload{
			PaymentID:   payment.ID,
			InvoiceID:   payment.InvoiceID,
			AmountCents: payment.AmountCents,
			Status:      payment.Status,
		}
		if err := s.eventBus.PublishJSON(events.EventPaymentRecorded, payload); err != nil {
			s.logger.Error().Err(err).Int64("payment_id", payment.ID).Msg("publish payment event")
		}
	}

	if s.exports != nil {
		if err := s.exports.EnqueueExport(ctx, models.ExportTypePayments); err != nil {
			s.logger.Error().Err(err).Msg("enqueue payments export")
		}
	}

	s.logger.Info().
		Int64("payment_id", payment.ID).
		Int64("invoice_id", payment.InvoiceID).
		Str("status", payment.Status).
		Str("reference", payment.Reference).
		Msg("payment recorded")
	return nil
}

func (s *PaymentService) GetPaymentsForInvoice(ctx context.Context, invoiceID int64) ([]*models.Payment, error) {
	return s.repo.GetPaymentsForInvoice(ctx, invoiceID)
}

func (s *PaymentService) PaymentTotalsByStatus(ctx context.Context) ([]*models.PaymentStatusTotal, error) {
	return s.repo.GetPaymentTotalsByStatus(ctx)
}

func (s *PaymentService) TenantBalances(ctx context.Context) ([]*models.TenantBalance, error) {
	return s.repo.GetTenantBalances(ctx)
}
