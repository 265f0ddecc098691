package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tenanthub/internal/models"
)

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("unpaid") == "true" {
			invoices, err := s.payments.GetUnpaidInvoices(r.Context())
			if err != nil {
				respondError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"invoices": invoices})
			return
		}
		writeError(w, http.StatusBadRequest, "unpaid=true or /users/{id}/invoices is required")

	case http.MethodPost:
		var body struct {
			TenantID    int64  `json:"tenant_id"`
			AmountCents int64  `json:"amount_cents"`
			DueDate     string `json:"due_date"`
			Description string `json:"description"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		dueDate, err := time.Parse(dateLayout, body.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid due_date; expected YYYY-MM-DD")
			return
		}

		invoice := &models.Invoice{
			TenantID:    body.TenantID,
			AmountCents: body.AmountCents,
			DueDate:     dueDate,
			Description: body.Description,
		}
		if err := s.payments.IssueInvoice(r.Context(), invoice); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, invoice)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleInvoiceByID serves GET /api/v1/invoices/{id} and
// GET /api/v1/invoices/{id}/payments.
func (s *Server) handleInvoiceByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/invoices/")

	if idStr, found := strings.CutSuffix(rest, "/payments"); found {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid invoice id")
			return
		}
		payments, err := s.payments.GetPaymentsForInvoice(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"payments": payments})
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	invoice, err := s.payments.GetInvoice(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var payment models.Payment
	if err := decodeJSON(r, &payment); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.payments.RecordPayment(r.Context(), &payment); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

// handlePaymentSummary returns the by-status totals and per-tenant balances
// in one response.
func (s *Server) handlePaymentSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	totals, err := s.payments.PaymentTotalsByStatus(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	balances, err := s.payments.TenantBalances(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totals_by_status": totals,
		"tenant_balances":  balances,
	})
}

func (s *Server) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		methods, err := s.payments.GetActivePaymentMethods(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"payment_methods": methods})
	case http.MethodPost:
		var method models.PaymentMethod
		if err := decodeJSON(r, &method); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.payments.CreatePaymentMethod(r.Context(), &method); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, method)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
