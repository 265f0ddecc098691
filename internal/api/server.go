package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tenanthub/internal/admin"
	"tenanthub/internal/config"
	"tenanthub/internal/metrics"
	"tenanthub/internal/service"

	"github.com/rs/zerolog"
)

// Server exposes the HTTP API over a plain net/http mux.
type Server struct {
	cfg       config.APIConfig
	bookings  *service.BookingService
	listings  *service.ListingService
	users     *service.UserService
	reviews   *service.ReviewService
	messaging *service.MessagingService
	payments  *service.PaymentService
	catalog   *service.CatalogService
	registry  *admin.Registry
	auth      *HTTPAuth
	server    *http.Server
	logger    *zerolog.Logger
}

type Services struct {
	Bookings  *service.BookingService
	Listings  *service.ListingService
	Users     *service.UserService
	Reviews   *service.ReviewService
	Messaging *service.MessagingService
	Payments  *service.PaymentService
	Catalog   *service.CatalogService
}

func NewServer(cfg config.APIConfig, svcs Services, registry *admin.Registry, logger *zerolog.Logger) *Server {
	srv := &Server{
		cfg:       cfg,
		bookings:  svcs.Bookings,
		listings:  svcs.Listings,
		users:     svcs.Users,
		reviews:   svcs.Reviews,
		messaging: svcs.Messaging,
		payments:  svcs.Payments,
		catalog:   svcs.Catalog,
		registry:  registry,
		logger:    logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/availability/", srv.handleAvailability)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/api/v1/listings", srv.handleListings)
	mux.HandleFunc("/api/v1/listings/", srv.handleListingByID)
	mux.HandleFunc("/api/v1/amenities", srv.handleAmenities)
	mux.HandleFunc("/api/v1/reviews", srv.handleReviews)
	mux.HandleFunc("/api/v1/favorites", srv.handleFavorites)
	mux.HandleFunc("/api/v1/inquiries", srv.handleInquiries)
	mux.HandleFunc("/api/v1/inquiries/", srv.handleInquiryByID)
	mux.HandleFunc("/api/v1/users/register", srv.handleRegister)
	mux.HandleFunc("/api/v1/users/login", srv.handleLogin)
	mux.HandleFunc("/api/v1/users/", srv.handleUserByID)
	mux.HandleFunc("/api/v1/threads", srv.handleThreads)
	mux.HandleFunc("/api/v1/threads/", srv.handleThreadByID)
	mux.HandleFunc("/api/v1/messages/", srv.handleMessageByID)
	mux.HandleFunc("/api/v1/invoices", srv.handleInvoices)
	mux.HandleFunc("/api/v1/invoices/", srv.handleInvoiceByID)
	mux.HandleFunc("/api/v1/payments", srv.handlePayments)
	mux.HandleFunc("/api/v1/payments/summary", srv.handlePaymentSummary)
	mux.HandleFunc("/api/v1/payment-methods", srv.handlePaymentMethods)
	mux.HandleFunc("/api/v1/services", srv.handleServices)
	mux.HandleFunc("/api/v1/services/", srv.handleServiceByID)
	mux.HandleFunc("/admin/v1/entities", srv.handleAdminEntities)
	mux.HandleFunc("/admin/v1/", srv.handleAdminEntity)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
