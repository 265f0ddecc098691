package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tenanthub/internal/admin"
	"tenanthub/internal/api"
	"tenanthub/internal/config"
	"tenanthub/internal/database"
	"tenanthub/internal/events"
	"tenanthub/internal/export"
	"tenanthub/internal/logging"
	"tenanthub/internal/metrics"
	"tenanthub/internal/models"
	"tenanthub/internal/repository"
	"tenanthub/internal/service"
	"tenanthub/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	sessions := initSessions(redisClient, &logger)

	exporter := export.NewExporter(db, db, cfg.Exports.Path, &logger)
	exportWorker := worker.NewExportWorker(db, exporter, redisClient, worker.DefaultRetryPolicy(), &logger)
	go exportWorker.Start(ctx)

	eventBus := events.NewEventBus()
	subscribeEvents(eventBus, &logger)

	svcs := api.Services{
		Bookings:  service.NewBookingService(db, db, db, eventBus, exportWorker, &logger),
		Listings:  service.NewListingService(db, &logger),
		Users:     service.NewUserService(db, sessions, &logger),
		Reviews:   service.NewReviewService(db, db, db, eventBus, &logger),
		Messaging: service.NewMessagingService(db, db, eventBus, &logger),
		Payments:  service.NewPaymentService(db, db, eventBus, exportWorker, &logger),
		Catalog:   service.NewCatalogService(db, &logger),
	}

	if err := seedCatalog(ctx, svcs, &logger); err != nil {
		return err
	}

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	startMetrics(ctx, cfg, &logger)

	registry := admin.NewDefaultRegistry(db)
	httpServer := api.NewServer(cfg.API, svcs, registry, &logger)
	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("create database directory")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("create exports directory")
		return err
	}
	return nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}
	return db, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return client
}

func initSessions(redisClient *redis.Client, logger *zerolog.Logger) *repository.FailoverSessionRepository {
	ttl := time.Duration(models.DefaultRedisTTL) * time.Second
	primary := repository.NewRedisSessionRepository(redisClient, ttl)
	fallback := repository.NewMemorySessionRepository(ttl)
	return repository.NewFailoverSessionRepository(primary, fallback, logger)
}

// seedData mirrors configs/seed.yaml.
type seedData struct {
	Amenities      []models.Amenity       `yaml:"amenities"`
	Services       []models.Service       `yaml:"services"`
	PaymentMethods []models.PaymentMethod `yaml:"payment_methods"`
}

// seedCatalog loads reference data on startup; rows that already exist are
// skipped via the unique-name constraint.
func seedCatalog(ctx context.Context, svcs api.Services, logger *zerolog.Logger) error {
	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		seedPath = "configs/seed.yaml"
	}

	data, err := os.ReadFile(seedPath)
	if os.IsNotExist(err) {
		logger.Info().Str("seed_path", seedPath).Msg("no seed file, skipping")
		return nil
	}
	if err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("read seed file")
		return err
	}

	var seed seedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("parse seed file")
		return err
	}

	for i := range seed.Amenities {
		if err := svcs.Listings.CreateAmenity(ctx, &seed.Amenities[i]); err != nil && err != database.ErrDuplicate {
			return fmt.Errorf("seed amenity %q: %w", seed.Amenities[i].Name, err)
		}
	}
	for i := range seed.Services {
		if err := svcs.Catalog.CreateService(ctx, &seed.Services[i]); err != nil && err != database.ErrDuplicate {
			return fmt.Errorf("seed service %q: %w", seed.Services[i].Name, err)
		}
	}
	for i := range seed.PaymentMethods {
		if err := svcs.Payments.CreatePaymentMethod(ctx, &seed.PaymentMethods[i]); err != nil && err != database.ErrDuplicate {
			return fmt.Errorf("seed payment method %q: %w", seed.PaymentMethods[i].Name, err)
		}
	}

	logger.Info().
		Int("amenities", len(seed.Amenities)).
		Int("services", len(seed.Services)).
		Int("payment_methods", len(seed.PaymentMethods)).
		Msg("catalog seeded")
	return nil
}

// subscribeEvents wires log-only subscribers. Notification delivery is out of
// scope here: the handlers record that the hook fired and nothing more.
func subscribeEvents(bus *events.EventBus, logger *zerolog.Logger) {
	logHandler := func(ev *events.Event) error {
		metrics.IncEventPublished(ev.Type)
		logger.Info().Str("event", ev.Type).RawJSON("payload", ev.Payload).Msg("event published")
		return nil
	}

	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingConfirmed,
		events.EventBookingCancelled,
		events.EventBookingCompleted,
		events.EventInquiryCreated,
		events.EventPaymentRecorded,
	} {
		bus.Subscribe(eventType, logHandler)
	}

	// Placeholder for a real notification channel.
	bus.Subscribe(events.EventMessageSent, func(ev *events.Event) error {
		metrics.IncEventPublished(ev.Type)
		var payload events.MessageEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Msg("decode message event")
			return nil
		}
		logger.Info().
			Int64("message_id", payload.MessageID).
			Int64("thread_id", payload.ThreadID).
			Msg("message notification suppressed (no delivery channel configured)")
		return nil
	})
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

func startServer(ctx context.Context, httpServer *api.Server, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}
