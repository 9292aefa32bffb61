package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/studcheck/plagiarism-checker/internal/analysis/config"
	"github.com/studcheck/plagiarism-checker/internal/analysis/delivery/httpd"
	"github.com/studcheck/plagiarism-checker/internal/analysis/events"
	"github.com/studcheck/plagiarism-checker/internal/analysis/repository"
	"github.com/studcheck/plagiarism-checker/internal/analysis/service"
	"github.com/studcheck/plagiarism-checker/internal/analysis/service/integration"
	"github.com/studcheck/plagiarism-checker/pkg/hash"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher events.Publisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	reportRepo := repository.NewReportRepository(db, log)

	storageClient := integration.NewStorageClient(
		cfg.Services.Storage.URL,
		cfg.Services.Storage.Timeout,
		cfg.Services.Storage.RetryCount,
		cfg.Services.Storage.RetryDelay,
		log,
	)

	renderer := integration.NewQuickChartRenderer(cfg.WordCloud.URL, cfg.WordCloud.Timeout, log)

	fingerprinter := hash.NewFingerprinter(hash.Algorithm(cfg.Analysis.HashAlgorithm))

	publisher := newPublisher(cfg, log)

	analysisService := service.NewAnalysisService(
		reportRepo,
		storageClient,
		fingerprinter,
		renderer,
		publisher,
		log,
	)

	handler := httpd.NewHandler(analysisService, log)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

// newPublisher подключается к RabbitMQ best-effort: если брокер недоступен
// на старте, анализ продолжает работать без событий.
func newPublisher(cfg *config.Config, log zerolog.Logger) events.Publisher {
	if !cfg.RabbitMQ.Enabled {
		return events.NewNopPublisher()
	}

	publisher, err := events.NewRabbitMQPublisher(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.RoutingKey,
		log,
	)
	if err != nil {
		log.Error().Err(err).Msg("RabbitMQ not available; analysis events disabled")
		return events.NewNopPublisher()
	}

	return publisher
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting analysis service on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down analysis service...")

	if err := a.publisher.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close event publisher")
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		return err
	}

	a.logger.Info().Msg("Analysis service stopped")
	return nil
}
