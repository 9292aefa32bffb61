package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/studcheck/plagiarism-checker/internal/storage/config"
	"github.com/studcheck/plagiarism-checker/internal/storage/delivery/httpd"
	"github.com/studcheck/plagiarism-checker/internal/storage/repository"
	"github.com/studcheck/plagiarism-checker/internal/storage/service"
)

type App struct {
	server *http.Server
	logger zerolog.Logger
	config *config.Config
	db     *sql.DB
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	workRepo := repository.NewWorkRepository(db, log)

	blobs, err := newBlobStorage(cfg, log)
	if err != nil {
		return nil, err
	}

	storageService := service.NewStorageService(workRepo, blobs, log)

	handler := httpd.NewHandler(storageService, cfg.Upload.MaxUploadSize, log)

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
		server: server,
		logger: log,
		config: cfg,
		db:     db,
	}, nil
}

func newBlobStorage(cfg *config.Config, log zerolog.Logger) (repository.BlobStorage, error) {
	switch cfg.Storage.Provider {
	case "minio":
		return repository.NewMinIOBlobStorage(
			cfg.Storage.MinIO.Endpoint,
			cfg.Storage.MinIO.AccessKey,
			cfg.Storage.MinIO.SecretKey,
			cfg.Storage.MinIO.Bucket,
			cfg.Storage.MinIO.Region,
			cfg.Storage.MinIO.UseSSL,
			cfg.Storage.MinIO.ConnectTimeout,
			log,
		)
	case "local":
		return repository.NewLocalBlobStorage(cfg.Storage.LocalRoot, log)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting storage service on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down storage service...")

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		return err
	}

	a.logger.Info().Msg("Storage service stopped")
	return nil
}
