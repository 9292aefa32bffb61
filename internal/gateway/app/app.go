package app

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/studcheck/plagiarism-checker/internal/gateway/config"
	"github.com/studcheck/plagiarism-checker/internal/gateway/handler"
	"github.com/studcheck/plagiarism-checker/internal/gateway/integration"
	"github.com/studcheck/plagiarism-checker/internal/gateway/middleware"
	"github.com/studcheck/plagiarism-checker/internal/gateway/proxy"
	"github.com/studcheck/plagiarism-checker/internal/gateway/server"
	"github.com/studcheck/plagiarism-checker/internal/gateway/worker"
)

type App struct {
	server     *server.Server
	dispatcher *worker.Dispatcher
	logger     zerolog.Logger
	config     *config.Config
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	proxyOpts := proxy.Options{
		Timeout:         cfg.Proxy.Timeout,
		MaxIdleConns:    cfg.Proxy.MaxIdleConns,
		IdleConnTimeout: cfg.Proxy.IdleConnTimeout,
	}

	fileProxy, err := proxy.NewForwarder(cfg.Services.Storage.URL, "/api", proxyOpts, log)
	if err != nil {
		return nil, err
	}

	analysisProxy, err := proxy.NewForwarder(cfg.Services.Analysis.URL, "/api", proxyOpts, log)
	if err != nil {
		return nil, err
	}

	storageClient := integration.NewStorageClient(cfg.Services.Storage.URL, cfg.Services.Storage.Timeout, log)
	analysisClient := integration.NewAnalysisClient(cfg.Services.Analysis.URL, cfg.Services.Analysis.Timeout, log)

	dispatcher := worker.NewDispatcher(cfg.Dispatch.Workers, cfg.Dispatch.QueueSize, cfg.Dispatch.TaskTimeout, log)

	h := handler.NewHandler(storageClient, analysisClient, dispatcher, fileProxy, analysisProxy, log)

	router := chi.NewRouter()
	h.RegisterRoutes(router)

	srv := server.NewServer(server.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, router, log)

	srv.SetupMiddleware(
		middleware.NewCORS(
			cfg.CORS.AllowedOrigins,
			cfg.CORS.AllowedMethods,
			cfg.CORS.AllowedHeaders,
			cfg.CORS.ExposedHeaders,
			cfg.CORS.AllowCredentials,
			cfg.CORS.MaxAge,
		),
		middleware.Timeout(cfg.Proxy.Timeout),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
	)

	return &App{
		server:     srv,
		dispatcher: dispatcher,
		logger:     log,
		config:     cfg,
	}, nil
}

func (a *App) Run() error {
	a.dispatcher.Start()
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.dispatcher.Stop()
	return err
}
