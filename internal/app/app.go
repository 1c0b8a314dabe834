package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/config"
	"github.com/andinetd/assignment-helper/internal/delivery/httpd"
	"github.com/andinetd/assignment-helper/internal/repository"
	"github.com/andinetd/assignment-helper/internal/service"
	"github.com/andinetd/assignment-helper/internal/service/integration"
	"github.com/andinetd/assignment-helper/internal/service/rag"
	"github.com/andinetd/assignment-helper/internal/worker"
	"github.com/andinetd/assignment-helper/internal/worker/queue"
)

type App struct {
	server       *http.Server
	logger       zerolog.Logger
	config       *config.Config
	db           *sql.DB
	resultWorker worker.ResultWorker
	rabbitMQRepo repository.RabbitMQRepository
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	studentRepo := repository.NewStudentRepository(db, log)
	assignmentRepo := repository.NewAssignmentRepository(db, log)
	resultRepo := repository.NewAnalysisResultRepository(db, log)
	sourceRepo := repository.NewSourceRepository(db, log)

	// Cache unavailability degrades to misses; it never blocks uploads.
	cache, err := repository.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis not reachable, running without dedup/stats cache")
		cache = repository.NewNoopCache()
	}

	var storage repository.StorageRepository
	storage, err = repository.NewMinIORepository(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.UseSSL,
		log,
	)
	if err != nil {
		log.Warn().Err(err).Msg("MinIO not reachable, raw documents will not be archived")
		storage = nil
	}

	embedder := rag.NewHTTPEmbedder(rag.EmbedderConfig{
		URL:           cfg.Embedding.URL,
		Model:         cfg.Embedding.Model,
		Dimension:     cfg.Embedding.Dimension,
		MaxInputChars: cfg.Embedding.MaxInputChars,
		Timeout:       cfg.Embedding.Timeout,
	}, log)

	contextBuilder := rag.NewContextBuilder(embedder, sourceRepo, rag.ContextBuilderConfig{
		TopK:             cfg.RAG.TopK,
		QueryPrefixChars: cfg.RAG.QueryPrefixChars,
		ExcerptChars:     cfg.RAG.ExcerptChars,
	}, log)

	workflowClient := integration.NewWorkflowClient(cfg.Workflow.WebhookURL, cfg.Workflow.Timeout, log)

	authService := service.NewAuthService(studentRepo, service.AuthConfig{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
	}, log)

	uploadService := service.NewUploadService(
		studentRepo,
		assignmentRepo,
		cache,
		storage,
		contextBuilder,
		workflowClient,
		service.UploadConfig{
			PreviewChars:  cfg.Upload.PreviewChars,
			HashAlgorithm: cfg.Upload.HashAlgorithm,
			ResultTTL:     cfg.Cache.ResultTTL,
		},
		log,
	)

	analysisService := service.NewAnalysisService(resultRepo, assignmentRepo, cache, service.AnalysisConfig{
		ResultTTL: cfg.Cache.ResultTTL,
	}, log)

	sourceService := service.NewSourceService(sourceRepo, embedder, log)

	statsService := service.NewStatsService(assignmentRepo, resultRepo, sourceRepo, cache, service.StatsConfig{
		CacheTTL: cfg.Cache.StatsTTL,
	}, log)

	// The results queue is the delivery channel for the workflow's
	// out-of-band writes. If the broker is down the HTTP service still runs;
	// the workflow can also write results directly.
	var resultWorker worker.ResultWorker
	var rabbitMQRepo repository.RabbitMQRepository

	rabbitMQRepo, err = repository.NewRabbitMQRepository(cfg.RabbitMQ.URL, log)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ not reachable, result worker disabled")
		rabbitMQRepo = nil
	} else {
		if err := rabbitMQRepo.SetupQueue(
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.QueueName,
			cfg.RabbitMQ.RoutingKey,
		); err != nil {
			return nil, err
		}

		consumer := queue.NewRabbitMQConsumer(
			rabbitMQRepo.Channel(),
			cfg.RabbitMQ.QueueName,
			cfg.RabbitMQ.ConsumerTag,
			cfg.RabbitMQ.PrefetchCount,
			log,
		)

		pool := worker.NewWorkerPool(cfg.RabbitMQ.MaxWorkers, log)
		resultWorker = worker.NewResultWorker(pool, consumer, analysisService, log)
	}

	handler := httpd.NewHandler(
		authService,
		uploadService,
		analysisService,
		sourceService,
		statsService,
		cfg.Upload.MaxUploadSize,
		log,
	)

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
		server:       server,
		logger:       log,
		config:       cfg,
		db:           db,
		resultWorker: resultWorker,
		rabbitMQRepo: rabbitMQRepo,
	}, nil
}

func (a *App) Run() error {
	if a.resultWorker != nil {
		if err := a.resultWorker.Start(context.Background()); err != nil {
			a.logger.Error().Err(err).Msg("Failed to start result worker")
			return err
		}
	}

	a.logger.Info().Msgf("Starting intake service on %s", a.config.Server.Address)

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down intake service...")

	if a.resultWorker != nil {
		if err := a.resultWorker.Stop(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop result worker")
		}
	}

	if a.rabbitMQRepo != nil {
		if err := a.rabbitMQRepo.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
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

	a.logger.Info().Msg("Intake service stopped")
	return nil
}
