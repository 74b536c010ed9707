package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lidarhub/potree-api/internal/config"
	"github.com/lidarhub/potree-api/internal/domain/job"
	"github.com/lidarhub/potree-api/internal/domain/pipeline"
	"github.com/lidarhub/potree-api/internal/domain/project"
	"github.com/lidarhub/potree-api/internal/infrastructure/auth"
	"github.com/lidarhub/potree-api/internal/infrastructure/converter"
	"github.com/lidarhub/potree-api/internal/infrastructure/database"
	"github.com/lidarhub/potree-api/internal/infrastructure/logger"
	"github.com/lidarhub/potree-api/internal/infrastructure/observability"
	"github.com/lidarhub/potree-api/internal/infrastructure/queue"
	jobrepo "github.com/lidarhub/potree-api/internal/infrastructure/repository/job"
	projectrepo "github.com/lidarhub/potree-api/internal/infrastructure/repository/project"
	"github.com/lidarhub/potree-api/internal/infrastructure/storage"
	"github.com/lidarhub/potree-api/internal/interfaces/httpserver"
	"github.com/lidarhub/potree-api/internal/worker"
)

// @title Potree API
// @version 1.0
// @description Point cloud conversion and project service
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	workerPool *worker.Pool
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, workerPool *worker.Pool, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		workerPool: workerPool,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	if err := a.workerPool.Start(ctx); err != nil {
		return err
	}
	defer a.workerPool.Stop()

	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	potree, err := converter.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PotreePath).Msg("validate PotreeConverter binary")
	}

	storageClient, err := provideStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	projectRepository := projectrepo.NewRepository(db)
	jobRepository := jobrepo.NewRepository(db)

	projectService := project.NewService(projectRepository, storageClient, log)
	jobService := job.NewService(jobRepository, log)
	pipelineService := pipeline.NewService(cfg, jobService, projectService, potree, storageClient, log)

	taskQueue := queue.NewPostgresQueue(db, log)
	workerPool := worker.NewPool(taskQueue, pipelineService, jobService, worker.Config{
		WorkerCount:     cfg.WorkerCount,
		PollInterval:    cfg.PollInterval,
		TaskTimeout:     cfg.ConverterTimeout,
		JobRetention:    cfg.JobRetention,
		CleanupInterval: cfg.CleanupInterval,
	}, log)

	httpServer := httpserver.New(cfg, log, projectService, jobService, pipelineService, authValidator)
	app := NewApplication(httpServer, workerPool, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

type appStorage interface {
	pipeline.Storage
	project.Storage
}

// provideStorage creates the appropriate storage backend based on configuration.
func provideStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (appStorage, error) {
	if cfg.IsLocalStorage() {
		return storage.NewLocalStorage(cfg, log)
	}
	return storage.NewS3Storage(ctx, cfg, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
