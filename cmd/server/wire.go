//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lidarhub/potree-api/internal/config"
	"github.com/lidarhub/potree-api/internal/domain/job"
	"github.com/lidarhub/potree-api/internal/domain/pipeline"
	"github.com/lidarhub/potree-api/internal/domain/project"
	"github.com/lidarhub/potree-api/internal/infrastructure/auth"
	"github.com/lidarhub/potree-api/internal/infrastructure/converter"
	"github.com/lidarhub/potree-api/internal/infrastructure/database"
	"github.com/lidarhub/potree-api/internal/infrastructure/logger"
	"github.com/lidarhub/potree-api/internal/infrastructure/queue"
	jobrepo "github.com/lidarhub/potree-api/internal/infrastructure/repository/job"
	projectrepo "github.com/lidarhub/potree-api/internal/infrastructure/repository/project"
	"github.com/lidarhub/potree-api/internal/interfaces/httpserver"
	"github.com/lidarhub/potree-api/internal/worker"
)

var domainSet = wire.NewSet(
	projectrepo.NewRepository,
	wire.Bind(new(project.Repository), new(*projectrepo.Repository)),
	jobrepo.NewRepository,
	wire.Bind(new(job.Repository), new(*jobrepo.Repository)),
	provideStorage,
	wire.Bind(new(project.Storage), new(appStorage)),
	wire.Bind(new(pipeline.Storage), new(appStorage)),
	converter.New,
	wire.Bind(new(pipeline.Converter), new(*converter.PotreeConverter)),
	project.NewService,
	job.NewService,
	pipeline.NewService,
)

var workerSet = wire.NewSet(
	queue.NewPostgresQueue,
	wire.Bind(new(queue.TaskQueue), new(*queue.PostgresQueue)),
	wire.Bind(new(worker.Executor), new(*pipeline.Service)),
	newWorkerConfig,
	worker.NewPool,
)

// BuildApplication assembles the potree API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		newDatabaseConfig,
		newGormDB,
		domainSet,
		workerSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newWorkerConfig(cfg *config.Config) worker.Config {
	return worker.Config{
		WorkerCount:     cfg.WorkerCount,
		PollInterval:    cfg.PollInterval,
		TaskTimeout:     cfg.ConverterTimeout,
		JobRetention:    cfg.JobRetention,
		CleanupInterval: cfg.CleanupInterval,
	}
}
