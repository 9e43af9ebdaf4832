package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"scholarship-matcher/internal/catalog"
	"scholarship-matcher/internal/common/camunda"
	"scholarship-matcher/internal/common/config"
	"scholarship-matcher/internal/common/database"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/common/observability"
	"scholarship-matcher/internal/common/validation"
	"scholarship-matcher/internal/server"

	qc "scholarship-matcher/internal/workers/data-access/query-catalog"
	cms "scholarship-matcher/internal/workers/scholarship/calculate-match-score"
	fs "scholarship-matcher/internal/workers/scholarship/filter-scholarships"
	ms "scholarship-matcher/internal/workers/scholarship/match-scholarships"
)

const serviceName = "scholarship-matcher"

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting scholarship matcher...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("catalogSource", cfg.Catalog.Source),
	)

	obs, err := observability.New(serviceName)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	shutdownTracing, err := observability.InitTracing(cfg.Tracing, serviceName, cfg.App.Version)
	if err != nil {
		zapLog.Warn("tracing disabled", zap.Error(err))
	}

	ctx := context.Background()
	deps := catalog.Deps{}

	// --- PostgreSQL ---
	if cfg.Catalog.Source == config.SourcePostgres {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		if err := pg.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("postgres schema setup failed", zap.Error(err))
		}
		deps.DB = pg.DB
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Elasticsearch ---
	if cfg.Catalog.Source == config.SourceElasticsearch {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		if err := esClient.EnsureIndex(ctx, cfg.Catalog.Index); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
		}
		deps.ES = esClient.Client
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Redis snapshot cache ---
	if cfg.Catalog.CacheTTL > 0 {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			deps.Redis = rdb.Client
			zapLog.Info("Redis connected successfully")
		}
	}

	source, err := catalog.New(cfg.Catalog, deps, log)
	if err != nil {
		zapLog.Fatal("catalog source setup failed", zap.Error(err))
	}
	validator := validation.MustNewValidator()

	// --- Zeebe workers ---
	var (
		zeebe    *camunda.Client
		registry *camunda.Registry
	)
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda))
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		registry = camunda.NewRegistry(zeebe.GetClient(), log)
		registerWorkers(registry, cfg, source, validator, obs, log)
		zapLog.Info("workers registered", zap.Strings("taskTypes", registry.TaskTypes()))
	}

	// --- HTTP API ---
	srv := server.New(cfg.Server, cfg.Matching, server.Deps{
		Source:    source,
		Validator: validator,
		Obs:       obs,
		Logger:    log,
	})
	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down http server", zap.Error(err))
	}
	if registry != nil {
		registry.Close()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			zapLog.Error("Error flushing traces", zap.Error(err))
		}
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping metrics provider", zap.Error(err))
	}

	zapLog.Info("Scholarship matcher stopped gracefully")
}

func registerWorkers(registry *camunda.Registry, cfg *config.Config, source catalog.Source, validator *validation.Validator, obs *observability.Observability, log logger.Logger) {
	if wcfg := config.GetWorkerConfig(cfg, cms.TaskType); wcfg.Enabled {
		handler := cms.NewHandler(&cms.Config{
			Timeout: config.GetDuration(wcfg.Timeout),
		}, validator, obs, log)
		registry.Start(cms.TaskType, wcfg, handler.Handle)
	}

	if wcfg := config.GetWorkerConfig(cfg, ms.TaskType); wcfg.Enabled {
		handler := ms.NewHandler(&ms.Config{
			Timeout:   config.GetDuration(wcfg.Timeout),
			Threshold: cfg.Matching.Threshold,
			PageSize:  cfg.Matching.PageSize,
		}, source, validator, obs, log)
		registry.Start(ms.TaskType, wcfg, handler.Handle)
	}

	if wcfg := config.GetWorkerConfig(cfg, fs.TaskType); wcfg.Enabled {
		fcfg := fs.LoadConfig()
		fcfg.Timeout = config.GetDuration(wcfg.Timeout)
		handler := fs.NewHandler(fcfg, obs, log)
		registry.Start(fs.TaskType, wcfg, handler.Handle)
	}

	if wcfg := config.GetWorkerConfig(cfg, qc.TaskType); wcfg.Enabled {
		handler := qc.NewHandler(&qc.Config{
			Timeout: config.GetDuration(wcfg.Timeout),
		}, source, obs, log)
		registry.Start(qc.TaskType, wcfg, handler.Handle)
	}
}
