// cmd/story-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"renaissance-story/internal/api"
	commonaws "renaissance-story/internal/common/aws"
	"renaissance-story/internal/common/camunda"
	"renaissance-story/internal/common/config"
	"renaissance-story/internal/common/database"
	"renaissance-story/internal/common/logger"
	"renaissance-story/internal/common/observability"
	"renaissance-story/internal/common/ratelimit"
	"renaissance-story/internal/followup"
	"renaissance-story/internal/models"
	"renaissance-story/internal/store"
	"renaissance-story/internal/web"

	is "renaissance-story/internal/workers/application/index-submission"
	nr "renaissance-story/internal/workers/application/notify-recruiters"
	so "renaissance-story/internal/workers/application/start-onboarding"
	sa "renaissance-story/internal/workers/application/submit-application"
)

// retryWithBackoff attempts to execute a function with exponential backoff
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

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"env":     cfg.App.Environment,
	})

	zapLog.Info("Starting story server...", zap.String("version", cfg.App.Version))

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	if cfg.Tracing.Enabled {
		if err := obs.EnableTracing(cfg.App.Name, cfg.App.Version, cfg.Tracing.JaegerEndpoint); err != nil {
			zapLog.Warn("tracing disabled", zap.Error(err))
		}
	}

	ctx := context.Background()
	checks := map[string]api.Check{}

	// --- PostgreSQL (postgres storage driver only) ---
	var pg *database.PostgresClient
	if cfg.Storage.Driver == config.StorageDriverPostgres {
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
		checks["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Redis (rate limit backend) ---
	var redis *database.RedisClient
	if cfg.RateLimit.Enabled && cfg.RateLimit.Backend == config.RateLimitBackendRedis {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		checks["redis"] = redis.Ping
		zapLog.Info("Redis connected successfully")
	}

	// --- Storage ---
	var submitter api.Submitter
	st, err := store.New(cfg.Storage, pg)
	switch {
	case errors.Is(err, store.ErrNotConfigured):
		zapLog.Warn("submission storage not configured, /api/apply will answer 500", zap.Error(err))
	case err != nil:
		zapLog.Fatal("storage init failed", zap.Error(err))
	default:
		submitter = sa.NewHandler(&sa.Config{Timeout: config.GetDuration(cfg.Storage.Timeout)}, st, log)
	}

	// --- Rate limiting ---
	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter, err = ratelimit.New(cfg.RateLimit, redis)
		if err != nil {
			zapLog.Fatal("rate limiter init failed", zap.Error(err))
		}
		zapLog.Info("Rate limiting enabled",
			zap.String("backend", cfg.RateLimit.Backend),
			zap.Int("requests", cfg.RateLimit.Requests),
			zap.Int("window_ms", cfg.RateLimit.Window),
		)
	}

	// --- Follow-ups ---
	var tasks []followup.Task
	var jobWorker *camunda.CamundaWorker
	var zeebe *camunda.Client

	if cfg.Followups.WorkflowEnabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		checks["zeebe"] = zeebe.HealthCheck
		zapLog.Info("Zeebe client connected successfully")

		onboarding := so.NewHandler(&so.Config{
			ProcessID: cfg.Camunda.ProcessID,
			Timeout:   config.GetDuration(cfg.Followups.Timeout),
		}, zeebe, log)
		tasks = append(tasks, followup.NewTask(so.TaskType, func(ctx context.Context, r *models.SubmissionRecord) error {
			_, err := onboarding.Execute(ctx, r)
			return err
		}))
	}

	if cfg.Followups.NotifyEnabled {
		notify := newNotifyHandler(ctx, cfg, log, zapLog)
		if cfg.Followups.WorkflowEnabled {
			jobWorker = camunda.StartWorker(zeebe.GetClient(), camunda.WorkerConfig{
				TaskType:      nr.TaskType,
				MaxJobsActive: cfg.Camunda.MaxJobsActive,
				Timeout:       config.GetDuration(cfg.Camunda.Timeout),
			}, notify.Handle, log)
		} else {
			tasks = append(tasks, followup.NewTask(nr.TaskType, func(ctx context.Context, r *models.SubmissionRecord) error {
				_, err := notify.Execute(ctx, r)
				return err
			}))
		}
	}

	if cfg.Followups.IndexEnabled {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		checks["elasticsearch"] = es.Ping
		zapLog.Info("Elasticsearch connected successfully")

		index := is.NewHandler(is.LoadConfig(cfg.Database.Elasticsearch.Index), es, log)
		tasks = append(tasks, followup.NewTask(is.TaskType, func(ctx context.Context, r *models.SubmissionRecord) error {
			_, err := index.Execute(ctx, r)
			return err
		}))
	}

	followups := followup.NewDispatcher(config.GetDuration(cfg.Followups.Timeout), log, tasks...)
	zapLog.Info("Follow-ups registered", zap.Strings("tasks", followups.Tasks()))

	// --- HTTP server ---
	router := api.NewRouter(api.Options{
		Apply:   api.NewApplyHandler(submitter, followups, obs, cfg.Server.MaxBodyBytes, log),
		Pages:   web.NewHandler(log),
		Limiter: limiter,
		Checks:  checks,
		Logger:  log,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := followups.Wait(shutdownCtx); err != nil {
		zapLog.Warn("Follow-ups did not finish", zap.Error(err))
	}
	if jobWorker != nil {
		jobWorker.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Story server stopped gracefully")
}

// newNotifyHandler builds the notify-recruiters task with only the AWS
// channels that are configured.
func newNotifyHandler(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) *nr.Handler {
	awsCfg, err := commonaws.LoadConfig(ctx, cfg.Notifications.AWSRegion)
	if err != nil {
		zapLog.Fatal("aws config load failed", zap.Error(err))
	}

	var (
		sesSvc nr.SESService
		snsSvc nr.SNSService
	)
	if cfg.Notifications.FromEmail != "" {
		sesSvc = commonaws.NewSESClient(awsCfg)
	}
	if cfg.Notifications.SNSTopicARN != "" {
		snsSvc = commonaws.NewSNSClient(awsCfg)
	}

	zapLog.Info("Notification channels configured",
		zap.Bool("ses", sesSvc != nil),
		zap.Bool("sns", snsSvc != nil),
		zap.Bool("confirmApplicant", cfg.Notifications.ConfirmApplicant),
	)

	return nr.NewHandler(nr.LoadConfig(cfg.Notifications, cfg.Followups), sesSvc, snsSvc, log)
}
