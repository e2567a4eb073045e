package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/events"
	"github.com/SscSPs/general_ledger/internal/jobs"
	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/SscSPs/general_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/general_ledger/internal/repositories/memory"
	"github.com/SscSPs/general_ledger/pkg/database"
)

// Options tune what Build opens.
type Options struct {
	// Migrate applies pending migrations before the repositories are wired.
	Migrate bool
}

// Runtime holds the wired storage, messaging and services of one process.
type Runtime struct {
	Config   *config.Config
	Logger   *slog.Logger
	Repos    portsrepo.RepositoryProvider
	Services *portssvc.ServiceContainer
	Bus      *events.Bus
	Jobs     *jobs.Client // nil without Redis

	pool  *pgxpool.Pool
	redis *redis.Client
}

// Build opens the configured storage and Redis, then wires the service container.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rt := &Runtime{Config: cfg, Logger: logger, Bus: events.NewBus(logger)}

	switch cfg.Storage {
	case config.StorageMemory:
		rt.Repos = memory.NewRepositoryProvider()
	case config.StoragePgsql:
		if opts.Migrate {
			if err := database.RunMigrations(cfg.DatabaseURL, database.MigrateUp, logger); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, err
		}
		rt.pool = pool
		rt.Repos = pgsql.NewRepositoryProvider(pool)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	rt.Bus.Subscribe(auditHandler(logger))
	var publisher portssvc.EventPublisher = rt.Bus
	deps := services.ContainerDeps{}

	if cfg.RedisAddr != "" {
		client, err := database.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.redis = client
		publisher = events.Fanout{rt.Bus, events.NewRedisPublisher(client, cfg.EventsChannel)}
		rt.Jobs = jobs.NewClient(RedisConnOpt(cfg))
		deps.Jobs = rt.Jobs
	} else {
		logger.Warn("REDIS_ADDR not set; events stay in process and background projection jobs are disabled")
	}
	deps.Publisher = publisher

	rt.Services = services.NewServiceContainer(cfg, rt.Repos, deps)
	return rt, nil
}

// RedisConnOpt is the Asynq connection for the configured Redis.
func RedisConnOpt(cfg *config.Config) asynq.RedisConnOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr}
}

// Close releases every connection Build opened.
func (rt *Runtime) Close() {
	var errs []error
	if rt.Jobs != nil {
		errs = append(errs, rt.Jobs.Close())
	}
	if rt.redis != nil {
		errs = append(errs, rt.redis.Close())
	}
	if err := errors.Join(errs...); err != nil {
		rt.Logger.Warn("Error closing runtime connections", slog.String("error", err.Error()))
	}
	database.ClosePgxPool(rt.pool)
}

func auditHandler(logger *slog.Logger) events.Handler {
	return func(_ context.Context, e domain.Event) error {
		logger.Info("Ledger event",
			slog.String("event_type", string(e.Type)),
			slog.String("event_id", e.EventID),
			slog.String("workplace_id", e.WorkplaceID),
			slog.String("aggregate_id", e.AggregateID))
		return nil
	}
}
