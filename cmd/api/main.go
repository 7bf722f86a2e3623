// @title           Entregadores 67 Dispatch API
// @version         2.0.0
// @description     Order dispatch between the admin panel, partner storefronts and couriers.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/entregadores67/dispatch/internal/api"
	"github.com/entregadores67/dispatch/internal/core/ports"
	"github.com/entregadores67/dispatch/internal/core/service"
	"github.com/entregadores67/dispatch/internal/infrastructure/db/memory"
	mongodb "github.com/entregadores67/dispatch/internal/infrastructure/db/mongo"
	redisdb "github.com/entregadores67/dispatch/internal/infrastructure/db/redis"
	"github.com/entregadores67/dispatch/internal/infrastructure/queue"
	"github.com/entregadores67/dispatch/internal/jobs"
	"github.com/entregadores67/dispatch/internal/pkg/config"
	"github.com/entregadores67/dispatch/pkg/logger"
)

const version = "2.0.0"

// repositories is the storage backend chosen at startup.
type repositories struct {
	name     string
	orders   ports.OrderRepository
	events   ports.OrderEventRepository
	couriers ports.CourierRepository
	users    ports.UserRepository
	// counter is the orders repository seen through its aggregate query.
	counter jobs.OrderCounter
	close   func(ctx context.Context) error
}

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "dispatch",
		Version: version,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	log.Info().Str("env", cfg.Env).Str("backend", cfg.Store.Backend).Msg("starting dispatch api")

	pingers := map[string]ports.Pinger{}

	repos, err := openStore(ctx, cfg, log, pingers)
	if err != nil {
		return err
	}

	guard, closeGuard, err := openGuard(ctx, cfg, log, pingers)
	if err != nil {
		return err
	}

	// --- Audit trail workers ---
	dispatcher := queue.NewDispatcher(cfg.Jobs.AuditWorkers, repos.events, logger.Component("audit"))
	dispatcher.Start(ctx)

	// --- Services ---
	authService := service.NewAuthService(repos.users, service.AuthConfig{
		JWTSecret:           cfg.Auth.JWTSecret,
		TokenTTL:            cfg.Auth.TokenTTL,
		BootstrapAdminEmail: cfg.Auth.BootstrapAdminEmail,
	}, logger.Component("auth"))
	orderService := service.NewOrderService(repos.orders, repos.events, dispatcher, logger.Component("orders"))
	courierService := service.NewCourierService(repos.couriers, repos.users, logger.Component("couriers"))
	externalService := service.NewExternalOrderService(repos.orders, guard, dispatcher, logger.Component("ingestion"))

	// --- Scheduled jobs ---
	statsJob := jobs.NewOrderStatsJob(repos.counter, cfg.Jobs.StatsSchedule, logger.Component("jobs"))
	if err := statsJob.Start(); err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Orders:         orderService,
		Couriers:       courierService,
		ExternalOrders: externalService,
		Auth:           authService,
		JWTSecret:      cfg.Auth.JWTSecret,
		Pingers:        pingers,
		Counter:        repos.counter,
		Backend:        repos.name,
		Version:        version,
		Logger:         logger.Component("http"),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	// --- Graceful shutdown ---
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	statsJob.Stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	dispatcher.Stop()
	if err := closeGuard(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("redis disconnect")
	}
	if err := repos.close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("store disconnect")
	}

	log.Info().Msg("server stopped")
	return nil
}

// openStore connects the configured backend. In auto mode an unreachable
// MongoDB falls back to the in-memory store.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, pingers map[string]ports.Pinger) (*repositories, error) {
	if cfg.Store.Backend != config.BackendMemory {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.ConnectTimeout,
		})
		switch {
		case err == nil:
			return mongoStore(ctx, client, db, log, pingers)
		case cfg.Store.Backend == config.BackendMongo:
			return nil, err
		default:
			log.Warn().Err(err).Msg("mongodb unavailable, falling back to in-memory store")
		}
	}

	store := memory.New()
	if cfg.Store.SeedDemo {
		if err := store.SeedDemo(ctx, cfg.Store.DemoPassword, time.Now().UTC()); err != nil {
			return nil, err
		}
		log.Info().
			Str("admin", memory.DemoAdminID).
			Str("courier", memory.DemoCourierID).
			Msg("demo data seeded")
	}
	return &repositories{
		name:     "memory",
		orders:   store.Orders,
		events:   store.Events,
		couriers: store.Couriers,
		users:    store.Users,
		counter:  store.Orders,
		close:    func(context.Context) error { return nil },
	}, nil
}

func mongoStore(ctx context.Context, client *mongo.Client, db *mongo.Database, log zerolog.Logger, pingers map[string]ports.Pinger) (*repositories, error) {
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", db.Name()).Msg("connected to mongodb")
	pingers["mongodb"] = mongodb.NewPinger(client)

	orders := mongodb.NewOrderRepository(db)
	return &repositories{
		name:     "mongodb",
		orders:   orders,
		events:   mongodb.NewOrderEventRepository(db),
		couriers: mongodb.NewCourierRepository(db),
		users:    mongodb.NewUserRepository(db),
		counter:  orders,
		close:    client.Disconnect,
	}, nil
}

// openGuard returns the Redis reservation guard when REDIS_ADDR is set and
// the in-process guard otherwise.
func openGuard(ctx context.Context, cfg *config.Config, log zerolog.Logger, pingers map[string]ports.Pinger) (ports.IngestionGuard, func(context.Context) error, error) {
	if cfg.Redis.Addr == "" {
		return memory.NewIngestionGuard(), func(context.Context) error { return nil }, nil
	}
	client, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	pingers["redis"] = redisdb.NewPinger(client)
	return redisdb.NewIngestionGuard(client), func(context.Context) error { return client.Close() }, nil
}
