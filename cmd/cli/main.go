package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"

	"github.com/dmitrijs2005/upiwallet/internal/buildinfo"
	"github.com/dmitrijs2005/upiwallet/internal/client/cli"
	"github.com/dmitrijs2005/upiwallet/internal/client/client"
	"github.com/dmitrijs2005/upiwallet/internal/client/config"
	"github.com/dmitrijs2005/upiwallet/internal/client/repositories/history"
	"github.com/dmitrijs2005/upiwallet/internal/client/repositories/keyvalue"
	"github.com/dmitrijs2005/upiwallet/internal/client/services"
	"github.com/dmitrijs2005/upiwallet/internal/client/session"
	"github.com/dmitrijs2005/upiwallet/internal/client/validation"
	"github.com/dmitrijs2005/upiwallet/internal/logging"
)

func main() {
	os.Exit(start())
}

func start() int {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

// serve runs the client and returns the process exit code. Buffered log
// entries are flushed before it returns.
func serve(ctx context.Context, cfg *config.Config, logger logging.Logger) int {
	if s, ok := logger.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "wallet cli failed", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	db, err := client.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	kv, closeKV, err := openKeyValue(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeKV()

	gw, err := client.NewHTTPGateway(cfg.GatewayURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithRetries(cfg.ReadRetries, cfg.RetryDelay),
		client.WithRateLimit(cfg.RequestsPerSecond, cfg.RequestBurst),
		client.WithLogger(logger.With("component", "gateway")),
	)
	if err != nil {
		return err
	}
	defer gw.Close()

	opts := []session.Option{session.WithLogger(logger.With("component", "session"))}
	if cfg.OrderedRefresh {
		opts = append(opts, session.WithOrderedRefresh())
	}
	store, err := session.NewStore(ctx, kv, gw, opts...)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer store.Close()

	policy := services.RefreshAlways
	if cfg.DeferPaymentRefresh {
		policy = services.RefreshDeferred
	}

	v := validation.New()
	cache := history.NewAtomicRepository(db)
	svcLog := logger.With("component", "services")

	app := cli.NewApp(cfg, cli.Deps{
		Users:     services.NewUserService(gw, gw, store, cache, v, svcLog),
		Accounts:  services.NewAccountService(gw, gw, store, v, svcLog),
		Transfers: services.NewTransferService(gw, gw, store, cache, v, svcLog),
		Utilities: services.NewUtilityService(gw, gw, store, policy, v, svcLog),
		Billers:   services.NewBillerService(gw, store, v, svcLog),
		Watcher:   store,
		Pinger:    gw,
		Log:       logger.With("component", "cli"),
	}, os.Stdin, os.Stdout)

	logger.Info(ctx, "wallet cli started", "gateway", cfg.GatewayURL,
		"storage", cfg.StorageBackend, "ordered_refresh", cfg.OrderedRefresh, "payment_refresh", policy.String())
	app.Run(ctx)
	return nil
}

// openKeyValue returns the durable session tier picked by the config. The
// SQLite tier shares db with the history cache.
func openKeyValue(ctx context.Context, cfg *config.Config, db *sql.DB) (keyvalue.Repository, func(), error) {
	if cfg.StorageBackend != config.StorageRedis {
		return keyvalue.NewSQLiteRepository(db), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}
	return keyvalue.NewRedisRepository(rdb, cfg.RedisPrefix), func() { _ = rdb.Close() }, nil
}
