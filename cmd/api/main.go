package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aryasuta/Elliptical-Backend/internal/config"
	"github.com/Aryasuta/Elliptical-Backend/internal/db"
	"github.com/Aryasuta/Elliptical-Backend/internal/events"
	"github.com/Aryasuta/Elliptical-Backend/internal/log"
	"github.com/Aryasuta/Elliptical-Backend/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain
var osExit = os.Exit

func main() {
	if err := mainRunner(mainDepsProvider()); err != nil {
		logger := log.Base()
		logger.Error().Err(err).Msg("api exited")
		osExit(1)
	}
}

type mainDeps struct {
	loadConfig      func() config.Config
	configureLog    func(log.Config)
	connectPostgres func(context.Context, config.Config) (*pgxpool.Pool, error)
	migrate         func(context.Context, *pgxpool.Pool) error
	connectRedis    func(config.Config) *redis.Client
	newPublisher    func(config.Config) events.Publisher
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, *pgxpool.Pool, *redis.Client, events.Publisher, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		configureLog:    log.Configure,
		connectPostgres: db.ConnectPostgres,
		migrate:         db.Migrate,
		connectRedis:    db.ConnectRedis,
		newPublisher:    newPublisher,
		notify:          signal.Notify,
		run:             Run,
	}
}

func newPublisher(cfg config.Config) events.Publisher {
	brokers := cfg.Brokers()
	if len(brokers) == 0 {
		return events.Nop{}
	}
	return events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
}

func realMain(deps mainDeps) error {
	cfg := deps.loadConfig()
	deps.configureLog(log.Config{Level: cfg.LogLevel})
	logger := log.WithComponent("api")

	ctx := context.Background()
	pg, err := deps.connectPostgres(ctx, cfg)
	if err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}
	if err := deps.migrate(ctx, pg); err != nil {
		pg.Close()
		return fmt.Errorf("migrations failed: %w", err)
	}

	rdb := deps.connectRedis(cfg)
	publisher := deps.newPublisher(cfg)

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	logger.Info().Str("addr", cfg.ServerPort).Bool("redis", rdb != nil).Msg("starting kiosk api")
	if err := deps.run(ctx, cfg, pg, rdb, publisher, signals, nil); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}
	return nil
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, pg *pgxpool.Pool, rdb *redis.Client, publisher events.Publisher, signals <-chan os.Signal, listen ListenFunc) error {
	var querier db.Querier
	if pg != nil {
		querier = pg
	}
	srv := server.NewServer(cfg, querier, rdb, publisher)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if pg != nil {
		pg.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if closer, ok := publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger := log.WithComponent("api")
			logger.Warn().Err(err).Msg("close event publisher")
		}
	}
	return nil
}
