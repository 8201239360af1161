package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"hwcatalog/internal/app"
	"hwcatalog/internal/config"
	"hwcatalog/internal/database"
	"hwcatalog/internal/lock"
	"hwcatalog/internal/services"
	"hwcatalog/pkg/logger"
	"hwcatalog/pkg/rabbitmq"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hwcatalog",
		Short:        "Hardware component catalog service",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server (default)",
			RunE:  runServe,
		},
		newMigrateCmd(),
		newSeedCmd(),
		newTokenCmd(),
		newEventsCmd(),
	)
	return root
}

// boot loads the configuration and builds the logger.
func boot() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg.App.Env, cfg.App.LogLevel, os.Stdout)
	slog.SetDefault(log)
	return cfg, log, nil
}

// openDatabase connects and migrates. It returns a nil DB for the memory
// driver.
func openDatabase(ctx context.Context, cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("using in-memory storage, data is lost on exit")
		return nil, nil
	}
	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}

func newLocker(ctx context.Context, cfg *config.Config, log *slog.Logger) (lock.Locker, func(), error) {
	if cfg.Redis.Addr == "" {
		return lock.NewLocal(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info("using redis sequence lock", "addr", cfg.Redis.Addr)
	return lock.NewRedis(client, cfg.Redis.LockTTL), func() { client.Close() }, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := boot()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer database.Close(db)
	}

	locker, closeLocker, err := newLocker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLocker()

	opts := app.Options{
		DB:        db,
		Locker:    locker,
		Logger:    log,
		AccessLog: !cfg.IsProduction(),
	}

	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, log)
		if err != nil {
			log.Warn("RabbitMQ unavailable, product events disabled", "error", err)
		} else {
			defer mqClient.Close()
			opts.Publisher = mqClient
		}
	}

	if cfg.Auth.JWTSecret != "" {
		opts.Auth = services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	} else {
		log.Warn("JWT_SECRET not set, mutating routes are unauthenticated")
	}

	a := app.New(opts)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "port", cfg.App.Port, "driver", cfg.Database.Driver)
		errCh <- a.Fiber.Listen(cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := a.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server gracefully stopped")
	return nil
}
