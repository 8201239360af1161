package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hwcatalog/internal/app"
	"hwcatalog/internal/config"
	"hwcatalog/internal/database"
	"hwcatalog/internal/services"
	"hwcatalog/pkg/rabbitmq"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := boot()
			if err != nil {
				return err
			}
			if cfg.Database.Driver == config.DriverMemory {
				return errors.New("migrate needs a SQL database, DB_DRIVER is memory")
			}

			db, err := openDatabase(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer database.Close(db)

			log.Info("migrations applied", "driver", cfg.Database.Driver)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample products into empty categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := boot()
			if err != nil {
				return err
			}
			if cfg.Database.Driver == config.DriverMemory {
				return errors.New("seed needs a SQL database, DB_DRIVER is memory")
			}

			db, err := openDatabase(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer database.Close(db)

			a := app.New(app.Options{DB: db, Logger: log})
			return seedProducts(cmd.Context(), a.Services, log)
		},
	}
}

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <subject>",
		Short: "Print a bearer token for the mutating API routes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := boot()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			token, err := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).IssueToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Print product change events from RabbitMQ until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := boot()
			if err != nil {
				return err
			}
			if cfg.RabbitMQ.URL == "" {
				return errors.New("RABBITMQ_URL is not set")
			}

			mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, log)
			if err != nil {
				return err
			}
			defer mqClient.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := json.NewEncoder(cmd.OutOrStdout())
			return mqClient.ConsumeProductEvents(ctx, func(event rabbitmq.ProductEvent) error {
				return out.Encode(event)
			})
		},
	}
}
