// Command user-service serves accounts and authentication on PostgreSQL.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/salesdesk/sales-management/internal/api"
	"github.com/salesdesk/sales-management/internal/core/service"
	"github.com/salesdesk/sales-management/internal/infrastructure/config"
	"github.com/salesdesk/sales-management/internal/infrastructure/db/postgres"
	httpinfra "github.com/salesdesk/sales-management/internal/infrastructure/http"
	"github.com/salesdesk/sales-management/internal/infrastructure/http/handlers"
	"github.com/salesdesk/sales-management/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Service: "user-service", Level: cfg.LogLevel, Pretty: cfg.Pretty()})

	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxOpenConns: cfg.Postgres.MaxOpenConns})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	users := service.NewUserService(postgres.NewUserRepository(db), tokens, cfg.Auth.AllowRegisterRole, log)

	e := api.NewUserRouter(users, api.Deps{
		Logger:     log,
		Verifier:   tokens,
		Checks:     []handlers.Check{{Name: "postgres", Ping: db.PingContext}},
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	})

	return httpinfra.Serve(ctx, e, cfg.ListenAddr("3001"), cfg.ShutdownTimeout, log)
}
