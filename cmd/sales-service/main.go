// Command sales-service records sales on MongoDB, with Redis-backed
// idempotency keys and customer lookups through the customer service.
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
	"github.com/salesdesk/sales-management/internal/infrastructure/customerclient"
	mongostore "github.com/salesdesk/sales-management/internal/infrastructure/db/mongo"
	redisstore "github.com/salesdesk/sales-management/internal/infrastructure/db/redis"
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
	log := logger.Init(logger.Options{Service: "sales-service", Level: cfg.LogLevel, Pretty: cfg.Pretty()})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	repo := mongostore.NewSaleRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	sales := service.NewSaleService(
		repo,
		customerclient.New(cfg.Gateway.CustomerServiceURL, cfg.Gateway.HealthTimeout),
		redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL),
		log,
	)

	e := api.NewSalesRouter(sales, api.Deps{
		Logger:   log,
		Verifier: tokens,
		Checks: []handlers.Check{
			{Name: "mongodb", Ping: mongostore.Ping(db)},
			{Name: "redis", Ping: redisstore.Ping(rdb)},
		},
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	})

	return httpinfra.Serve(ctx, e, cfg.ListenAddr("3003"), cfg.ShutdownTimeout, log)
}
