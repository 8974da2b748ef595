// Command gateway is the single entry point in front of the user, customer
// and sales services.
//
// @title                       Sales Management API
// @version                     1.0
// @description                 User, customer and sales services behind an authenticating API gateway.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/salesdesk/sales-management/internal/core/service"
	"github.com/salesdesk/sales-management/internal/gateway"
	"github.com/salesdesk/sales-management/internal/infrastructure/config"
	httpinfra "github.com/salesdesk/sales-management/internal/infrastructure/http"
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
	log := logger.Init(logger.Options{Service: "api-gateway", Level: cfg.LogLevel, Pretty: cfg.Pretty()})

	services, err := gateway.Services(cfg.Gateway)
	if err != nil {
		return err
	}
	routes, err := gateway.BuildRouteTable(services, cfg.Gateway.PublicPaths)
	if err != nil {
		return err
	}
	for _, r := range routes.Routes() {
		log.Info().Str("prefix", r.Prefix).Str("target", r.Target.String()).Bool("public", r.Public).Msg("route")
	}

	e := gateway.NewRouter(gateway.Options{
		Routes:        routes,
		Verifier:      service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		HealthTargets: gateway.HealthTargets(services),
		ProxyTimeout:  cfg.Gateway.ProxyTimeout,
		HealthTimeout: cfg.Gateway.HealthTimeout,
		Logger:        log,
		Registerer:    prometheus.DefaultRegisterer,
		Gatherer:      prometheus.DefaultGatherer,
	})

	return httpinfra.Serve(ctx, e, cfg.ListenAddr("3000"), cfg.ShutdownTimeout, log)
}
