package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/auth-gateway/internal/api/http"
	"github.com/spec-kit/auth-gateway/internal/config"
	"github.com/spec-kit/auth-gateway/internal/gateway"
	"github.com/spec-kit/auth-gateway/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	policy := gateway.NewPolicy(cfg.Gateway.PublicMarkers)
	authClient := gateway.NewAuthClient(cfg.Gateway.AuthServiceURL, cfg.Gateway.AuthorizeTimeout(), logger)
	filter := gateway.NewFilter(policy, authClient, metrics, logger)
	forwarder := gateway.NewForwarder(cfg.Gateway.Routes, logger)

	app := fiber.New()

	// Denials must carry an empty body, so the gateway skips the JSON
	// error middleware and registers only logging and request IDs.
	app.Use(observability.RequestLogger(logger, metrics))

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive", "service": "gateway", "version": cfg.App.Version})
	})
	httptransport.RegisterMetricsRoute(app, metrics)

	app.Use(filter.Handle)
	app.All("/*", forwarder.Handle)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
