package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/openmeteo-exporter/internal/api/http"
	"github.com/i474232898/openmeteo-exporter/internal/config"
	"github.com/i474232898/openmeteo-exporter/internal/exporter"
	"github.com/i474232898/openmeteo-exporter/internal/metrics"
	"github.com/i474232898/openmeteo-exporter/internal/scheduler"
	"github.com/i474232898/openmeteo-exporter/internal/store"
	"github.com/i474232898/openmeteo-exporter/internal/weather/openmeteo"
)

func main() {
	// Single optional positional argument: path to the exporter settings
	// document.
	configPath := config.DefaultConfigPath
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	registry := metrics.NewRegistry()
	memStore := store.NewMemoryStore()
	provider := openmeteo.New(httpClient)

	// Core collector publishing into the registry and the snapshot store.
	exp := exporter.New(provider, registry, memStore)

	// Scheduler that periodically collects every location.
	sched := scheduler.New(cfg.Locations, cfg.ScrapeInterval, exp)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	log.Printf("starting openmeteo-exporter on port %d", cfg.Port)
	log.Printf("scrape interval: %s", cfg.ScrapeInterval)
	log.Printf("monitoring %d location(s)", len(cfg.Locations))

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "openmeteo-exporter",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "openmeteo-exporter",
		})
	})

	// Prometheus exposition endpoint.
	app.Get("/metrics", adaptor.HTTPHandler(registry.Handler()))

	// JSON API routes.
	httpapi.RegisterRoutes(app, memStore, cfg.Locations)

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	log.Printf("metrics available at http://localhost:%d/metrics", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
