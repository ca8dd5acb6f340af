package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/dronitor/internal/api/http"
	"github.com/i474232898/dronitor/internal/config"
	"github.com/i474232898/dronitor/internal/export"
	"github.com/i474232898/dronitor/internal/readings"
	"github.com/i474232898/dronitor/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Data directory for per-date flat files.
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("failed to create data dir %q: %v", cfg.DataDir, err)
	}

	// Postgres-backed readings store.
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer pgStore.Close()

	// Core service orchestrating ingestion, queries and file reads.
	service := readings.NewService(pgStore, cfg.DataDir)

	// Exporter that periodically materializes per-date flat files.
	exporter := export.New(pgStore, cfg.DataDir, cfg.ExportInterval)
	if err := exporter.Start(); err != nil {
		log.Fatalf("failed to start exporter: %v", err)
	}
	defer exporter.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "dronitor",
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
			"service": "dronitor",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, cfg.APIKeys)

	for key := range cfg.APIKeys {
		log.Printf("server started; use this API key for authentication: %s", key)
		break
	}

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(net.JoinHostPort(cfg.Host, cfg.Port)); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

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
