package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"stayprice-session/internal/config"
	"stayprice-session/internal/handlers"
	"stayprice-session/internal/history"
	"stayprice-session/internal/services"
	"stayprice-session/internal/session"
	"stayprice-session/internal/settings"
	"stayprice-session/internal/store"
	"stayprice-session/internal/ui"
	"stayprice-session/pkg/predictapi"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Persistent store
	openCtx, cancelOpen := context.WithTimeout(context.Background(), 15*time.Second)
	backend, err := store.Open(openCtx, cfg)
	cancelOpen()
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	adapter := store.NewAdapter(backend)

	// Initialize services
	historyLog := history.NewLog(adapter)
	themeStore := settings.NewStore(adapter)
	client := predictapi.NewClient(cfg.APIBaseURL, cfg.PredictTimeout)
	orchestrator := services.NewPredictionOrchestrator(cfg, client, historyLog)
	coordinator := ui.NewCoordinator(historyLog, themeStore, ui.NewPointerBus())
	sess := session.New(orchestrator, coordinator)

	// Initialize handlers
	submitTimeout := cfg.PredictTimeout + cfg.DetailedFloor
	healthHandler := handlers.NewHealthHandler(adapter, cfg.StoreBackend, cfg.APIBaseURL)
	predictHandler := handlers.NewPredictHandler(sess, submitTimeout)
	uiHandler := handlers.NewUIHandler(coordinator, cfg)

	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		ServerHeader:  "StayPrice",
		AppName:       "StayPrice Session v1.0",
		ReadTimeout:   time.Second * 10,
		WriteTimeout:  submitTimeout + 5*time.Second,
		BodyLimit:     1 * 1024 * 1024, // 1MB
		ErrorHandler:  handlers.CustomErrorHandler,
	})

	// Middleware stack
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "StayPrice Session",
			"version": "1.0.0",
			"status":  "running",
		})
	})
	handlers.Register(app, healthHandler, predictHandler, uiHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("StayPrice session listening on %s", cfg.Addr())
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Prediction API: %s", cfg.APIBaseURL)
	log.Printf("Store backend: %s", cfg.StoreBackend)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	sess.Close()
	if err := adapter.Close(); err != nil {
		log.Printf("Failed to close store: %v", err)
	}

	log.Println("Server shutdown complete")
}
