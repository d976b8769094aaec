package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/kvfinder/kvfinder-web/internal/client"
	"github.com/kvfinder/kvfinder-web/internal/config"
	"github.com/kvfinder/kvfinder-web/internal/handler"
	"github.com/kvfinder/kvfinder-web/internal/middleware"
	"github.com/kvfinder/kvfinder-web/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client (optional - rate limiting only)
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("Warning: Redis not available, rate limiting degraded: %v", err)
		}
	} else {
		log.Println("Info: Redis not configured, rate limiting disabled")
	}

	// Initialize queue client and push queue settings (fire-and-forget)
	queueClient := client.NewOcypodClient(&cfg.Ocypod)
	ensureCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = queueClient.EnsureQueue(ensureCtx, cfg.Ocypod.Queue, client.QueueSettings{
		Timeout:      cfg.Ocypod.Timeout,
		ExpiresAfter: cfg.Ocypod.ExpiresAfter,
		Retries:      cfg.Ocypod.Retries,
	})
	cancel()
	if err != nil {
		log.Printf("Warning: queue setup failed, submissions will error until ocypod is up: %v", err)
	}

	// Initialize validator
	validate := validator.New()

	// Initialize services and handlers
	jobService := service.NewJobService(queueClient, cfg.Ocypod.Queue)
	jobHandler := handler.NewJobHandler(jobService, validate)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		BodyLimit:    1_000_000,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	app.Get("/", jobHandler.Root)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"queue":     cfg.Ocypod.BaseURL != "",
				"ratelimit": redisClient != nil,
			},
		})
	})
	app.Post("/create", rateLimiter.CreateLimit(cfg.RateLimit.CreatePerMin), jobHandler.Create)
	app.Get("/:tag", jobHandler.Ask)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("KVFinder webserver starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// An oversized body violates the request contract, not the server.
	if code == fiber.StatusRequestEntityTooLarge {
		code = fiber.StatusBadRequest
	}

	return c.Status(code).SendString(message)
}
