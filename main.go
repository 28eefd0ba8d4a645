package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	recoverer "github.com/gofiber/fiber/v2/middleware/recover"

	"productapi/internal/cache"
	"productapi/internal/config"
	"productapi/internal/handlers"
	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/services"
	"productapi/pkg/rabbitmq"
)

// NewApp wires the full application: database, optional RabbitMQ
// publisher, optional Redis cache, service, handlers, and the Fiber app.
// The returned cleanup func closes the broker and cache connections.
func NewApp(cfg config.Config) (*fiber.App, func(), error) {
	// --- Database ---
	var db *gorm.DB
	var err error
	if cfg.DatabaseDSN != "" {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)

	// --- Optional RabbitMQ publisher ---
	var mqClient *rabbitmq.Client
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		events = mqClient

		// Log incoming product events. A real consumer would live in a
		// separate process; this mirrors the publisher for visibility.
		if consumerErr := mqClient.ConsumeProductEvents(func(msg amqp.Delivery) error {
			log.Printf("Received product event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		}); consumerErr != nil {
			log.Printf("Failed to start product events consumer: %v", consumerErr)
		}
	} else {
		log.Println("RABBITMQ_URL not set, product event publishing disabled")
	}

	// --- Optional Redis cache ---
	var redisClient *redis.Client
	var productCache *cache.Cache
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		productCache = cache.New(redisClient, "productapi:", 5*time.Minute)
	} else {
		log.Println("REDIS_ADDR not set, product read caching disabled")
	}

	// --- Services and Handlers ---
	productService := services.NewProductService(productRepo, events, productCache)
	productHandler := handlers.NewProductHandler(productService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(recoverer.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.New().String() },
	}))
	app.Use(logger.New())

	api := app.Group("/api")
	productHandler.RegisterRoutes(api)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": cfg.RabbitMQURL != "",
			"cache":  cfg.RedisAddr != "",
		})
	})

	cleanup := func() {
		if mqClient != nil {
			if err := mqClient.Close(); err != nil {
				log.Printf("Error closing RabbitMQ client: %v", err)
			}
		}
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Printf("Error closing Redis client: %v", err)
			}
		}
	}

	return app, cleanup, nil
}

func main() {
	cfg := config.Load()

	app, cleanup, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer cleanup()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
