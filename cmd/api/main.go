package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/tiendago/backend/internal/cache"
	"github.com/tiendago/backend/internal/config"
	"github.com/tiendago/backend/internal/handlers"
	"github.com/tiendago/backend/internal/messaging"
	"github.com/tiendago/backend/internal/middleware"
	"github.com/tiendago/backend/internal/port"
	"github.com/tiendago/backend/internal/repository"
	"github.com/tiendago/backend/internal/service"
)

func main() {
	log.Println("🚀 TiendaGo API starting...")

	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()

	// Database connection
	db, err := initDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer db.Close()

	if err := repository.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Schema migration error: %v", err)
	}

	// Redis is optional: without it the catalog serves straight from Postgres.
	var catalogCache port.CatalogCache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("⚠️ Redis unavailable, catalog cache disabled: %v", err)
	} else {
		catalogCache = cache.NewRedisCatalogCache(redisClient)
		log.Println("✅ Redis connection successful")
	}

	// RabbitMQ is optional too: order events are advisory.
	var publisher port.OrderEventPublisher
	rabbitClient := messaging.NewClient(cfg.RabbitMQ)
	if err := rabbitClient.Connect(); err != nil {
		log.Printf("⚠️ RabbitMQ unavailable, order events disabled: %v", err)
	} else {
		publisher = messaging.NewPublisher(rabbitClient)
		defer rabbitClient.Close()
	}

	// Dependencies injection
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	productRepo := repository.NewProductRepository(db)

	orderService := service.NewOrderService(orderRepo, publisher)
	authService := service.NewAuthService(userRepo, profileRepo, cfg.JWTSecret, cfg.TokenTTL)
	productService := service.NewProductService(productRepo, catalogCache)
	profileService := service.NewProfileService(userRepo, profileRepo)
	adminService := service.NewAdminService(orderRepo, userRepo, productRepo, catalogCache, publisher)

	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	profileHandler := handlers.NewProfileHandler(profileService)
	adminHandler := handlers.NewAdminHandler(adminService)

	app := setupFiberApp()
	setupRoutes(app, authService, orderHandler, authHandler, productHandler, profileHandler, adminHandler)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("🛑 TiendaGo API closing...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("🌍 TiendaGo API listening: http://localhost:%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server start error: %v", err)
	}
}

func initDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("database open error: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("database ping error: %v", err)
	}

	log.Printf("✅ Database connection successful: %s", cfg.Name)
	return db, nil
}

func setupFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "TiendaGo API v1.0",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))

	return app
}

func setupRoutes(
	app *fiber.App,
	authService *service.AuthService,
	orderHandler *handlers.OrderHandler,
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	profileHandler *handlers.ProfileHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "TiendaGo API is running",
			"timestamp": time.Now().UTC(),
		})
	})

	authed := middleware.Authenticate(authService)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/check-email", authHandler.CheckEmail)
	auth.Get("/me", authed, authHandler.Me)
	auth.Put("/change-password", authed, authHandler.ChangePassword)

	// Public catalog. Static segments register before /:id so they are
	// not swallowed by the parameter route.
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/featured", productHandler.Featured)
	products.Get("/categories", productHandler.Categories)
	products.Get("/:id", productHandler.Get)
	products.Get("/:id/related", productHandler.Related)

	// Order routes
	orders := api.Group("/orders", authed)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)

	// Profile routes
	profile := api.Group("/profile", authed)
	profile.Get("/", profileHandler.Get)
	profile.Put("/", profileHandler.Update)
	profile.Get("/addresses", profileHandler.Addresses)
	profile.Post("/addresses", profileHandler.AddAddress)
	profile.Get("/payment-methods", profileHandler.PaymentMethods)
	profile.Post("/payment-methods", profileHandler.AddPaymentMethod)

	// Admin routes
	admin := api.Group("/admin", authed, middleware.RequireAdmin())
	admin.Get("/dashboard", adminHandler.Dashboard)
	admin.Get("/recent-activity", adminHandler.RecentActivity)
	admin.Get("/orders", adminHandler.ListOrders)
	admin.Get("/orders/:id", adminHandler.GetOrder)
	admin.Put("/orders/:id/status", adminHandler.UpdateOrderStatus)
	admin.Get("/products", adminHandler.ListProducts)
	admin.Post("/products", adminHandler.CreateProduct)
	admin.Get("/products/:id", adminHandler.GetProduct)
	admin.Put("/products/:id", adminHandler.UpdateProduct)
	admin.Delete("/products/:id", adminHandler.DeleteProduct)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Put("/users/:id", adminHandler.UpdateUser)

	// Route not found
	app.Use("*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
