package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"batani-inventory/internal/config"
	"batani-inventory/internal/handler"
	"batani-inventory/internal/lock"
	"batani-inventory/internal/media"
	"batani-inventory/internal/metrics"
	"batani-inventory/internal/repository"
	"batani-inventory/internal/service"
	"batani-inventory/internal/ws"
	"batani-inventory/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
)

func main() {
	// 1. Load Env
	cfg := config.Load()
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Per-key locks: Redis when configured so several instances share them
	locker, closeLocker := setupLocker(ctx, cfg)
	defer closeLocker()

	// 4. Optional image bucket
	var images media.ImageStore
	if cfg.S3Bucket != "" {
		store, err := media.NewS3Store(ctx, media.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3Key,
			SecretKey: cfg.S3Secret,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Printf("Warning: image uploads disabled: %v", err)
		} else {
			images = store
			log.Printf("Image uploads go to bucket %s", cfg.S3Bucket)
		}
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 6. Dependency Injection (Wiring Layers)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	resolver := service.NewCustomerResolver(customerRepo)
	ledger := service.NewStockLedger(productRepo)

	invService := service.NewInventoryService(supplierRepo, productRepo, images, locker, wsHub)
	customerService := service.NewCustomerService(db, customerRepo, saleRepo, resolver, locker)
	saleService := service.NewSaleService(db, saleRepo, ledger, resolver, locker, wsHub, time.Now)
	reportService := service.NewReportService(saleRepo, customerRepo, productRepo, time.Now, cfg.Location)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))
	app.Use(metrics.Middleware())

	// 8. Routes
	handler.Register(app.Group("/api/v1"), handler.Handlers{
		Inventory: handler.NewInventoryHandler(invService),
		Customer:  handler.NewCustomerHandler(customerService),
		Sale:      handler.NewSaleHandler(saleService),
		Report:    handler.NewReportHandler(reportService),
	})

	app.Get("/metrics", metrics.Handler())
	app.Get("/healthz", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok", "ws_clients": wsHub.ClientCount()})
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Attach(c) {
			return
		}
		defer wsHub.Detach(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(cfg.Address()); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	stop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("Server exited")
}

func setupLocker(ctx context.Context, cfg config.Config) (lock.Locker, func()) {
	if cfg.RedisAddr == "" {
		log.Println("Using in-process locks")
		return lock.NewLocal(), func() {}
	}

	client := lock.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	locker := lock.NewRedis(client, cfg.LockTTL)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := locker.Ping(pingCtx); err != nil {
		log.Printf("Warning: redis at %s unreachable, falling back to in-process locks: %v", cfg.RedisAddr, err)
		_ = locker.Close()
		return lock.NewLocal(), func() {}
	}

	log.Printf("Using redis locks at %s", cfg.RedisAddr)
	return locker, func() { _ = locker.Close() }
}
