package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads a local .env file in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/airline-event-booking/internal/acars"      // ACARS dispatch relay client
	"github.com/iliyamo/airline-event-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/airline-event-booking/internal/database"   // MySQL connection helper
	"github.com/iliyamo/airline-event-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/airline-event-booking/internal/middleware" // Rate limiting and caching middleware
	"github.com/iliyamo/airline-event-booking/internal/queue"      // Booking confirmation consumer
	"github.com/iliyamo/airline-event-booking/internal/repository" // Data access layer
	"github.com/iliyamo/airline-event-booking/internal/router"     // Route registration
	queue_publisher "github.com/iliyamo/airline-event-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the one connection pool.
	eventRepo := repository.NewEventRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	staffRepo := repository.NewStaffRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	// Handlers.
	eventHandler := handler.NewEventHandler(eventRepo)
	bookingHandler := handler.NewBookingHandler(bookingRepo, eventRepo)
	bookingHandler.Publish = queue_publisher.PublishBookingConfirmed
	staffHandler := handler.NewStaffHandler(staffRepo, cfg.BcryptCost)
	uploadHandler := handler.NewUploadHandler(cfg.UploadDir, cfg.UploadPublicPath, eventRepo)
	relay := acars.NewClient(cfg.HoppieURL, cfg.HoppieLogon, cfg.DispatchCallsign)
	dispatchHandler := handler.NewDispatchHandler(relay)
	authHandler := handler.NewAuthHandler(cfg, staffRepo, tokenRepo)

	e := echo.New() // Create Echo instance

	// Redis-backed rate limiting and response caching degrade to no-ops
	// when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, eventHandler, bookingHandler, cache)
	router.RegisterPilot(e, bookingHandler)
	router.RegisterStaff(e, authHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, eventHandler, staffHandler, uploadHandler, dispatchHandler, bookingHandler, staffRepo)

	// Uploaded event pictures are served straight from disk.
	e.Static(cfg.UploadPublicPath, cfg.UploadDir)

	// Booking confirmations are logged by a background consumer.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
