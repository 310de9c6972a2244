package main // Entry point package

import (
	"context" // context for the scheduled completion sweep
	"log"     // Logging library
	"time"    // ticker for the completion sweep

	"github.com/joho/godotenv"    // load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/borrowmycar/backend/internal/booking"    // booking core (availability, pricing, lifecycle)
	"github.com/borrowmycar/backend/internal/config"     // Internal config loader
	"github.com/borrowmycar/backend/internal/database"   // MySQL connection helper
	"github.com/borrowmycar/backend/internal/handler"    // HTTP handlers
	"github.com/borrowmycar/backend/internal/middleware" // rate limiting and response caching
	"github.com/borrowmycar/backend/internal/model"      // domain types for the sweep
	"github.com/borrowmycar/backend/internal/queue"      // background booking event consumer
	"github.com/borrowmycar/backend/internal/repository" // persistence layer
	"github.com/borrowmycar/backend/internal/router"     // Internal router setup
	"github.com/borrowmycar/backend/internal/utils"      // request validator
)

func main() {
	// Load a .env file when present; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Connect to MySQL and verify the connection before serving traffic.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the single connection pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	cars := repository.NewCarRepo(db)
	bookings := repository.NewBookingRepo(db)

	// The booking core owns every status change; handlers only call it.
	core := booking.NewService(bookings)

	e := echo.New() // Create Echo instance
	e.Validator = utils.NewRequestValidator()

	// Redis backs rate limiting and public response caching.  A nil client
	// disables both instead of failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Cloudinary hosts listing photos; nil disables the upload endpoint.
	cld := config.NewCloudinary()
	if cld == nil {
		log.Println("cloudinary unavailable; image uploads disabled")
	}

	authH := handler.NewAuthHandler(cfg, users, tokens)
	ownerCars := handler.NewOwnerCarHandler(cars, cld)
	ownerBookings := handler.NewOwnerBookingHandler(bookings, cars, core)
	renterBookings := handler.NewRenterBookingHandler(bookings, cars, core)
	public := handler.NewPublicBrowseHandler(cars, bookings, core)

	router.RegisterRoutes(e)                              // health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)          // register/login/refresh/logout/me
	router.RegisterPublic(e, public, cacheMW)             // guest browse, cached
	router.RegisterOwner(e, ownerCars, ownerBookings, cfg.JWTSecret)
	router.RegisterRenter(e, renterBookings, cfg.JWTSecret)

	// Consume booking events in the background and append them to
	// logs/booking.log.  The consumer reconnects on broker failures.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	// Periodically complete bookings whose end date has passed.
	go runCompletionSweep(bookings, core)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}

// runCompletionSweep moves overdue bookings to COMPLETED once per hour.
// Each booking goes through the booking core as the system actor so the
// same transition rules apply as for the owner-triggered path.  A sweep
// error is logged and retried on the next tick.
func runCompletionSweep(bookings *repository.BookingRepo, core *booking.Service) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		due, err := bookings.ListDueForCompletion(ctx)
		if err != nil {
			log.Printf("completion sweep: list due: %v", err)
		}
		for _, b := range due {
			if _, err := core.Transition(ctx, b.ID, 0, model.ActorSystem, model.BookingCompleted); err != nil {
				// Lost races with an owner completing manually are expected.
				log.Printf("completion sweep: booking %d: %v", b.ID, err)
			}
		}
		cancel()
		<-ticker.C
	}
}
