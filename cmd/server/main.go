package main // Entry point package

import (
	"log" // Logging library
	"os"  // Environment access for optional settings

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/andrea360/fitness-center-backend/internal/config"     // Internal config loader
	"github.com/andrea360/fitness-center-backend/internal/database"   // MySQL connection helper
	"github.com/andrea360/fitness-center-backend/internal/handler"    // HTTP handlers
	"github.com/andrea360/fitness-center-backend/internal/middleware" // Redis-backed rate limiting and caching
	"github.com/andrea360/fitness-center-backend/internal/queue"      // RabbitMQ consumer for confirmed reservations
	"github.com/andrea360/fitness-center-backend/internal/repository" // Data access layer
	"github.com/andrea360/fitness-center-backend/internal/router"     // Route registration
	"github.com/andrea360/fitness-center-backend/internal/service"    // Business logic layer
)

func main() {
	// Load .env if present; in production the variables come from the
	// environment directly, so a missing file is not an error.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	locations := repository.NewLocationRepo(db)
	services := repository.NewServiceRepo(db)
	members := repository.NewMemberRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	reservations := repository.NewReservationRepo(db)
	purchases := repository.NewPurchaseRepo(db)
	transactions := repository.NewTransactionRepo(db)

	// Services.  The reservation service owns the transactional booking
	// flow; purchases and payments share the package accounting rules.
	purchaseSvc := service.NewPurchaseService(db, purchases, members, services, cfg.ManualValidityDays, cfg.PaidValidityMonths)
	appointmentSvc := service.NewAppointmentService(db, appointments, members, services, locations, purchases)
	reservationSvc := service.NewReservationService(db, reservations, appointments, purchases, members, services, locations)
	checkout := &service.HostedCheckout{BaseURL: checkoutBaseURL()}
	paymentSvc := service.NewPaymentService(transactions, members, services, purchaseSvc, checkout)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens, members),
		Catalog:      handler.NewCatalogHandler(locations, services),
		Members:      handler.NewMemberHandler(members, users),
		Appointments: handler.NewAppointmentHandler(appointmentSvc),
		Reservations: handler.NewReservationHandler(reservationSvc),
		Purchases:    handler.NewPurchaseHandler(purchaseSvc),
		Payments:     handler.NewPaymentHandler(paymentSvc),
	}

	// Consume confirmed-reservation events in the background.  The consumer
	// reconnects on broker failure and never takes the API down with it.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance

	// Redis backs both the token-bucket rate limiter and the response cache.
	// When Redis is unreachable the client is nil and both features are
	// skipped so the API still serves traffic.
	var cacheMW echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	} else {
		log.Println("redis unavailable: rate limiting and response caching disabled")
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, h.Auth, cfg.JWTSecret)
	router.RegisterAPI(e, h, cfg.JWTSecret, cacheMW)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}

// checkoutBaseURL returns the base URL of the hosted checkout page.
func checkoutBaseURL() string {
	if v := os.Getenv("CHECKOUT_BASE_URL"); v != "" {
		return v
	}
	return "https://pay.example.com"
}
