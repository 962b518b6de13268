package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"kosthub/internal/config"
	"kosthub/internal/database"
	"kosthub/internal/middleware"
	"kosthub/internal/modules/admin"
	"kosthub/internal/modules/auth"
	"kosthub/internal/modules/booking"
	"kosthub/internal/modules/inventory"
	"kosthub/internal/modules/listing"
	"kosthub/internal/modules/notification"
	"kosthub/internal/modules/payment"
	jwtsvc "kosthub/internal/pkg/jwt"
	"kosthub/internal/pkg/midtrans"
	"kosthub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = "kosthub.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	userRepo := repository.NewUserRepository(db)
	kostRepo := repository.NewKostRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	gateway := midtrans.NewClient(cfg.MidtransServerKey, cfg.MidtransBaseURL)

	notifService := notification.NewService(notifRepo)
	notifHandler := notification.NewHandler(notifService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	listingService := listing.NewService(kostRepo)
	listingHandler := listing.NewHandler(listingService)

	inventoryService := inventory.NewService(kostRepo)
	inventoryHandler := inventory.NewHandler(inventoryService)

	bookingService := booking.NewService(bookingRepo, kostRepo, inventoryService, paymentRepo, notifService)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(paymentRepo, bookingRepo, gateway, cfg.MidtransServerKey)
	paymentHandler := payment.NewHandler(paymentService)

	adminService := admin.NewService(kostRepo, notifService)
	adminHandler := admin.NewHandler(adminService)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		listingHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterWebhookRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			listingHandler.RegisterRoutes(protected)
			inventoryHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)

			adminOnly := protected.Group("/")
			adminOnly.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterRoutes(adminOnly)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
