package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"kosthub/internal/config"
	"kosthub/internal/database"
	"kosthub/internal/modules/booking"
	"kosthub/internal/modules/inventory"
	"kosthub/internal/modules/notification"
	"kosthub/internal/repository"
)

const sweepBatchSize = 500

// booking_sweep cancels pending bookings whose payment never arrived
// within BOOKING_PENDING_TTL and returns their rooms to the ledger.
// Intended to run from cron; safe to run while the API serves traffic.
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
		log.Fatalf("db connect failed: %v", err)
	}

	kostRepo := repository.NewKostRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	svc := booking.NewService(
		bookingRepo,
		kostRepo,
		inventory.NewService(kostRepo),
		paymentRepo,
		notification.NewService(notifRepo),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	expired, err := svc.ExpireStale(ctx, cfg.BookingPendingTTL, sweepBatchSize)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	log.Printf("booking sweep completed: expired=%d ttl=%s", expired, cfg.BookingPendingTTL)
}
