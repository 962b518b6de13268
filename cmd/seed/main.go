package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"kosthub/internal/config"
	"kosthub/internal/database"
	"kosthub/internal/domain"
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
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM kosts")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	kostRepo := repository.NewKostRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@kosthub.id",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin KostHub",
	}
	if err := userRepo.Create(ctx, &admin); err != nil {
		log.Fatal("create admin failed:", err)
	}

	ownerHash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
	owner := domain.User{
		Email:        "ibu.sari@kosthub.id",
		PasswordHash: string(ownerHash),
		Role:         domain.RoleOwner,
		Name:         "Ibu Sari",
		Phone:        "+628111222333",
	}
	if err := userRepo.Create(ctx, &owner); err != nil {
		log.Fatal("create owner failed:", err)
	}

	seekerHash, _ := bcrypt.GenerateFromPassword([]byte("seeker123"), bcrypt.DefaultCost)
	seeker := domain.User{
		Email:        "budi@kosthub.id",
		PasswordHash: string(seekerHash),
		Role:         domain.RoleSeeker,
		Name:         "Budi Santoso",
		Phone:        "+628123456789",
	}
	if err := userRepo.Create(ctx, &seeker); err != nil {
		log.Fatal("create seeker failed:", err)
	}

	// ================== KOSTS ==================
	log.Println("Creating kosts...")

	weekly := 300000.0
	yearly := 10800000.0
	kosts := []domain.Kost{
		{
			OwnerID:        owner.ID,
			Name:           "Kost Melati",
			Description:    "Kost putri dekat kampus UGM, kamar mandi dalam.",
			Address:        "Jl. Kenanga No. 7, Sleman",
			City:           "Yogyakarta",
			PriceWeekly:    &weekly,
			PriceMonthly:   1000000,
			PriceYearly:    &yearly,
			TotalRooms:     5,
			AvailableRooms: 5,
			Status:         domain.KostPending,
		},
		{
			OwnerID:        owner.ID,
			Name:           "Kost Anggrek",
			Description:    "Kost campur dengan dapur bersama dan parkir motor.",
			Address:        "Jl. Mawar No. 12, Depok",
			City:           "Yogyakarta",
			PriceMonthly:   750000,
			TotalRooms:     8,
			AvailableRooms: 8,
			Status:         domain.KostPending,
		},
	}
	for i := range kosts {
		if err := kostRepo.Create(ctx, &kosts[i]); err != nil {
			log.Fatal("create kost failed:", err)
		}
		if err := kostRepo.UpdateStatus(ctx, kosts[i].ID, domain.KostApproved, ""); err != nil {
			log.Fatal("approve kost failed:", err)
		}
	}

	log.Println("Seed completed.")
	log.Println("  admin:  admin@kosthub.id / admin123")
	log.Println("  owner:  ibu.sari@kosthub.id / owner123")
	log.Println("  seeker: budi@kosthub.id / seeker123")
}
