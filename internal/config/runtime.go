package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTAccessTTL      = "24h"
	defaultBookingPendingTTL = "24h"
	defaultMidtransBaseURL   = "https://api.sandbox.midtrans.com"
	defaultJWTSecret         = "change-me-jwt-secret"
)

// RuntimeConfig carries everything the binaries read from the environment:
// database, JWT, the payment gateway credentials and the unpaid-booking
// timeout policy.
type RuntimeConfig struct {
	DatabaseURL       string
	JWTSecret         string
	JWTAccessTTL      time.Duration
	MidtransServerKey string
	MidtransBaseURL   string
	MidtransIsProd    bool
	BookingPendingTTL time.Duration
}

func LoadRuntimeConfig() (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.MidtransServerKey = strings.TrimSpace(os.Getenv("MIDTRANS_SERVER_KEY"))
	cfg.MidtransBaseURL = strings.TrimSpace(getEnv("MIDTRANS_BASE_URL", defaultMidtransBaseURL))
	cfg.MidtransIsProd = parseBoolEnv("MIDTRANS_IS_PRODUCTION", "false")

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.BookingPendingTTL, err = parseDurationEnv("BOOKING_PENDING_TTL", defaultBookingPendingTTL)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(name, def string) (time.Duration, error) {
	raw := strings.TrimSpace(getEnv(name, def))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", name, raw)
	}
	return d, nil
}

func parseBoolEnv(name, def string) bool {
	raw := strings.TrimSpace(getEnv(name, def))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}
