package config

import (
	"os"
	"strconv"
	"time"
)

// AppConfig holds the runtime settings loaded from the environment.
// Reservation timing is configuration, not a literal, so tests can shrink it.
type AppConfig struct {
	Port                string
	ReservationDuration time.Duration
	ActiveGraceWindow   time.Duration
	CleanupInterval     time.Duration
	CleanupRetention    time.Duration
	SMTPHost            string
	SMTPPort            string
	SMTPUser            string
	SMTPPassword        string
	MailFrom            string
	StripeSecretKey     string
	StripePublicKey     string
	PaymentCurrency     string
}

func Load() AppConfig {
	return AppConfig{
		Port:                getenv("PORT", "8080"),
		ReservationDuration: minutes("RESERVATION_DURATION_MINUTES", 120),
		ActiveGraceWindow:   minutes("ACTIVE_GRACE_MINUTES", 10),
		CleanupInterval:     minutes("REQUEST_CLEANUP_INTERVAL_MINUTES", 24*60),
		CleanupRetention:    minutes("REQUEST_CLEANUP_RETENTION_MINUTES", 7*24*60),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getenv("SMTP_PORT", "587"),
		SMTPUser:            os.Getenv("SMTP_USER"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		MailFrom:            getenv("MAIL_FROM", "no-reply@booknbite.local"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripePublicKey:     os.Getenv("STRIPE_PUBLIC_KEY"),
		PaymentCurrency:     getenv("PAYMENT_CURRENCY", "usd"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func minutes(key string, def int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return time.Duration(def) * time.Minute
}
