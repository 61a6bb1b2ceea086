package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type App struct {
	Port              string
	DatabaseURL       string
	JWTSecret         string
	StripeSecretKey   string
	PaymentSuccessURL string
	PaymentCancelURL  string
	TelegramToken     string
	Env               string
}

func Load() App {
	// local development convenience; a missing .env is fine
	_ = godotenv.Load()

	return App{
		Port:              getenv("APP_PORT", "8080"),
		DatabaseURL:       must("DATABASE_URL"),
		JWTSecret:         must("JWT_SECRET"),
		StripeSecretKey:   os.Getenv("STRIPE_SECRET_KEY"),
		PaymentSuccessURL: getenv("PAYMENT_SUCCESS_URL", "http://localhost:8080/api/v1/payments/success"),
		PaymentCancelURL:  getenv("PAYMENT_CANCEL_URL", "http://localhost:8080/api/v1/payments/cancel"),
		TelegramToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		Env:               getenv("APP_ENV", "dev"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("required env missing: %s", k)
	}
	return v
}
