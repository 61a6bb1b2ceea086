package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"libraryservice/internal/config"
	"libraryservice/internal/database"
	"libraryservice/internal/middleware"
	"libraryservice/internal/modules/auth"
	"libraryservice/internal/modules/borrowing"
	"libraryservice/internal/modules/catalog"
	"libraryservice/internal/modules/payment"
	"libraryservice/internal/notification"
	jwtsvc "libraryservice/internal/pkg/jwt"
	"libraryservice/internal/repository"
	"libraryservice/internal/stripe"
	"libraryservice/internal/telegram"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	borrowingRepo := repository.NewBorrowingRepository(db)

	tg := telegram.NewClient(cfg.TelegramToken)
	dispatcher := notification.NewDispatcher(tg, log.Printf)
	defer dispatcher.Close()

	gateway := stripe.NewClient(cfg.StripeSecretKey)
	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	paymentService := payment.NewService(db, gateway, dispatcher, log.Printf, cfg.PaymentSuccessURL, cfg.PaymentCancelURL)
	paymentHandler := payment.NewHandler(paymentService)

	borrowingService := borrowing.NewService(db, borrowingRepo, paymentService, dispatcher)
	borrowingHandler := borrowing.NewHandler(borrowingService)

	catalogService := catalog.NewService(bookRepo, userRepo, dispatcher, log.Printf)
	catalogHandler := catalog.NewHandler(catalogService)

	r := gin.Default()

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		paymentHandler.RegisterWebhookRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(j))
		{
			catalogHandler.RegisterRoutes(protected)
			borrowingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)

			staff := protected.Group("/")
			staff.Use(middleware.StaffOnly())
			{
				catalogHandler.RegisterStaffRoutes(staff)
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
