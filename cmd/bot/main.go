package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"libraryservice/internal/config"
	"libraryservice/internal/database"
	"libraryservice/internal/repository"
	"libraryservice/internal/telegram"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	borrowingRepo := repository.NewBorrowingRepository(db)

	client := telegram.NewClient(cfg.TelegramToken)
	bot := telegram.NewBot(client, userRepo, borrowingRepo, log.Printf)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("bot started")
	if err := bot.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
}
