package main

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"libraryservice/internal/config"
	"libraryservice/internal/database"
	"libraryservice/internal/domain"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM borrowings")
	db.Exec("DELETE FROM books")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	staffHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	staff := domain.User{
		Email:        "admin@library.local",
		PasswordHash: string(staffHash),
		FirstName:    "Library",
		LastName:     "Admin",
		IsStaff:      true,
	}
	db.Create(&staff)
	log.Println("Staff user created: admin@library.local / admin123")

	readerHash, _ := bcrypt.GenerateFromPassword([]byte("reader123"), bcrypt.DefaultCost)
	readers := []domain.User{
		{Email: "alice@example.com", PasswordHash: string(readerHash), FirstName: "Alice", LastName: "Nguyen"},
		{Email: "bob@example.com", PasswordHash: string(readerHash), FirstName: "Bob", LastName: "Sato"},
		{Email: "carol@example.com", PasswordHash: string(readerHash), FirstName: "Carol", LastName: "Ivanova"},
	}
	for i := range readers {
		db.Create(&readers[i])
	}

	// ================== BOOKS ==================
	log.Println("Creating books...")
	books := []domain.Book{
		{Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Cover: domain.CoverHard, Inventory: 5, DailyFee: decimal.NewFromFloat(1.50)},
		{Title: "Clean Architecture", Author: "Robert C. Martin", Cover: domain.CoverHard, Inventory: 3, DailyFee: decimal.NewFromFloat(2.00)},
		{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Cover: domain.CoverHard, Inventory: 2, DailyFee: decimal.NewFromFloat(2.50)},
		{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Cover: domain.CoverSoft, Inventory: 4, DailyFee: decimal.NewFromFloat(1.00)},
		{Title: "Structure and Interpretation of Computer Programs", Author: "Unknown Author", Cover: domain.CoverSoft, Inventory: 1, DailyFee: decimal.NewFromFloat(0.75)},
	}
	for i := range books {
		db.Create(&books[i])
	}

	// ================== BORROWINGS ==================
	log.Println("Creating borrowings...")
	today := domain.DateOnly(time.Now())

	// Active borrowing due in five days.
	db.Create(&domain.Borrowing{
		BorrowDate:         today.AddDate(0, 0, -2),
		ExpectedReturnDate: today.AddDate(0, 0, 5),
		BookID:             books[0].ID,
		UserID:             readers[0].ID,
	})

	// Overdue borrowing, three days late already.
	db.Create(&domain.Borrowing{
		BorrowDate:         today.AddDate(0, 0, -10),
		ExpectedReturnDate: today.AddDate(0, 0, -3),
		BookID:             books[1].ID,
		UserID:             readers[1].ID,
	})

	// Returned on time.
	returned := today.AddDate(0, 0, -4)
	db.Create(&domain.Borrowing{
		BorrowDate:         today.AddDate(0, 0, -9),
		ExpectedReturnDate: today.AddDate(0, 0, -4),
		ActualReturnDate:   &returned,
		BookID:             books[3].ID,
		UserID:             readers[2].ID,
	})

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Staff:  admin@library.local / admin123")
	log.Println("Reader: alice@example.com / reader123")
}
