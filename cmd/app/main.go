package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"stockfolio/configs"
	"stockfolio/internal/database"
	deliveryhttp "stockfolio/internal/delivery/http"
	"stockfolio/internal/domain"
	"stockfolio/internal/infra"
	"stockfolio/internal/repository"
	"stockfolio/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	positionRepo := repository.NewPositionRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	quoteService := service.NewQuoteService(cfg.Quote.BaseURL, cfg.Quote.APIKey, cfg.Quote.Timeout)
	ledgerService := service.NewLedgerService(positionRepo)
	portfolioService := service.NewPortfolioService(positionRepo, quoteService)

	// Default user so the API is usable before anyone registers
	ensureDefaultUser(ctx, userRepo)

	// Periodic portfolio valuation
	scheduler := infra.NewScheduler(userRepo, portfolioService)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start snapshot scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Initialize HTTP router
	e := echo.New()
	e.HideBanner = true

	deliveryhttp.SetupRoutes(e, &deliveryhttp.RouterConfig{
		AuthHandler:      deliveryhttp.NewAuthHandler(userRepo),
		PortfolioHandler: deliveryhttp.NewPortfolioHandler(ledgerService, portfolioService),
		AdminHandler:     deliveryhttp.NewAdminHandler(db, scheduler, quoteService),
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Stockfolio starting on %s", addr)
	log.Printf("Environment: %s", cfg.Server.Env)
	log.Printf("Quote API: %s", cfg.Quote.BaseURL)

	// Run server in goroutine
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}

// ensureDefaultUser provisions an admin user on first boot. The password
// comes from DEFAULT_ADMIN_PASSWORD; boot fails without it rather than
// shipping a well-known credential.
func ensureDefaultUser(ctx context.Context, userRepo domain.UserRepository) {
	if _, err := userRepo.GetByUsername(ctx, "admin"); err == nil {
		log.Println("[OK] Using existing admin user")
		return
	}

	password := os.Getenv("DEFAULT_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("DEFAULT_ADMIN_PASSWORD is required on first boot to create the admin user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Println("[OK] Created admin user")
}
