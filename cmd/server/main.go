package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/http/middleware"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/http/routes"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/config"

	_ "github.com/Mentor-Ntech/afriDaily/docs" // Swagger docs
)

// @title AfriDaily API
// @version 1.0
// @description Community finance backend: stablecoin wallet, credit scoring, P2P/pool lending, payment streams and Ajo/Esusu savings circles.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@afridaily.app

// @host api.afridaily.app
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database unless the in-memory store is selected
	var db *gorm.DB
	if !cfg.UseMemoryStore() {
		db, err = config.ConnectDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer config.CloseDatabase()

		if err := models.AutoMigrate(db); err != nil {
			log.Fatalf("❌ Failed to auto migrate: %v", err)
		}
		log.Println("✅ Database migration completed")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AfriDaily API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (wires repositories, services and the seeder)
	cronService := routes.Setup(app, db, cfg)

	// Background jobs: overdue loan scan, refresh token purge
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
