package main

import (
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/yourorg/loadsense/internal/config"
	appdb "github.com/yourorg/loadsense/internal/db"
	"github.com/yourorg/loadsense/internal/live"
	"github.com/yourorg/loadsense/internal/mail"
	"github.com/yourorg/loadsense/internal/routes"
	"github.com/yourorg/loadsense/internal/token"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ CRITICAL: %v", err)
	}

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	// ============================================================================
	// DB CONNECTION
	// ============================================================================
	db := connectWithRetry()
	if err := appdb.EnsureSchema(db); err != nil {
		log.Fatalf("ensure schema error: %v", err)
	}
	log.Printf("✅ Database ready")

	tokens := token.NewIssuer(cfg.Secret, cfg.ResetTTL)
	mailer := mail.NewSMTPMailer(cfg)
	hub := live.NewHub()

	routes.Register(app, db, tokens, mailer, hub)

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\n🛑 Shutdown signal received, closing server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️  Error shutting down server: %v", err)
		}
		if err := db.Close(); err != nil {
			log.Printf("⚠️  Error closing database: %v", err)
		}
		log.Println("✅ Server closed")
		os.Exit(0)
	}()

	log.Printf("🚀 Server listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// connectWithRetry keeps trying until the database answers a ping. The
// DB container is often still starting when the server comes up.
func connectWithRetry() *sql.DB {
	for {
		db, err := appdb.Connect()
		if err == nil {
			if err = db.Ping(); err == nil {
				return db
			}
			db.Close()
		}
		log.Printf("db connect error: %v (retrying in 5s)", err)
		time.Sleep(5 * time.Second)
	}
}
