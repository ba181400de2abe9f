package routes

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/loadsense/internal/handlers"
	"github.com/yourorg/loadsense/internal/live"
	"github.com/yourorg/loadsense/internal/mail"
	"github.com/yourorg/loadsense/internal/middleware"
	"github.com/yourorg/loadsense/internal/token"
)

// Register wires every endpoint. Handlers receive their dependencies
// here instead of reaching for globals.
func Register(app *fiber.App, db *sql.DB, tokens *token.Issuer, mailer mail.Mailer, hub *live.Hub) {
	authHandler := handlers.NewAuthHandler(db, tokens, mailer)
	entryHandler := handlers.NewEntryHandler(db, hub)
	adminHandler := handlers.NewAdminHandler(db)
	healthHandler := handlers.NewHealthHandler(db)

	app.Get("/health", healthHandler.Check)

	// ============================================================================
	// AUTH (strict rate limiting against brute force)
	// ============================================================================
	app.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	app.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	app.Post("/admin/register", middleware.AuthRateLimiter(), authHandler.AdminRegister)
	app.Post("/admin/login", middleware.AuthRateLimiter(), authHandler.AdminLogin)
	app.Post("/forgot_password", middleware.AuthRateLimiter(), authHandler.ForgotPassword)
	app.Post("/reset_password/:token", middleware.AuthRateLimiter(), authHandler.ResetPassword)

	// ============================================================================
	// READINGS
	// ============================================================================
	app.Post("/calculate", middleware.APIRateLimiter(), entryHandler.Calculate)
	app.Get("/overview", middleware.APIRateLimiter(), entryHandler.Overview)
	app.Get("/history", middleware.APIRateLimiter(), entryHandler.History)
	app.Get("/analytics", middleware.APIRateLimiter(), entryHandler.Analytics)
	app.Get("/admin/overview", middleware.APIRateLimiter(), adminHandler.Overview)

	// ============================================================================
	// LIVE FEED (websocket broadcast of new entries)
	// ============================================================================
	app.Use("/ws/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/live", websocket.New(func(c *websocket.Conn) {
		hub.Handle(c)
	}))
}
