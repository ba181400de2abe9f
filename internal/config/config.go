package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds everything the server reads from the environment. It is
// built once in main and handed to the components that need it, so no
// package keeps its own view of os.Getenv.
type Config struct {
	Port string

	// Secret signs password-reset tokens.
	Secret   []byte
	ResetTTL time.Duration

	// SMTP settings for the reset-mail collaborator.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// Base URL used to build reset links in outgoing mail.
	PublicURL string
}

const defaultResetTTL = time.Hour

// Load reads the configuration from env vars. It fails hard when the
// signing secret is missing in production or too short to be safe.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      envOr("PORT", "8080"),
		ResetTTL:  defaultResetTTL,
		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  587,
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		MailFrom:  envOr("MAIL_FROM", "no-reply@localhost"),
		PublicURL: envOr("PUBLIC_URL", "http://localhost:8080"),
	}

	secret := os.Getenv("RESET_SECRET")
	if secret == "" {
		if os.Getenv("ENV") == "production" || os.Getenv("ENVIRONMENT") == "production" {
			return nil, fmt.Errorf("RESET_SECRET must be set in production environment")
		}
		log.Println("⚠️ WARNING: Using default reset secret (development only)")
		secret = "dev-secret-change-me-0123456789ab"
	}
	if len(secret) < 32 {
		return nil, fmt.Errorf("RESET_SECRET must be at least 32 characters long (current: %d)", len(secret))
	}
	cfg.Secret = []byte(secret)

	if ttl := os.Getenv("RESET_TOKEN_TTL"); ttl != "" {
		dur, err := time.ParseDuration(ttl)
		if err != nil || dur <= 0 {
			log.Printf("invalid RESET_TOKEN_TTL=%q, using default %s", ttl, cfg.ResetTTL)
		} else {
			cfg.ResetTTL = dur
		}
	}

	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 {
			log.Printf("invalid SMTP_PORT=%q, using default %d", port, cfg.SMTPPort)
		} else {
			cfg.SMTPPort = p
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
