package handlers

import (
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/loadsense/internal/mail"
	"github.com/yourorg/loadsense/internal/models"
	"github.com/yourorg/loadsense/internal/token"
)

// AuthHandler owns registration, login and the password-reset flow for
// both users and admins.
type AuthHandler struct {
	db     *sql.DB
	tokens *token.Issuer
	mailer mail.Mailer
}

func NewAuthHandler(db *sql.DB, tokens *token.Issuer, mailer mail.Mailer) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens, mailer: mailer}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if req.Email == "" || req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "email, username and password required"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid email"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "failed to secure password"})
	}

	// Uniqueness rides on the UNIQUE key so concurrent registrations
	// with the same email cannot both slip through.
	_, err = h.db.Exec(
		`INSERT INTO users (email, username, password_hash) VALUES (?, ?, ?)`,
		req.Email, req.Username, string(hash),
	)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{Error: "Email already exists"})
		}
		log.Printf("❌ Error inserting user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	return c.JSON(models.MessageResponse{Message: "Registered successfully"})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "email and password required"})
	}

	var (
		id           int64
		passwordHash string
	)
	err := h.db.QueryRow(`SELECT id, password_hash FROM users WHERE email = ?`, req.Email).
		Scan(&id, &passwordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Invalid credentials"})
		}
		log.Printf("❌ Error querying user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Invalid credentials"})
	}

	// No session is issued here: the client keeps the id it gets back.
	return c.JSON(models.LoginResponse{Message: "Login successful", UserID: id})
}

// AdminRegister handles POST /admin/register.
func (h *AuthHandler) AdminRegister(c *fiber.Ctx) error {
	var req models.AdminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.AdminID = strings.TrimSpace(req.AdminID)

	if req.Email == "" || req.Username == "" || req.Password == "" || req.AdminID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "email, username, password and admin_id required"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid email"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "failed to secure password"})
	}

	res, err := h.db.Exec(
		`INSERT INTO admins (email, username, admin_code, password_hash) VALUES (?, ?, ?, ?)`,
		req.Email, req.Username, req.AdminID, string(hash),
	)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			if strings.Contains(err.Error(), "admin_code") {
				return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{Error: "Admin ID already exists"})
			}
			return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{Error: "Email already exists"})
		}
		log.Printf("❌ Error inserting admin: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	adminID, _ := res.LastInsertId()
	return c.JSON(models.AdminRegisterResponse{Message: "Registered successfully", AdminID: adminID})
}

// AdminLogin handles POST /admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "email and password required"})
	}

	var (
		id           int64
		username     string
		passwordHash string
	)
	err := h.db.QueryRow(`SELECT id, username, password_hash FROM admins WHERE email = ?`, req.Email).
		Scan(&id, &username, &passwordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Invalid credentials"})
		}
		log.Printf("❌ Error querying admin: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Invalid credentials"})
	}

	return c.JSON(models.AdminLoginResponse{Message: "Login successful", AdminID: id, Username: username})
}
