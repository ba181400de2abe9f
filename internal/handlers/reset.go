package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/loadsense/internal/models"
)

// mailTimeout bounds the SMTP dial-and-send during forgot_password.
const mailTimeout = 10 * time.Second

// ForgotPassword handles POST /forgot_password.
//
// The token is persisted only after the mail goes out: a dispatch
// failure leaves the user row untouched, so there is never a stored
// token nobody received.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req models.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "email required"})
	}

	var userID int64
	err := h.db.QueryRow(`SELECT id FROM users WHERE email = ?`, req.Email).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "No account with that email"})
		}
		log.Printf("❌ Error querying user for reset: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	signed, expires, err := h.tokens.Issue(req.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "failed to sign token"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), mailTimeout)
	defer cancel()
	if err := h.mailer.SendPasswordReset(ctx, req.Email, signed); err != nil {
		log.Printf("❌ Reset mail to %s failed: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Failed to send reset email"})
	}

	// Stored alongside the signature check: a later request overwrites
	// this value and thereby revokes any earlier token.
	if _, err := h.db.Exec(
		`UPDATE users SET reset_token = ?, reset_expires = ? WHERE id = ?`,
		signed, expires, userID,
	); err != nil {
		log.Printf("❌ Error storing reset token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	return c.JSON(models.MessageResponse{Message: "Reset link sent"})
}

// ResetPassword handles POST /reset_password/:token.
//
// Two checks must pass: the stateless signature/expiry on the token
// itself, and a match against the token currently stored for the user.
// The second guards against reuse of a token the server has since
// superseded or consumed.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	tokenStr := c.Params("token")

	var req models.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	if req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "password required"})
	}

	email, err := h.tokens.Verify(tokenStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid or expired token"})
	}

	var (
		userID       int64
		storedToken  sql.NullString
		storedExpiry sql.NullTime
	)
	err = h.db.QueryRow(
		`SELECT id, reset_token, reset_expires FROM users WHERE email = ?`, email,
	).Scan(&userID, &storedToken, &storedExpiry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid or expired token"})
		}
		log.Printf("❌ Error querying user for reset: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	if !storedToken.Valid || storedToken.String != tokenStr {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid or expired token"})
	}
	if !storedExpiry.Valid || time.Now().After(storedExpiry.Time) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid or expired token"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "failed to secure password"})
	}

	// Clearing the token makes it single-use.
	if _, err := h.db.Exec(
		`UPDATE users SET password_hash = ?, reset_token = NULL, reset_expires = NULL WHERE id = ?`,
		string(hash), userID,
	); err != nil {
		log.Printf("❌ Error updating password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	return c.JSON(models.MessageResponse{Message: "Password updated successfully"})
}
