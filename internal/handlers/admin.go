package handlers

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/loadsense/internal/models"
)

// AdminHandler serves the aggregate views an admin has over its users.
type AdminHandler struct {
	db *sql.DB
}

func NewAdminHandler(db *sql.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// Overview handles GET /admin/overview: how many users reference this
// admin, their total entries, and entries from the current server-local
// calendar day.
func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	if c.Query("admin_id") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "admin_id is required"})
	}
	adminID := c.QueryInt("admin_id", 0)

	var resp models.AdminOverviewResponse

	err := h.db.QueryRow(
		`SELECT COUNT(*) FROM users WHERE admin_id = ?`, adminID,
	).Scan(&resp.UserCount)
	if err != nil {
		log.Printf("❌ Error counting users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	err = h.db.QueryRow(
		`SELECT COUNT(*) FROM entries e JOIN users u ON e.user_id = u.id WHERE u.admin_id = ?`,
		adminID,
	).Scan(&resp.TotalEntries)
	if err != nil {
		log.Printf("❌ Error counting entries: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	err = h.db.QueryRow(
		`SELECT COUNT(*) FROM entries e JOIN users u ON e.user_id = u.id WHERE u.admin_id = ? AND DATE(e.created_at) = CURDATE()`,
		adminID,
	).Scan(&resp.TodayEntries)
	if err != nil {
		log.Printf("❌ Error counting today's entries: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	return c.JSON(resp)
}
