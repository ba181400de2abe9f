package handlers

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/loadsense/internal/calc"
	"github.com/yourorg/loadsense/internal/live"
	"github.com/yourorg/loadsense/internal/models"
)

const timestampFormat = "2006-01-02 15:04:05"

// EntryHandler owns reading submission and the per-user views over
// stored entries.
type EntryHandler struct {
	db  *sql.DB
	hub *live.Hub
}

func NewEntryHandler(db *sql.DB, hub *live.Hub) *EntryHandler {
	return &EntryHandler{db: db, hub: hub}
}

// Calculate handles POST /calculate: derives the ideal weight, stores
// the entry and returns the value. The derived value is always computed
// here, never taken from the client.
func (h *EntryHandler) Calculate(c *fiber.Ctx) error {
	var req models.CalculateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	if req.UserID == nil || req.Load == nil || req.Temperature == nil || req.Pressure == nil || req.Hydraulic == nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "user_id, load, temperature, pressure and hydraulic are required",
		})
	}

	idealWeight := calc.IdealWeight(*req.Load, *req.Temperature, *req.Pressure, *req.Hydraulic)
	createdAt := time.Now()

	_, err := h.db.Exec(
		"INSERT INTO entries (user_id, `load`, temperature, pressure, hydraulic, ideal_weight, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		*req.UserID, *req.Load, *req.Temperature, *req.Pressure, *req.Hydraulic, idealWeight, createdAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "foreign key constraint") {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "unknown user_id"})
		}
		log.Printf("❌ Error inserting entry: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	if h.hub != nil {
		h.hub.PublishEntry(*req.UserID, idealWeight, createdAt)
	}

	return c.JSON(models.CalculateResponse{IdealWeight: idealWeight})
}

// Overview handles GET /overview: entry count and 2dp averages for one
// user, all zeros when no entries exist.
func (h *EntryHandler) Overview(c *fiber.Ctx) error {
	userID := c.QueryInt("user_id", 0)

	var (
		total          int
		avgLoad        float64
		avgIdealWeight float64
	)
	// COALESCE guards the zero-entry case: AVG over no rows is NULL.
	err := h.db.QueryRow(
		"SELECT COUNT(*), COALESCE(AVG(`load`), 0), COALESCE(AVG(ideal_weight), 0) FROM entries WHERE user_id = ?",
		userID,
	).Scan(&total, &avgLoad, &avgIdealWeight)
	if err != nil {
		log.Printf("❌ Error aggregating entries: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}

	return c.JSON(models.OverviewResponse{
		Total:          total,
		AvgLoad:        calc.Round2(avgLoad),
		AvgIdealWeight: calc.Round2(avgIdealWeight),
	})
}

// History handles GET /history: all entries for a user, newest first.
func (h *EntryHandler) History(c *fiber.Ctx) error {
	if c.Query("user_id") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "user_id is required"})
	}
	userID := c.QueryInt("user_id", 0)

	rows, err := h.db.Query(
		"SELECT created_at, `load`, temperature, pressure, hydraulic, ideal_weight FROM entries WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		log.Printf("❌ Error querying history: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}
	defer rows.Close()

	history := []models.HistoryEntry{}
	for rows.Next() {
		var (
			createdAt time.Time
			e         models.HistoryEntry
		)
		if err := rows.Scan(&createdAt, &e.Load, &e.Temperature, &e.Pressure, &e.Hydraulic, &e.IdealWeight); err != nil {
			continue
		}
		e.Timestamp = createdAt.Format(timestampFormat)
		history = append(history, e)
	}

	return c.JSON(history)
}

// Analytics handles GET /analytics: entries reshaped into chartable
// [input, ideal_weight] pair lists, oldest first.
func (h *EntryHandler) Analytics(c *fiber.Ctx) error {
	userID := c.QueryInt("user_id", 0)

	rows, err := h.db.Query(
		"SELECT `load`, temperature, pressure, hydraulic, ideal_weight FROM entries WHERE user_id = ? ORDER BY created_at ASC",
		userID,
	)
	if err != nil {
		log.Printf("❌ Error querying analytics: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}
	defer rows.Close()

	resp := models.AnalyticsResponse{
		LoadVsWeight:      [][2]float64{},
		TempVsWeight:      [][2]float64{},
		PressureVsWeight:  [][2]float64{},
		HydraulicVsWeight: [][2]float64{},
	}
	for rows.Next() {
		var load, temperature, pressure, hydraulic, idealWeight float64
		if err := rows.Scan(&load, &temperature, &pressure, &hydraulic, &idealWeight); err != nil {
			continue
		}
		resp.LoadVsWeight = append(resp.LoadVsWeight, [2]float64{load, idealWeight})
		resp.TempVsWeight = append(resp.TempVsWeight, [2]float64{temperature, idealWeight})
		resp.PressureVsWeight = append(resp.PressureVsWeight, [2]float64{pressure, idealWeight})
		resp.HydraulicVsWeight = append(resp.HydraulicVsWeight, [2]float64{hydraulic, idealWeight})
	}

	return c.JSON(resp)
}
