package models

import "time"

// Entry is one persisted sensor reading plus its derived ideal weight.
// Entries are immutable once written.
type Entry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Load        float64   `json:"load"`
	Temperature float64   `json:"temperature"`
	Pressure    float64   `json:"pressure"`
	Hydraulic   float64   `json:"hydraulic"`
	IdealWeight float64   `json:"ideal_weight"`
	CreatedAt   time.Time `json:"-"`
}

// CalculateRequest carries one reading submission. Pointer fields so a
// missing input can be told apart from a literal zero.
type CalculateRequest struct {
	UserID      *int64   `json:"user_id"`
	Load        *float64 `json:"load"`
	Temperature *float64 `json:"temperature"`
	Pressure    *float64 `json:"pressure"`
	Hydraulic   *float64 `json:"hydraulic"`
}

// CalculateResponse returns the derived value for the submitted reading.
type CalculateResponse struct {
	IdealWeight float64 `json:"ideal_weight"`
}

// OverviewResponse summarizes a user's entries.
type OverviewResponse struct {
	Total          int     `json:"total"`
	AvgLoad        float64 `json:"avg_load"`
	AvgIdealWeight float64 `json:"avg_ideal_weight"`
}

// HistoryEntry is one row of /history with a formatted timestamp.
type HistoryEntry struct {
	Timestamp   string  `json:"timestamp"`
	Load        float64 `json:"load"`
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	Hydraulic   float64 `json:"hydraulic"`
	IdealWeight float64 `json:"ideal_weight"`
}

// AnalyticsResponse reshapes a user's entries into chartable pair lists,
// each pair being [input, ideal_weight], oldest entry first.
type AnalyticsResponse struct {
	LoadVsWeight      [][2]float64 `json:"load_vs_weight"`
	TempVsWeight      [][2]float64 `json:"temp_vs_weight"`
	PressureVsWeight  [][2]float64 `json:"pressure_vs_weight"`
	HydraulicVsWeight [][2]float64 `json:"hydraulic_vs_weight"`
}

// AdminOverviewResponse aggregates activity across an admin's users.
type AdminOverviewResponse struct {
	UserCount    int `json:"user_count"`
	TotalEntries int `json:"total_entries"`
	TodayEntries int `json:"today_entries"`
}
