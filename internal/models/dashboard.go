package models

import "time"

// SystemMetrics is a lightweight runtime snapshot for dashboard consumption.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	SessionsGenerated        uint64    `json:"sessions_generated"`
	ConflictsDetected        uint64    `json:"conflicts_detected"`
	CompositesComputed       uint64    `json:"composites_computed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// TermOverview aggregates scheduling and assessment state for a term.
type TermOverview struct {
	TermID           string          `json:"term_id"`
	UpcomingSessions []ClassSession  `json:"upcoming_sessions"`
	ConflictSummary  ConflictSummary `json:"conflict_summary"`
	GeneratedAt      time.Time       `json:"generated_at"`
}
