package models

import "time"

// ExamStatus tracks an examination slot's lifecycle.
type ExamStatus string

const (
	ExamStatusScheduled ExamStatus = "SCHEDULED"
	ExamStatusCancelled ExamStatus = "CANCELLED"
	ExamStatusCompleted ExamStatus = "COMPLETED"
)

// ExaminationSlot is a scheduled exam sitting for a class.
type ExaminationSlot struct {
	ID        string     `db:"id" json:"id"`
	ClassID   string     `db:"class_id" json:"class_id"`
	TermID    string     `db:"term_id" json:"term_id"`
	ExamType  string     `db:"exam_type" json:"exam_type"`
	Date      time.Time  `db:"date" json:"date"`
	StartTime string     `db:"start_time" json:"start_time"`
	EndTime   string     `db:"end_time" json:"end_time"`
	Status    ExamStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// ExamSlotFilter describes query params for listing examination slots.
type ExamSlotFilter struct {
	TermID   string
	ClassID  string
	Status   string
	Page     int
	PageSize int
}

// ConflictKind distinguishes the two detection passes.
type ConflictKind string

const (
	ConflictKindTimeOverlap ConflictKind = "time_overlap"
	ConflictKindSameClass   ConflictKind = "same_class"
)

// ConflictSeverity rates how serious a scheduling conflict is.
type ConflictSeverity string

const (
	SeverityCritical ConflictSeverity = "critical"
	SeverityHigh     ConflictSeverity = "high"
	SeverityMedium   ConflictSeverity = "medium"
	SeverityLow      ConflictSeverity = "low"
)

// ConflictRecord is a derived view over two examination slots. It is never
// persisted; every report is recomputed from current slot data.
type ConflictRecord struct {
	FirstSlotID    string           `json:"first_slot_id"`
	SecondSlotID   string           `json:"second_slot_id"`
	Kind           ConflictKind     `json:"kind"`
	Severity       ConflictSeverity `json:"severity"`
	OverlapMinutes int              `json:"overlap_minutes"`
	Date           time.Time        `json:"date"`
	ClassID        string           `json:"class_id,omitempty"`
}

// ConflictSummary aggregates conflict counts by severity for dashboards.
type ConflictSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// ConflictReport bundles records with their severity summary.
type ConflictReport struct {
	TermID     string           `json:"term_id"`
	Conflicts  []ConflictRecord `json:"conflicts"`
	Summary    ConflictSummary  `json:"summary"`
	ComputedAt time.Time        `json:"computed_at"`
}
