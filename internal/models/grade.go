package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ScoreMap holds raw component scores keyed by component code. Stored as
// JSONB in PostgreSQL.
type ScoreMap map[string]float64

// Value implements driver.Valuer.
func (m ScoreMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *ScoreMap) Scan(src interface{}) error {
	if src == nil {
		*m = ScoreMap{}
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported score map source %T", src)
	}
	return json.Unmarshal(raw, m)
}

// GradeComponentConfig defines one weighted component of a subject's grade.
type GradeComponentConfig struct {
	ID        string    `db:"id" json:"id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Position  int       `db:"position" json:"position"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Maximum   *float64  `db:"maximum" json:"maximum,omitempty"`
	Minimum   *float64  `db:"minimum" json:"minimum,omitempty"`
	PassScore *float64  `db:"pass_score" json:"pass_score,omitempty"`
	FailScore *float64  `db:"fail_score" json:"fail_score,omitempty"`
	Weight    float64   `db:"weight" json:"weight"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GradeStatus is the workflow state of a student grade record.
type GradeStatus string

const (
	GradeStatusDraft     GradeStatus = "DRAFT"
	GradeStatusSubmitted GradeStatus = "SUBMITTED"
	GradeStatusApproved  GradeStatus = "APPROVED"
	GradeStatusFinal     GradeStatus = "FINAL"
)

var gradeTransitions = map[GradeStatus]GradeStatus{
	GradeStatusDraft:     GradeStatusSubmitted,
	GradeStatusSubmitted: GradeStatusApproved,
	GradeStatusApproved:  GradeStatusFinal,
}

// Next returns the workflow state that follows the current one.
func (s GradeStatus) Next() (GradeStatus, bool) {
	next, ok := gradeTransitions[s]
	return next, ok
}

// StudentGradeRecord stores scores and derived grading results for one
// student in one class.
type StudentGradeRecord struct {
	ID          string      `db:"id" json:"id"`
	StudentID   string      `db:"student_id" json:"student_id"`
	ClassID     string      `db:"class_id" json:"class_id"`
	SubjectID   string      `db:"subject_id" json:"subject_id"`
	TermID      string      `db:"term_id" json:"term_id"`
	Scores      ScoreMap    `db:"scores" json:"scores"`
	Composite   *float64    `db:"composite" json:"composite"`
	LetterGrade *string     `db:"letter_grade" json:"letter_grade"`
	GPAPoints   *float64    `db:"gpa_points" json:"gpa_points"`
	Status      GradeStatus `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// GradeRecordFilter describes query params for listing grade records.
type GradeRecordFilter struct {
	StudentID string
	ClassID   string
	SubjectID string
	TermID    string
	Status    string
	Page      int
	PageSize  int
}

// ValidationWarning flags an entered score outside its configured bounds.
// Warnings are advisory; the score still participates in aggregation.
type ValidationWarning struct {
	ComponentCode string  `json:"component_code"`
	Bound         string  `json:"bound"`
	Limit         float64 `json:"limit"`
	Score         float64 `json:"score"`
	Message       string  `json:"message"`
}

// CompositeResult carries the weighted aggregate and any bound warnings.
// A nil Composite means "not yet determined", distinct from zero.
type CompositeResult struct {
	Composite *float64            `json:"composite"`
	Warnings  []ValidationWarning `json:"warnings,omitempty"`
}

// GradeScaleBand maps a composite range onto a letter grade.
type GradeScaleBand struct {
	Letter     string  `json:"letter"`
	MinPercent float64 `json:"min_percent"`
	MaxPercent float64 `json:"max_percent"`
	Points     float64 `json:"points"`
	Passing    bool    `json:"passing"`
}

// DefaultGradeScale is the institution scale, ordered highest to lowest.
var DefaultGradeScale = []GradeScaleBand{
	{Letter: "A", MinPercent: 90, MaxPercent: 100, Points: 4.0, Passing: true},
	{Letter: "B+", MinPercent: 85, MaxPercent: 90, Points: 3.5, Passing: true},
	{Letter: "B", MinPercent: 80, MaxPercent: 85, Points: 3.0, Passing: true},
	{Letter: "C+", MinPercent: 75, MaxPercent: 80, Points: 2.5, Passing: true},
	{Letter: "C", MinPercent: 70, MaxPercent: 75, Points: 2.0, Passing: true},
	{Letter: "D+", MinPercent: 65, MaxPercent: 70, Points: 1.5, Passing: true},
	{Letter: "D", MinPercent: 60, MaxPercent: 65, Points: 1.0, Passing: true},
	{Letter: "F", MinPercent: 0, MaxPercent: 60, Points: 0.0, Passing: false},
}

// GradingProgress summarises graded versus pending records for a class.
type GradingProgress struct {
	ClassID string `json:"class_id"`
	TermID  string `json:"term_id"`
	Graded  int    `json:"graded"`
	Pending int    `json:"pending"`
	Total   int    `json:"total"`
}
