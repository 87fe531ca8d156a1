package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is the day-of-week a recurring template fires on.
type Weekday string

const (
	WeekdaySunday    Weekday = "SUNDAY"
	WeekdayMonday    Weekday = "MONDAY"
	WeekdayTuesday   Weekday = "TUESDAY"
	WeekdayWednesday Weekday = "WEDNESDAY"
	WeekdayThursday  Weekday = "THURSDAY"
	WeekdayFriday    Weekday = "FRIDAY"
	WeekdaySaturday  Weekday = "SATURDAY"
)

var weekdayIndex = map[Weekday]time.Weekday{
	WeekdaySunday:    time.Sunday,
	WeekdayMonday:    time.Monday,
	WeekdayTuesday:   time.Tuesday,
	WeekdayWednesday: time.Wednesday,
	WeekdayThursday:  time.Thursday,
	WeekdayFriday:    time.Friday,
	WeekdaySaturday:  time.Saturday,
}

// ParseWeekday normalises and validates a weekday name.
func ParseWeekday(raw string) (Weekday, error) {
	day := Weekday(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := weekdayIndex[day]; !ok {
		return "", fmt.Errorf("unknown day of week %q", raw)
	}
	return day, nil
}

// Time returns the time package equivalent of the weekday.
func (w Weekday) Time() time.Weekday {
	return weekdayIndex[w]
}

// Valid reports whether the weekday is one of the seven known values.
func (w Weekday) Valid() bool {
	_, ok := weekdayIndex[w]
	return ok
}

// MinuteOfDay parses a zero-padded "HH:MM" clock value into minutes since
// midnight. The parse is anchored, so trailing text and single-digit hours
// are rejected rather than silently truncated.
func MinuteOfDay(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ScheduleTemplate represents one weekly recurring slot for a class.
type ScheduleTemplate struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	TermID    string    `db:"term_id" json:"term_id"`
	DayOfWeek Weekday   `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Location  *string   `db:"location" json:"location,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SessionStatus tracks the lifecycle of a dated class occurrence.
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "SCHEDULED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
	SessionStatusCompleted SessionStatus = "COMPLETED"
)

// ClassSession is one dated occurrence materialized from a template.
type ClassSession struct {
	ID         string        `db:"id" json:"id"`
	ClassID    string        `db:"class_id" json:"class_id"`
	TermID     string        `db:"term_id" json:"term_id"`
	TemplateID string        `db:"template_id" json:"template_id"`
	Date       time.Time     `db:"date" json:"date"`
	StartTime  string        `db:"start_time" json:"start_time"`
	EndTime    string        `db:"end_time" json:"end_time"`
	Location   *string       `db:"location" json:"location,omitempty"`
	Status     SessionStatus `db:"status" json:"status"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

// ClassSessionFilter describes query params for listing sessions.
type ClassSessionFilter struct {
	ClassID  string
	TermID   string
	DateFrom *time.Time
	DateTo   *time.Time
	Status   string
	Page     int
	PageSize int
}

// ScheduleTemplateFilter describes query params for listing templates.
type ScheduleTemplateFilter struct {
	ClassID string
	TermID  string
}
