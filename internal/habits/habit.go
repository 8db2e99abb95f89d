// Package habits provides daily habit tracking with per-day check marks
// and streak statistics.
package habits

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a habit ID does not exist.
var ErrNotFound = errors.New("habit not found")

// Habit is a recurring daily practice.
type Habit struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Check marks a habit as done on one calendar day.
type Check struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	CheckedDate string    `json:"checked_date"` // YYYY-MM-DD
	CreatedAt   time.Time `json:"created_at"`
}

// DateKey renders a time as the canonical check date.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Store defines the persistence interface for habits.
type Store interface {
	Create(h *Habit) error
	Get(id string) (*Habit, error)
	// List returns all habits, newest first.
	List() ([]*Habit, error)
	// Delete removes a habit and all its checks.
	Delete(id string) error
	// ToggleCheck flips the check for a habit on one day: it inserts the
	// mark if absent and removes it if present. Returns the new state.
	ToggleCheck(habitID, date string) (checked bool, err error)
	// Checks returns all check marks for a habit, newest first.
	Checks(habitID string) ([]*Check, error)
}

func generateHabitID() string {
	u := uuid.New().String()
	return "habit_" + strings.ReplaceAll(u[:8], "-", "")
}

func generateCheckID() string {
	u := uuid.New().String()
	return "check_" + strings.ReplaceAll(u[:8], "-", "")
}
