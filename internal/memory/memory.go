// Package memory provides the long-term memory bank for Zenith: storage
// of insights extracted from conversation, and the extraction heuristics
// that produce them.
package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies a memory entry.
type Category string

const (
	CategoryInsight      Category = "insight"
	CategoryGoal         Category = "goal"
	CategoryChallenge    Category = "challenge"
	CategoryProgress     Category = "progress"
	CategoryLesson       Category = "lesson"
	CategoryBreakthrough Category = "breakthrough"
	CategoryDecision     Category = "decision"
)

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryInsight, CategoryGoal, CategoryChallenge, CategoryProgress,
		CategoryLesson, CategoryBreakthrough, CategoryDecision:
		return true
	}
	return false
}

// Entry is a persisted memory bank record.
type Entry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Category Category  `json:"category"`
	Content  string    `json:"content"`
	Context  string    `json:"context,omitempty"`
}

// generateMemoryID creates a unique memory identifier.
func generateMemoryID() string {
	u := uuid.New().String()
	return "mem_" + strings.ReplaceAll(u[:8], "-", "")
}
