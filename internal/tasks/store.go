package tasks

import "errors"

// ErrNotFound is returned when a task ID does not exist.
var ErrNotFound = errors.New("task not found")

// Store defines the persistence interface for tasks.
type Store interface {
	Create(t *Task) error
	Get(id string) (*Task, error)
	// List returns all tasks, open first, then by creation time descending.
	List() ([]*Task, error)
	// ListOpen returns tasks that are not completed.
	ListOpen() ([]*Task, error)
	Update(t *Task) error
	// SetCompleted toggles the completion state, maintaining CompletedAt.
	SetCompleted(id string, completed bool) error
	Delete(id string) error
}
