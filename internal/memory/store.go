package memory

import "errors"

// ErrNotFound is returned when a memory ID does not exist.
var ErrNotFound = errors.New("memory not found")

// Store defines the persistence interface for the memory bank.
type Store interface {
	// Add persists a new entry and returns it with ID and date set.
	// When the bank is over capacity the oldest entries are evicted.
	Add(category Category, content, context string) (*Entry, error)
	Get(id string) (*Entry, error)
	// List returns all entries, newest first.
	List() ([]*Entry, error)
	// ByCategory returns up to limit entries of one category, newest first.
	ByCategory(category Category, limit int) ([]*Entry, error)
	// Search returns entries whose content or context contains the query,
	// case-insensitively, newest first.
	Search(query string, limit int) ([]*Entry, error)
	UpdateContent(id, content string) error
	UpdateCategory(id string, category Category) error
	Delete(id string) error
	// PruneOlderThan removes entries older than the cutoff and returns
	// how many were removed.
	PruneOlderThan(days int) (int, error)
	Clear() error
}
