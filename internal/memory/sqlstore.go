package memory

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS memories (
	id       TEXT PRIMARY KEY,
	date     DATETIME NOT NULL,
	category TEXT NOT NULL,
	content  TEXT NOT NULL,
	context  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_memories_category ON memories(category);
`

// DefaultMaxEntries caps the bank; the oldest entries are evicted first.
const DefaultMaxEntries = 100

// SQLiteStore persists memory entries in a SQLite database.
type SQLiteStore struct {
	db         *sql.DB
	maxEntries int
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the memories table exists.
func NewSQLiteStore(dbPath string, maxEntries int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	return newStore(db, maxEntries)
}

// NewSQLiteStoreFromDB wraps an existing connection, ensuring the schema.
func NewSQLiteStoreFromDB(db *sql.DB, maxEntries int) (*SQLiteStore, error) {
	return newStore(db, maxEntries)
}

func newStore(db *sql.DB, maxEntries int) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create memories schema: %w", err)
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &SQLiteStore{db: db, maxEntries: maxEntries}, nil
}

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Add persists a new entry, evicting the oldest when over capacity.
func (s *SQLiteStore) Add(category Category, content, context string) (*Entry, error) {
	e := &Entry{
		ID:       generateMemoryID(),
		Date:     time.Now().UTC(),
		Category: category,
		Content:  content,
		Context:  context,
	}

	_, err := s.db.Exec(`INSERT INTO memories (id, date, category, content, context) VALUES (?,?,?,?,?)`,
		e.ID, e.Date, string(e.Category), e.Content, e.Context)
	if err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}

	// Evict beyond the cap, oldest first.
	_, err = s.db.Exec(`DELETE FROM memories WHERE id IN (
		SELECT id FROM memories ORDER BY date DESC LIMIT -1 OFFSET ?)`, s.maxEntries)
	if err != nil {
		return nil, fmt.Errorf("evict memories: %w", err)
	}

	return e, nil
}

// Get retrieves an entry by ID.
func (s *SQLiteStore) Get(id string) (*Entry, error) {
	row := s.db.QueryRow(`SELECT id, date, category, content, context FROM memories WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// List returns all entries, newest first.
func (s *SQLiteStore) List() ([]*Entry, error) {
	return s.query(`SELECT id, date, category, content, context FROM memories ORDER BY date DESC`)
}

// ByCategory returns up to limit entries of one category, newest first.
func (s *SQLiteStore) ByCategory(category Category, limit int) ([]*Entry, error) {
	return s.query(`SELECT id, date, category, content, context FROM memories
		WHERE category = ? ORDER BY date DESC LIMIT ?`, string(category), limit)
}

// Search returns entries matching the query in content or context.
func (s *SQLiteStore) Search(query string, limit int) ([]*Entry, error) {
	like := "%" + strings.ToLower(query) + "%"
	return s.query(`SELECT id, date, category, content, context FROM memories
		WHERE lower(content) LIKE ? OR lower(context) LIKE ?
		ORDER BY date DESC LIMIT ?`, like, like, limit)
}

// UpdateContent rewrites an entry's content and refreshes its date.
func (s *SQLiteStore) UpdateContent(id, content string) error {
	res, err := s.db.Exec(`UPDATE memories SET content = ?, date = ? WHERE id = ?`,
		content, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update memory content: %w", err)
	}
	return checkAffected(res, id)
}

// UpdateCategory reassigns an entry's category, keeping its date.
func (s *SQLiteStore) UpdateCategory(id string, category Category) error {
	res, err := s.db.Exec(`UPDATE memories SET category = ? WHERE id = ?`, string(category), id)
	if err != nil {
		return fmt.Errorf("update memory category: %w", err)
	}
	return checkAffected(res, id)
}

// Delete removes an entry.
func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	return checkAffected(res, id)
}

// PruneOlderThan removes entries older than the given number of days.
func (s *SQLiteStore) PruneOlderThan(days int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	res, err := s.db.Exec(`DELETE FROM memories WHERE date < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune memories: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Clear removes all entries.
func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM memories`)
	if err != nil {
		return fmt.Errorf("clear memories: %w", err)
	}
	return nil
}

func (s *SQLiteStore) query(q string, args ...any) ([]*Entry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func checkAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var category string
	if err := row.Scan(&e.ID, &e.Date, &category, &e.Content, &e.Context); err != nil {
		return nil, err
	}
	e.Category = Category(category)
	return &e, nil
}

var _ Store = (*SQLiteStore)(nil)
