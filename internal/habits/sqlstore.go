package habits

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS habits (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	color       TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS habit_checks (
	id           TEXT PRIMARY KEY,
	habit_id     TEXT NOT NULL,
	checked_date TEXT NOT NULL,
	created_at   DATETIME NOT NULL,
	UNIQUE(habit_id, checked_date)
);
CREATE INDEX IF NOT EXISTS idx_habit_checks_habit ON habit_checks(habit_id);
`

// SQLiteStore persists habits and their check marks in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and
// ensures the habits schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	return NewSQLiteStoreFromDB(db)
}

// NewSQLiteStoreFromDB wraps an existing connection, ensuring the schema.
func NewSQLiteStoreFromDB(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create habits schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Create persists a new habit, assigning ID and timestamps.
func (s *SQLiteStore) Create(h *Habit) error {
	if h.ID == "" {
		h.ID = generateHabitID()
	}
	now := time.Now().UTC()
	h.CreatedAt = now
	h.UpdatedAt = now

	_, err := s.db.Exec(`INSERT INTO habits (id, title, description, color, created_at, updated_at)
		VALUES (?,?,?,?,?,?)`,
		h.ID, h.Title, h.Description, h.Color, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert habit: %w", err)
	}
	return nil
}

// Get retrieves a habit by ID.
func (s *SQLiteStore) Get(id string) (*Habit, error) {
	row := s.db.QueryRow(`SELECT id, title, description, color, created_at, updated_at
		FROM habits WHERE id = ?`, id)
	var h Habit
	err := row.Scan(&h.ID, &h.Title, &h.Description, &h.Color, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// List returns all habits, newest first.
func (s *SQLiteStore) List() ([]*Habit, error) {
	rows, err := s.db.Query(`SELECT id, title, description, color, created_at, updated_at
		FROM habits ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	var out []*Habit
	for rows.Next() {
		var h Habit
		if err := rows.Scan(&h.ID, &h.Title, &h.Description, &h.Color, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

// Delete removes a habit and all its checks.
func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, err := s.db.Exec(`DELETE FROM habit_checks WHERE habit_id = ?`, id); err != nil {
		return fmt.Errorf("delete habit checks: %w", err)
	}
	return nil
}

// ToggleCheck flips the check for one day, returning the new state.
func (s *SQLiteStore) ToggleCheck(habitID, date string) (bool, error) {
	if _, err := s.Get(habitID); err != nil {
		return false, err
	}

	res, err := s.db.Exec(`DELETE FROM habit_checks WHERE habit_id = ? AND checked_date = ?`,
		habitID, date)
	if err != nil {
		return false, fmt.Errorf("toggle habit check: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil // was checked, now cleared
	}

	_, err = s.db.Exec(`INSERT INTO habit_checks (id, habit_id, checked_date, created_at)
		VALUES (?,?,?,?)`,
		generateCheckID(), habitID, date, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert habit check: %w", err)
	}
	return true, nil
}

// Checks returns all check marks for a habit, newest first.
func (s *SQLiteStore) Checks(habitID string) ([]*Check, error) {
	rows, err := s.db.Query(`SELECT id, habit_id, checked_date, created_at
		FROM habit_checks WHERE habit_id = ? ORDER BY checked_date DESC`, habitID)
	if err != nil {
		return nil, fmt.Errorf("query habit checks: %w", err)
	}
	defer rows.Close()

	var out []*Check
	for rows.Next() {
		var c Check
		if err := rows.Scan(&c.ID, &c.HabitID, &c.CheckedDate, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

var _ Store = (*SQLiteStore)(nil)
