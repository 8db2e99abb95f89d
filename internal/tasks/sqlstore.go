package tasks

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	deadline     DATETIME,
	priority     TEXT NOT NULL DEFAULT 'normal',
	completed    INTEGER NOT NULL DEFAULT 0,
	completed_at DATETIME,
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);
`

// SQLiteStore persists tasks in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the tasks table exists. The caller is responsible for calling Close.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tasks schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreFromDB wraps an existing connection, ensuring the schema.
// Used when tasks, habits, and memories share one database file.
func NewSQLiteStoreFromDB(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create tasks schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Create persists a new task, assigning ID and timestamps.
func (s *SQLiteStore) Create(t *Task) error {
	if t.ID == "" {
		t.ID = GenerateTaskID()
	}
	if t.Priority == "" {
		t.Priority = PriorityNormal
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO tasks
			(id, title, description, deadline, priority, completed, completed_at, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		t.ID, t.Title, t.Description, nullTime(t.Deadline), string(t.Priority),
		boolInt(t.Completed), nullTime(t.CompletedAt), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Get retrieves a task by ID.
func (s *SQLiteStore) Get(id string) (*Task, error) {
	row := s.db.QueryRow(`SELECT id, title, description, deadline, priority, completed, completed_at, created_at, updated_at FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t, err
}

// List returns all tasks, open first, newest first within each group.
func (s *SQLiteStore) List() ([]*Task, error) {
	return s.list(`SELECT id, title, description, deadline, priority, completed, completed_at, created_at, updated_at
		FROM tasks ORDER BY completed ASC, created_at DESC`)
}

// ListOpen returns tasks that are not completed, newest first.
func (s *SQLiteStore) ListOpen() ([]*Task, error) {
	return s.list(`SELECT id, title, description, deadline, priority, completed, completed_at, created_at, updated_at
		FROM tasks WHERE completed = 0 ORDER BY created_at DESC`)
}

func (s *SQLiteStore) list(query string) ([]*Task, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var out []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update saves changes to an existing task, refreshing UpdatedAt.
func (s *SQLiteStore) Update(t *Task) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE tasks SET
			title = ?, description = ?, deadline = ?, priority = ?,
			completed = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, nullTime(t.Deadline), string(t.Priority),
		boolInt(t.Completed), nullTime(t.CompletedAt), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return checkAffected(res, t.ID)
}

// SetCompleted toggles the completion state of a task.
func (s *SQLiteStore) SetCompleted(id string, completed bool) error {
	now := time.Now().UTC()
	var completedAt *time.Time
	if completed {
		completedAt = &now
	}
	res, err := s.db.Exec(`UPDATE tasks SET completed = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		boolInt(completed), nullTime(completedAt), now, id)
	if err != nil {
		return fmt.Errorf("set completed: %w", err)
	}
	return checkAffected(res, id)
}

// Delete removes a task.
func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return checkAffected(res, id)
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

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var deadline, completedAt sql.NullTime
	var completed int
	var priority string

	err := row.Scan(&t.ID, &t.Title, &t.Description, &deadline, &priority,
		&completed, &completedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.Priority = Priority(priority)
	t.Completed = completed != 0
	if deadline.Valid {
		d := deadline.Time
		t.Deadline = &d
	}
	if completedAt.Valid {
		c := completedAt.Time
		t.CompletedAt = &c
	}
	return &t, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Store = (*SQLiteStore)(nil)
