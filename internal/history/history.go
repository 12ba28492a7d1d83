// Package history keeps a local SQLite log of API exchanges. It records
// metadata only, never request or response bodies.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/fitadmin/internal/migrations"
	"github.com/studiowebux/fitadmin/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05.000"

// Entry is a stored exchange
type Entry struct {
	ID int64 `json:"id" yaml:"id"`
	types.Exchange
}

// Filter narrows List results
type Filter struct {
	Limit      int
	FailedOnly bool
	Path       string // substring match
}

type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// sqlite3 allows one writer; concurrent batch uploads record in parallel
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Record stores one exchange
func (m *Manager) Record(ex types.Exchange) error {
	ts := ex.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var errMsg sql.NullString
	if ex.Error != "" {
		errMsg = sql.NullString{String: ex.Error, Valid: true}
	}

	_, err := m.db.Exec(`
		INSERT INTO exchanges (request_id, timestamp, method, path, status, shape, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ex.RequestID,
		ts.UTC().Format(timestampLayout),
		ex.Method,
		ex.Path,
		ex.Status,
		ex.Shape,
		ex.DurationMs,
		errMsg,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}
	return nil
}

// List returns entries newest first
func (m *Manager) List(f Filter) ([]Entry, error) {
	query := `
		SELECT id, request_id, timestamp, method, path, status, shape, duration_ms, error
		FROM exchanges
		WHERE (? = 0 OR error IS NOT NULL)
		  AND (? = '' OR path LIKE '%' || ? || '%')
		ORDER BY timestamp DESC, id DESC
	`
	args := []any{boolInt(f.FailedOnly), f.Path, f.Path}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Get returns the entry for a request id
func (m *Manager) Get(requestID string) (*Entry, error) {
	rows, err := m.db.Query(`
		SELECT id, request_id, timestamp, method, path, status, shape, duration_ms, error
		FROM exchanges WHERE request_id = ? LIMIT 1
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history entry: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no history entry for request %s", requestID)
	}
	return &entries[0], nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	entries := []Entry{}

	for rows.Next() {
		var (
			e         Entry
			timestamp string
			errorMsg  sql.NullString
		)
		if err := rows.Scan(
			&e.ID,
			&e.RequestID,
			&timestamp,
			&e.Method,
			&e.Path,
			&e.Status,
			&e.Shape,
			&e.DurationMs,
			&errorMsg,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		parsed, err := time.ParseInLocation(timestampLayout, timestamp, time.UTC)
		if err != nil {
			// the driver may hand DATETIME columns back as RFC3339
			parsed, err = time.Parse(time.RFC3339Nano, timestamp)
			if err != nil {
				parsed = time.Time{}
			}
		}
		e.Timestamp = parsed.Local()
		e.Error = errorMsg.String

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM exchanges")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *Manager) Delete(id int64) error {
	_, err := m.db.Exec("DELETE FROM exchanges WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM exchanges").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
