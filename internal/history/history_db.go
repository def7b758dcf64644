package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/studiowebux/appclient/internal/migrations"
	"github.com/studiowebux/appclient/internal/render"
	"github.com/studiowebux/appclient/internal/types"
)

// DefaultLimit is the number of entries Recent returns when limit <= 0
const DefaultLimit = 50

const timestampLayout = "2006-01-02 15:04:05"

// Manager records outcomes in SQLite
type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// Outcomes arrive from concurrent handlers; one connection serializes writes
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

// DB exposes the underlying handle for read-only reporting
func (m *Manager) DB() *sql.DB {
	return m.db
}

// Entry converts an outcome into its persisted form
func Entry(out types.Outcome) types.HistoryEntry {
	entry := types.HistoryEntry{
		RequestID:    out.ID,
		Timestamp:    time.Now().Local().Format(timestampLayout),
		Control:      out.Control,
		Method:       out.Request.Method,
		URL:          out.URL,
		Status:       out.Status,
		Duration:     out.Duration.Milliseconds(),
		ResponseSize: out.Size,
	}
	if out.Payload != nil {
		if body, err := render.Format(*out.Payload); err == nil {
			entry.ResponseBody = body
		}
	}
	if out.Err != nil {
		entry.Error = out.Err.Error()
	}
	return entry
}

// Record saves an outcome
func (m *Manager) Record(out types.Outcome) error {
	return m.Save(Entry(out))
}

// Recorder returns an outcome hook that records into mgr and logs failures.
// A nil manager yields a nil hook.
func Recorder(mgr *Manager, logger *zerolog.Logger) func(types.Outcome) {
	if mgr == nil {
		return nil
	}
	return func(out types.Outcome) {
		if err := mgr.Record(out); err != nil && logger != nil {
			logger.Warn().Err(err).Str("request_id", out.ID).Msg("failed to record history")
		}
	}
}

func (m *Manager) Save(entry types.HistoryEntry) error {
	query := `
		INSERT INTO history (
			request_id, timestamp, control, method, url, status,
			response_body, duration_ms, response_size, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().Local().Format(timestampLayout)
	}

	_, err := m.db.Exec(query,
		entry.RequestID,
		entry.Timestamp,
		entry.Control,
		entry.Method,
		entry.URL,
		entry.Status,
		entry.ResponseBody,
		entry.Duration,
		entry.ResponseSize,
		entry.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// Recent returns the newest entries first
func (m *Manager) Recent(limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `
		SELECT id, request_id, timestamp, control, method, url, status,
		       response_body, duration_ms, response_size, error
		FROM history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

// LoadForControl returns the entries produced by one control, newest first
func (m *Manager) LoadForControl(control string) ([]types.HistoryEntry, error) {
	query := `
		SELECT id, request_id, timestamp, control, method, url, status,
		       response_body, duration_ms, response_size, error
		FROM history
		WHERE control = ?
		ORDER BY timestamp DESC, id DESC
	`

	rows, err := m.db.Query(query, control)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for control: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

func (m *Manager) scanEntries(rows *sql.Rows) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry

	for rows.Next() {
		var entry types.HistoryEntry
		var timestamp string
		var responseBody sql.NullString
		var errorMsg sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&timestamp,
			&entry.Control,
			&entry.Method,
			&entry.URL,
			&entry.Status,
			&responseBody,
			&entry.Duration,
			&entry.ResponseSize,
			&errorMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		// Parse timestamp as local time
		parsedTime, err := time.ParseInLocation(timestampLayout, timestamp, time.Local)
		if err != nil {
			parsedTime, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				parsedTime = time.Now()
			}
		}

		entry.Timestamp = parsedTime.Format(time.RFC3339)
		entry.ResponseBody = responseBody.String
		entry.Error = errorMsg.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM history")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count)
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
