package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the database file created inside the history directory.
const FileName = "history.db"

// HistoryDB is the SQLite-backed record of recent URL checks.
// It is safe for concurrent use.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
	limit  int
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool

	// Limit is the number of entries retained. Zero or less keeps everything.
	Limit int
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		Limit:             10,
	}
}

// Entry is one recorded check.
type Entry struct {
	// ID is a random UUID assigned by Record.
	ID string `json:"id"`

	URL string `json:"url"`

	// URLHash is the hex SHA3-256 of URL, used to look up repeated checks
	// without comparing long strings.
	URLHash string `json:"url_hash"`

	Label string  `json:"label"`
	Score float64 `json:"score"`

	CheckedAt time.Time `json:"checked_at"`
}

// HashURL returns the hex-encoded SHA3-256 digest of u.
func HashURL(u string) string {
	sum := sha3.Sum256([]byte(u))
	return hex.EncodeToString(sum[:])
}

// Open opens or creates the history database in dir.
func Open(dir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &HistoryDB{db: db, dbPath: dbPath, limit: opts.Limit}

	ctx := context.Background()
	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := h.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return h, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string { return h.dbPath }

// Limit returns the retention limit; zero or less means unbounded.
func (h *HistoryDB) Limit() int { return h.limit }

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		url_hash TEXT NOT NULL,
		label TEXT NOT NULL,
		score REAL NOT NULL,
		checked_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_url_hash ON history(url_hash);
	`
	_, err := h.db.ExecContext(ctx, schema)
	return err
}

// Record stores e and trims the table to the retention limit.
// ID, URLHash and CheckedAt are filled in when empty.
func (h *HistoryDB) Record(ctx context.Context, e *Entry) error {
	if e == nil || e.URL == "" || e.Label == "" {
		return ErrInvalidEntry
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.URLHash == "" {
		e.URLHash = HashURL(e.URL)
	}
	if e.CheckedAt.IsZero() {
		e.CheckedAt = time.Now()
	}
	e.CheckedAt = e.CheckedAt.UTC()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (id, url, url_hash, label, score, checked_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.URL, e.URLHash, e.Label, e.Score, e.CheckedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	if h.limit > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM history WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)`,
			h.limit,
		)
		if err != nil {
			return fmt.Errorf("failed to trim history: %w", err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit entries, newest first.
// A limit of zero or less returns every retained entry.
func (h *HistoryDB) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, url, url_hash, label, score, checked_at FROM history ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			checkedAt string
		)
		if err := rows.Scan(&e.ID, &e.URL, &e.URLHash, &e.Label, &e.Score, &checkedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.CheckedAt = parseTimestamp(checkedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Lookup returns the most recent entry for rawURL, or nil when the URL has
// not been checked within the retained history.
func (h *HistoryDB) Lookup(ctx context.Context, rawURL string) (*Entry, error) {
	var (
		e         Entry
		checkedAt string
	)
	err := h.db.QueryRowContext(ctx,
		`SELECT id, url, url_hash, label, score, checked_at FROM history
		 WHERE url_hash = ? ORDER BY seq DESC LIMIT 1`,
		HashURL(rawURL),
	).Scan(&e.ID, &e.URL, &e.URLHash, &e.Label, &e.Score, &checkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up history entry: %w", err)
	}
	e.CheckedAt = parseTimestamp(checkedAt)
	return &e, nil
}

// Count returns the number of retained entries.
func (h *HistoryDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Clear deletes every entry and returns how many were removed.
func (h *HistoryDB) Clear(ctx context.Context) (int64, error) {
	res, err := h.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}

// timestampFormats are tried in order by parseTimestamp.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time when s matches no known format.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
