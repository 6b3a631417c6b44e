package quota

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// refreshFlagKey signals the home feed to re-fetch after a challenge
// refresh performed from a different screen.
const refreshFlagKey = "should_refresh_daily_challenge"

// Store is the device-local key-value store behind the daily counters.
// Values are strings; an absent key reads back as "".
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// SQLiteStore keeps the counters in a single local SQLite file, one row
// per key.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create quota store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open quota store: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize quota store schema: %w", err)
	}

	return &SQLiteStore{path: path, db: db}, nil
}

func (s *SQLiteStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

func (s *SQLiteStore) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SetRefreshFlag marks that the daily challenge was refreshed elsewhere.
func SetRefreshFlag(store Store) error {
	return store.Set(refreshFlagKey, "1")
}

// ConsumeRefreshFlag reads and clears the refresh signal in one step.
func ConsumeRefreshFlag(store Store) (bool, error) {
	value, err := store.Get(refreshFlagKey)
	if err != nil {
		return false, err
	}
	if value == "" {
		return false, nil
	}
	if err := store.Delete(refreshFlagKey); err != nil {
		return false, err
	}
	return true, nil
}
