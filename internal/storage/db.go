package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// Store handles SQLite database operations for meeting records and the
// per-date rollup.
type Store struct {
	db *sql.DB
}

// NewStore opens the database and bootstraps the schema.
func NewStore(dbPath string) (*Store, error) {
	dsn := dbPath
	if !strings.Contains(dsn, "?") {
		// Applied per connection, so concurrent writers wait instead of
		// failing with SQLITE_BUSY.
		dsn += "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS meeting_records (
		id TEXT PRIMARY KEY,
		recording_date TEXT NOT NULL,
		recording_datetime DATETIME NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		day INTEGER NOT NULL,
		day_of_week TEXT NOT NULL,
		speaker_name TEXT NOT NULL,
		group_number TEXT NOT NULL,
		person_met TEXT NOT NULL,
		location TEXT NOT NULL,
		full_transcription TEXT NOT NULL,
		recording_duration TEXT NOT NULL,
		status TEXT NOT NULL,
		processing_status TEXT NOT NULL,
		validation_score REAL NOT NULL,
		audio_file_url TEXT,
		synced_to_sheets INTEGER NOT NULL DEFAULT 0,
		sheets_row_id TEXT,
		sheets_last_sync DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_recording_date ON meeting_records(recording_date);
	CREATE INDEX IF NOT EXISTS idx_records_group_number ON meeting_records(group_number);
	CREATE INDEX IF NOT EXISTS idx_records_synced ON meeting_records(synced_to_sheets);
	CREATE INDEX IF NOT EXISTS idx_records_status ON meeting_records(status);

	CREATE TABLE IF NOT EXISTS daily_statistics (
		stat_date TEXT PRIMARY KEY,
		total_recordings INTEGER NOT NULL,
		successful_recordings INTEGER NOT NULL,
		failed_recordings INTEGER NOT NULL,
		unique_groups INTEGER NOT NULL,
		unique_speakers INTEGER NOT NULL,
		average_duration REAL NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
