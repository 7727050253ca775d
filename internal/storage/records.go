package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/types"
)

const recordColumns = `id, recording_date, recording_datetime, year, month, day, day_of_week,
	speaker_name, group_number, person_met, location, full_transcription, recording_duration,
	status, processing_status, validation_score, audio_file_url, synced_to_sheets,
	sheets_row_id, sheets_last_sync, created_at, updated_at`

// Columns the list endpoint may sort by. Anything else falls back to the
// canonical date key.
var sortColumns = map[string]string{
	"recordingDate": "recording_date",
	"createdAt":     "created_at",
	"speakerName":   "speaker_name",
	"groupNumber":   "group_number",
	"status":        "status",
}

// CreateRecord inserts a new meeting record.
func (s *Store) CreateRecord(ctx context.Context, r *types.MeetingRecord) error {
	query := `
	INSERT INTO meeting_records (` + recordColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.RecordingDate, r.RecordingDateTime, r.Year, r.Month, r.Day, r.DayOfWeek,
		r.SpeakerName, r.GroupNumber, r.PersonMet, r.Location, r.FullTranscription,
		r.RecordingDuration, r.Status, r.ProcessingStatus, r.ValidationScore,
		nullString(r.AudioFileURL), boolInt(r.SyncedToSheets), nullString(r.SheetsRowID),
		r.SheetsLastSync, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// GetRecord fetches a single record by id.
func (s *Store) GetRecord(ctx context.Context, id string) (*types.MeetingRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM meeting_records WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// ListRecords returns one page of records matching the filter.
func (s *Store) ListRecords(ctx context.Context, f types.RecordFilter) ([]types.MeetingRecord, error) {
	builder := sq.Select(recordColumns).From("meeting_records")
	builder = applyFilter(builder, f)

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "recording_date"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	builder = builder.OrderBy(column+" "+dir, "created_at "+dir)

	if f.Limit > 0 {
		offset := 0
		if f.Page > 1 {
			offset = (f.Page - 1) * f.Limit
		}
		builder = builder.Limit(uint64(f.Limit)).Offset(uint64(offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []types.MeetingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}

// CountRecords returns the number of records matching the filter.
func (s *Store) CountRecords(ctx context.Context, f types.RecordFilter) (int, error) {
	builder := sq.Select("COUNT(*)").From("meeting_records")
	builder = applyFilter(builder, f)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// FindUnsynced returns up to limit unsynced records, oldest recording date
// first. Date order, not creation order, preserves the external sheet's
// chronology for records submitted out of order.
func (s *Store) FindUnsynced(ctx context.Context, limit int) ([]types.MeetingRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM meeting_records
	WHERE synced_to_sheets = 0
	ORDER BY recording_date ASC, created_at ASC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find unsynced records: %w", err)
	}
	defer rows.Close()

	var records []types.MeetingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}

// MarkSynced flips the sync flag and stores the external row reference in one
// atomic update.
func (s *Store) MarkSynced(ctx context.Context, id, rowID string, at time.Time) error {
	query := `UPDATE meeting_records
	SET synced_to_sheets = 1, sheets_row_id = ?, sheets_last_sync = ?, updated_at = ?
	WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query, rowID, at, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark record synced: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProcessingStatus moves a record's background state machine.
func (s *Store) UpdateProcessingStatus(ctx context.Context, id, status string) error {
	query := `UPDATE meeting_records SET processing_status = ?, updated_at = ? WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update processing status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GroupStats returns per-group counts with the most recent recording date,
// optionally restricted to one group.
func (s *Store) GroupStats(ctx context.Context, groupNumber string) ([]types.GroupStats, error) {
	builder := sq.Select("group_number", "COUNT(*)", "MAX(recording_date)").
		From("meeting_records").
		GroupBy("group_number").
		OrderBy("group_number ASC")
	if groupNumber != "" {
		builder = builder.Where(sq.Eq{"group_number": groupNumber})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build group stats query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query group stats: %w", err)
	}
	defer rows.Close()

	var stats []types.GroupStats
	for rows.Next() {
		var gs types.GroupStats
		if err := rows.Scan(&gs.GroupNumber, &gs.Count, &gs.LastRecording); err != nil {
			return nil, fmt.Errorf("failed to scan group stats: %w", err)
		}
		stats = append(stats, gs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return stats, nil
}

func applyFilter(builder sq.SelectBuilder, f types.RecordFilter) sq.SelectBuilder {
	if f.GroupNumber != "" {
		builder = builder.Where(sq.Eq{"group_number": f.GroupNumber})
	}
	if f.SpeakerName != "" {
		// SQLite LIKE is case-insensitive for ASCII.
		builder = builder.Where(sq.Like{"speaker_name": "%" + f.SpeakerName + "%"})
	}
	if f.Status != "" {
		builder = builder.Where(sq.Eq{"status": f.Status})
	}
	if f.StartDate != "" {
		builder = builder.Where(sq.GtOrEq{"recording_date": f.StartDate})
	}
	if f.EndDate != "" {
		builder = builder.Where(sq.LtOrEq{"recording_date": f.EndDate})
	}
	return builder
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*types.MeetingRecord, error) {
	var (
		rec       types.MeetingRecord
		audioURL  sql.NullString
		rowID     sql.NullString
		lastSync  sql.NullTime
		syncedInt int
	)

	err := row.Scan(
		&rec.ID, &rec.RecordingDate, &rec.RecordingDateTime, &rec.Year, &rec.Month, &rec.Day,
		&rec.DayOfWeek, &rec.SpeakerName, &rec.GroupNumber, &rec.PersonMet, &rec.Location,
		&rec.FullTranscription, &rec.RecordingDuration, &rec.Status, &rec.ProcessingStatus,
		&rec.ValidationScore, &audioURL, &syncedInt, &rowID, &lastSync,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.AudioFileURL = audioURL.String
	rec.SyncedToSheets = syncedInt != 0
	rec.SheetsRowID = rowID.String
	if lastSync.Valid {
		t := lastSync.Time
		rec.SheetsLastSync = &t
	}
	return &rec, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
