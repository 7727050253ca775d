package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/dates"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/grammar"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/types"
)

// Store is the persistence surface the record lifecycle needs.
type Store interface {
	CreateRecord(ctx context.Context, r *types.MeetingRecord) error
	GetRecord(ctx context.Context, id string) (*types.MeetingRecord, error)
	ListRecords(ctx context.Context, f types.RecordFilter) ([]types.MeetingRecord, error)
	CountRecords(ctx context.Context, f types.RecordFilter) (int, error)
	FindUnsynced(ctx context.Context, limit int) ([]types.MeetingRecord, error)
	MarkSynced(ctx context.Context, id, rowID string, at time.Time) error
	UpdateProcessingStatus(ctx context.Context, id, status string) error
	BumpDailyStats(ctx context.Context, date string) error
	DailyStatsRange(ctx context.Context, start, end string) ([]types.DailyStatistics, error)
	GroupStats(ctx context.Context, groupNumber string) ([]types.GroupStats, error)
}

// SyncQueue schedules a background sheet push for a record id. Enqueue must
// not block record creation.
type SyncQueue interface {
	Enqueue(recordID string)
}

// Config carries the tunables that used to be hidden constants.
type Config struct {
	DefaultLimit    int
	MaxLimit        int
	StatsWindowDays int
}

// Service orchestrates validate -> derive date -> persist -> background sync
// -> aggregate update.
type Service struct {
	store   Store
	deriver *dates.Deriver
	queue   SyncQueue
	cfg     Config
}

func NewService(store Store, deriver *dates.Deriver, queue SyncQueue, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.StatsWindowDays <= 0 {
		cfg.StatsWindowDays = 30
	}
	return &Service{store: store, deriver: deriver, queue: queue, cfg: cfg}
}

// CreateInput is the caller-supplied part of a new record.
type CreateInput struct {
	Transcription string
	Duration      string // MM:SS
	AudioFileURL  string
}

// CreateRecord validates the transcription and persists a new record. The date
// snapshot is derived exactly once and shared by every date field. The sheet
// push is scheduled fire-and-forget; the daily rollup bump is synchronous and
// caller-visible. The call returns as soon as persistence and the rollup bump
// succeed — sync lag is never the caller's problem.
func (s *Service) CreateRecord(ctx context.Context, in CreateInput) (*types.FormattedRecord, error) {
	res := grammar.Validate(in.Transcription)
	if !res.IsValid {
		return nil, &ValidationError{Message: res.Message, Errors: res.Errors}
	}

	snap := s.deriver.Derive()
	now := snap.RecordingDateTime

	rec := &types.MeetingRecord{
		ID:                uuid.New().String(),
		RecordingDate:     snap.RecordingDate,
		RecordingDateTime: snap.RecordingDateTime,
		Year:              snap.Year,
		Month:             snap.Month,
		Day:               snap.Day,
		DayOfWeek:         snap.DayOfWeek,
		SpeakerName:       res.ExtractedData.SpeakerName,
		GroupNumber:       res.ExtractedData.GroupNumber,
		PersonMet:         res.ExtractedData.PersonMet,
		Location:          res.ExtractedData.Location,
		FullTranscription: in.Transcription,
		RecordingDuration: in.Duration,
		Status:            types.StatusSubmitted,
		ProcessingStatus:  types.ProcessingPending,
		ValidationScore:   res.Confidence,
		AudioFileURL:      in.AudioFileURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.CreateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist record: %w", err)
	}

	if s.queue != nil {
		s.queue.Enqueue(rec.ID)
	}

	if err := s.store.BumpDailyStats(ctx, snap.RecordingDate); err != nil {
		return nil, fmt.Errorf("update daily statistics: %w", err)
	}

	return format(rec), nil
}

// GetRecord fetches a single record with display fields recomputed.
func (s *Service) GetRecord(ctx context.Context, id string) (*types.FormattedRecord, error) {
	rec, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return format(rec), nil
}

// ListRecords returns a page of formatted records plus pagination metadata.
// The default sort is recording date descending; recency-by-date is the
// dominant access pattern.
func (s *Service) ListRecords(ctx context.Context, f types.RecordFilter) ([]types.FormattedRecord, types.Pagination, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = s.cfg.DefaultLimit
	}
	if f.Limit > s.cfg.MaxLimit {
		f.Limit = s.cfg.MaxLimit
	}
	if f.SortBy == "" {
		f.SortBy = "recordingDate"
		f.SortDesc = true
	}

	total, err := s.store.CountRecords(ctx, f)
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("count records: %w", err)
	}

	recs, err := s.store.ListRecords(ctx, f)
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("list records: %w", err)
	}

	formatted := make([]types.FormattedRecord, 0, len(recs))
	for i := range recs {
		formatted = append(formatted, *format(&recs[i]))
	}

	totalPages := (total + f.Limit - 1) / f.Limit
	page := types.Pagination{
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    f.Page < totalPages,
		HasPrev:    f.Page > 1,
	}
	return formatted, page, nil
}

// Statistics is the bundle returned by the statistics endpoint.
type Statistics struct {
	Daily  []types.DailyStatistics `json:"daily"`
	Groups []types.GroupStats      `json:"groups"`
	Totals StatisticsTotals        `json:"totals"`
}

// StatisticsTotals holds overall counters. AveragePerDay divides by the fixed
// window length regardless of how many of those days had data.
type StatisticsTotals struct {
	TotalRecords  int     `json:"totalRecords"`
	WindowDays    int     `json:"windowDays"`
	WindowTotal   int     `json:"windowTotal"`
	AveragePerDay float64 `json:"averagePerDay"`
}

// GetStatistics returns the last-N-days rollups (ascending by date), per-group
// aggregates matching groupNumber (or all groups when empty), and totals.
func (s *Service) GetStatistics(ctx context.Context, groupNumber string) (*Statistics, error) {
	snap := s.deriver.Derive()
	end := snap.RecordingDateTime
	start := end.AddDate(0, 0, -(s.cfg.StatsWindowDays - 1))

	daily, err := s.store.DailyStatsRange(ctx, start.Format("2006-01-02"), snap.RecordingDate)
	if err != nil {
		return nil, fmt.Errorf("daily statistics: %w", err)
	}

	groups, err := s.store.GroupStats(ctx, groupNumber)
	if err != nil {
		return nil, fmt.Errorf("group statistics: %w", err)
	}

	total, err := s.store.CountRecords(ctx, types.RecordFilter{})
	if err != nil {
		return nil, fmt.Errorf("total count: %w", err)
	}

	windowTotal := 0
	for _, d := range daily {
		windowTotal += d.TotalRecordings
	}

	return &Statistics{
		Daily:  daily,
		Groups: groups,
		Totals: StatisticsTotals{
			TotalRecords:  total,
			WindowDays:    s.cfg.StatsWindowDays,
			WindowTotal:   windowTotal,
			AveragePerDay: float64(windowTotal) / float64(s.cfg.StatsWindowDays),
		},
	}, nil
}

// format attaches the display strings, recomputed from the stored instant.
func format(rec *types.MeetingRecord) *types.FormattedRecord {
	return &types.FormattedRecord{
		MeetingRecord:        *rec,
		RecordingDateDisplay: dates.DisplayDate(rec.RecordingDateTime),
		RecordingTimeDisplay: dates.DisplayTime(rec.RecordingDateTime),
	}
}
