package records

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/storage"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/types"
)

// fakeStore is an in-memory Store for service and coordinator tests.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]*types.MeetingRecord
	order   []string
	stats   map[string]*types.DailyStatistics

	createErr error
	bumpErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[string]*types.MeetingRecord),
		stats:   make(map[string]*types.DailyStatistics),
	}
}

func (f *fakeStore) CreateRecord(_ context.Context, r *types.MeetingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *r
	f.records[r.ID] = &cp
	f.order = append(f.order, r.ID)
	return nil
}

func (f *fakeStore) GetRecord(_ context.Context, id string) (*types.MeetingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) ListRecords(_ context.Context, flt types.RecordFilter) ([]types.MeetingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := f.matchLocked(flt)
	if flt.Limit > 0 {
		offset := (flt.Page - 1) * flt.Limit
		if offset >= len(matched) {
			return nil, nil
		}
		end := offset + flt.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[offset:end]
	}
	return matched, nil
}

func (f *fakeStore) CountRecords(_ context.Context, flt types.RecordFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matchLocked(flt)), nil
}

func (f *fakeStore) matchLocked(flt types.RecordFilter) []types.MeetingRecord {
	var matched []types.MeetingRecord
	for _, id := range f.order {
		r := f.records[id]
		if flt.GroupNumber != "" && r.GroupNumber != flt.GroupNumber {
			continue
		}
		if flt.SpeakerName != "" && !strings.Contains(strings.ToLower(r.SpeakerName), strings.ToLower(flt.SpeakerName)) {
			continue
		}
		if flt.Status != "" && r.Status != flt.Status {
			continue
		}
		if flt.StartDate != "" && r.RecordingDate < flt.StartDate {
			continue
		}
		if flt.EndDate != "" && r.RecordingDate > flt.EndDate {
			continue
		}
		matched = append(matched, *r)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if flt.SortDesc {
			return matched[i].RecordingDate > matched[j].RecordingDate
		}
		return matched[i].RecordingDate < matched[j].RecordingDate
	})
	return matched
}

func (f *fakeStore) FindUnsynced(_ context.Context, limit int) ([]types.MeetingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pending []types.MeetingRecord
	for _, id := range f.order {
		if r := f.records[id]; !r.SyncedToSheets {
			pending = append(pending, *r)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].RecordingDate < pending[j].RecordingDate
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (f *fakeStore) MarkSynced(_ context.Context, id, rowID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return storage.ErrNotFound
	}
	rec.SyncedToSheets = true
	rec.SheetsRowID = rowID
	rec.SheetsLastSync = &at
	rec.UpdatedAt = at
	return nil
}

func (f *fakeStore) UpdateProcessingStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return storage.ErrNotFound
	}
	rec.ProcessingStatus = status
	return nil
}

func (f *fakeStore) BumpDailyStats(_ context.Context, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bumpErr != nil {
		return f.bumpErr
	}
	if ds, ok := f.stats[date]; ok {
		ds.TotalRecordings++
		ds.SuccessfulRecordings++
		return nil
	}
	f.stats[date] = &types.DailyStatistics{
		StatDate:             date,
		TotalRecordings:      1,
		SuccessfulRecordings: 1,
		UniqueGroups:         1,
		UniqueSpeakers:       1,
	}
	return nil
}

func (f *fakeStore) DailyStatsRange(_ context.Context, start, end string) ([]types.DailyStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.DailyStatistics
	for date, ds := range f.stats {
		if date >= start && date <= end {
			out = append(out, *ds)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StatDate < out[j].StatDate })
	return out, nil
}

func (f *fakeStore) GroupStats(_ context.Context, groupNumber string) ([]types.GroupStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byGroup := make(map[string]*types.GroupStats)
	for _, r := range f.records {
		if groupNumber != "" && r.GroupNumber != groupNumber {
			continue
		}
		gs, ok := byGroup[r.GroupNumber]
		if !ok {
			gs = &types.GroupStats{GroupNumber: r.GroupNumber}
			byGroup[r.GroupNumber] = gs
		}
		gs.Count++
		if r.RecordingDate > gs.LastRecording {
			gs.LastRecording = r.RecordingDate
		}
	}
	var out []types.GroupStats
	for _, gs := range byGroup {
		out = append(out, *gs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupNumber < out[j].GroupNumber })
	return out, nil
}

var _ Store = (*fakeStore)(nil)

// fakeSink records pushes and can fail selected record ids.
type fakeSink struct {
	mu     sync.Mutex
	pushed []string
	failOn map[string]bool
	nextRow int
}

func newFakeSink() *fakeSink {
	return &fakeSink{failOn: make(map[string]bool)}
}

func (f *fakeSink) AppendRecord(_ context.Context, rec *types.MeetingRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[rec.ID] {
		return "", errors.New("sink rejected row")
	}
	f.nextRow++
	f.pushed = append(f.pushed, rec.ID)
	return fmt.Sprintf("row_%d", f.nextRow), nil
}

// fakeQueue captures enqueued ids without running anything.
type fakeQueue struct {
	mu  sync.Mutex
	ids []string
}

func (f *fakeQueue) Enqueue(recordID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, recordID)
}
