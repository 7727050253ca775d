package types

import "time"

// Record status constants (forward progression only)
const (
	StatusSubmitted = "SUBMITTED"
	StatusValidated = "VALIDATED"
	StatusProcessed = "PROCESSED"
	StatusFailed    = "FAILED"
	StatusArchived  = "ARCHIVED"
)

// Background processing status constants
const (
	ProcessingPending    = "PENDING"
	ProcessingProcessing = "PROCESSING"
	ProcessingCompleted  = "COMPLETED"
	ProcessingFailed     = "FAILED"
	ProcessingRetrying   = "RETRYING"
)

// VoiceMessage holds the four fields extracted from a matching transcription.
// It is never persisted directly; it is folded into a MeetingRecord at creation.
type VoiceMessage struct {
	SpeakerName string `json:"speakerName"`
	GroupNumber string `json:"groupNumber"`
	PersonMet   string `json:"personMet"`
	Location    string `json:"location"`
}

// ValidationResult is the output of grammar validation. Constructed fresh per
// call and never mutated after return. ExtractedData may be populated even when
// IsValid is false (template matched but a semantic check failed) — callers must
// check IsValid, not the presence of data.
type ValidationResult struct {
	IsValid       bool          `json:"isValid"`
	Message       string        `json:"message"`
	ExtractedData *VoiceMessage `json:"extractedData,omitempty"`
	Errors        []string      `json:"errors,omitempty"`
	Confidence    float64       `json:"confidence"`
}

// MeetingRecord is the persisted entity. recordingDate is the canonical key for
// all time-range queries; year/month/day/dayOfWeek are denormalized from it and
// always written together with it.
type MeetingRecord struct {
	ID                string     `json:"id"`
	RecordingDate     string     `json:"recordingDate"` // YYYY-MM-DD
	RecordingDateTime time.Time  `json:"recordingDateTime"`
	Year              int        `json:"year"`
	Month             int        `json:"month"`
	Day               int        `json:"day"`
	DayOfWeek         string     `json:"dayOfWeek"`
	SpeakerName       string     `json:"speakerName"`
	GroupNumber       string     `json:"groupNumber"`
	PersonMet         string     `json:"personMet"`
	Location          string     `json:"location"`
	FullTranscription string     `json:"fullTranscription"`
	RecordingDuration string     `json:"recordingDuration"` // MM:SS
	Status            string     `json:"status"`
	ProcessingStatus  string     `json:"processingStatus"`
	ValidationScore   float64    `json:"validationScore"`
	AudioFileURL      string     `json:"audioFileUrl,omitempty"`
	SyncedToSheets    bool       `json:"syncedToSheets"`
	SheetsRowID       string     `json:"googleSheetsRowId,omitempty"`
	SheetsLastSync    *time.Time `json:"sheetsLastSync,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// FormattedRecord is a MeetingRecord plus display strings recomputed at read
// time. Stored display strings are never trusted across locale changes.
type FormattedRecord struct {
	MeetingRecord
	RecordingDateDisplay string `json:"recordingDateDisplay"`
	RecordingTimeDisplay string `json:"recordingTimeDisplay"`
}

// DailyStatistics is the one-row-per-date rollup. Owned by the aggregate-update
// path only; the sync path never touches it.
type DailyStatistics struct {
	StatDate             string  `json:"date"` // YYYY-MM-DD
	TotalRecordings      int     `json:"totalRecordings"`
	SuccessfulRecordings int     `json:"successfulRecordings"`
	FailedRecordings     int     `json:"failedRecordings"`
	UniqueGroups         int     `json:"uniqueGroups"`
	UniqueSpeakers       int     `json:"uniqueSpeakers"`
	AverageDuration      float64 `json:"averageDuration"`
}

// GroupStats is a per-group aggregate used by the statistics endpoint.
type GroupStats struct {
	GroupNumber   string `json:"groupNumber"`
	Count         int    `json:"count"`
	LastRecording string `json:"lastRecording"` // most recent recordingDate
}

// RecordFilter narrows a record listing. Zero values mean "no constraint".
type RecordFilter struct {
	GroupNumber string
	SpeakerName string // case-insensitive substring
	Status      string
	StartDate   string // inclusive, YYYY-MM-DD
	EndDate     string // inclusive, YYYY-MM-DD
	SortBy      string
	SortDesc    bool
	Page        int
	Limit       int
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// SyncResult summarizes one batch sync pass.
type SyncResult struct {
	Synced int `json:"synced"`
	Errors int `json:"errors"`
}
