package dates

import "time"

// Snapshot is one derived view of an instant. All date fields of a record come
// from a single Snapshot so a creation straddling midnight cannot produce a
// recordingDate and dayOfWeek that disagree.
type Snapshot struct {
	RecordingDate     string // 2006-01-02
	RecordingDateTime time.Time
	DateDisplay       string // Sunday, July 27, 2025
	TimeDisplay       string // 3:04:05 PM
	Year              int
	Month             int // 1-based
	Day               int
	DayOfWeek         string
}

// Deriver produces date snapshots. Now is replaceable so tests can pin the
// clock; it defaults to time.Now.
type Deriver struct {
	Now func() time.Time
}

func NewDeriver() *Deriver {
	return &Deriver{Now: time.Now}
}

// Derive reads the clock exactly once and decomposes that single instant.
func (d *Deriver) Derive() Snapshot {
	now := d.Now()
	return Snapshot{
		RecordingDate:     now.Format("2006-01-02"),
		RecordingDateTime: now,
		DateDisplay:       DisplayDate(now),
		TimeDisplay:       DisplayTime(now),
		Year:              now.Year(),
		Month:             int(now.Month()),
		Day:               now.Day(),
		DayOfWeek:         now.Weekday().String(),
	}
}

// DisplayDate formats the long human-readable date. Computed at read time,
// never stored.
func DisplayDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// DisplayTime formats the localized clock time with AM/PM.
func DisplayTime(t time.Time) string {
	return t.Format("3:04:05 PM")
}
