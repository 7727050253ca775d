package queue

import "time"

// Job is one scheduled sheet push for a record.
type Job struct {
	RecordID   string
	EnqueuedAt time.Time
}
