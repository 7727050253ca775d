package maintenance

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/types"
)

// Resyncer is the batch sync pass the scheduler drives. Records whose
// background push failed are only guaranteed to reach the sheet because this
// runs periodically.
type Resyncer interface {
	SyncPending(ctx context.Context, batchSize int) (types.SyncResult, error)
}

// Scheduler periodically resyncs pending records and cleans stale temp audio
// files.
type Scheduler struct {
	resyncer  Resyncer
	batchSize int
	tempDir   string
	interval  time.Duration
	maxAge    time.Duration
	stopChan  chan struct{}
}

// NewScheduler creates a maintenance scheduler.
func NewScheduler(resyncer Resyncer, batchSize int, tempDir string, interval, maxAge time.Duration) *Scheduler {
	return &Scheduler{
		resyncer:  resyncer,
		batchSize: batchSize,
		tempDir:   tempDir,
		interval:  interval,
		maxAge:    maxAge,
		stopChan:  make(chan struct{}),
	}
}

// Start runs one pass immediately, then on every tick.
func (s *Scheduler) Start() {
	s.runOnce()

	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	log.Printf("Maintenance scheduler started (interval: %s, temp max age: %s)", s.interval, s.maxAge)
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	log.Println("Maintenance scheduler stopped")
}

func (s *Scheduler) runOnce() {
	if s.resyncer != nil {
		res, err := s.resyncer.SyncPending(context.Background(), s.batchSize)
		if err != nil {
			log.Printf("Periodic resync failed: %v", err)
		} else if res.Synced > 0 || res.Errors > 0 {
			log.Printf("Periodic resync: %d synced, %d errors", res.Synced, res.Errors)
		}
	}

	s.cleanOldFiles()
}

// cleanOldFiles removes temp audio files older than maxAge.
func (s *Scheduler) cleanOldFiles() {
	if s.tempDir == "" {
		return
	}

	now := time.Now()
	var deletedCount int

	err := filepath.Walk(s.tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files we can't access
		}
		if info.IsDir() {
			return nil
		}

		if now.Sub(info.ModTime()) > s.maxAge {
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to delete old file %s: %v", path, err)
			} else {
				deletedCount++
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error during temp cleanup: %v", err)
	}

	if deletedCount > 0 {
		log.Printf("Temp cleanup: %d files deleted", deletedCount)
	}
}

// EnsureTempDirExists creates the temp directory if it doesn't exist.
func EnsureTempDirExists(tempDir string) error {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return err
	}
	return nil
}
