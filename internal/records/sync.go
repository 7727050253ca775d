package records

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/storage"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/types"
)

var _ Store = (*storage.Store)(nil)

// RowSink is the external row-oriented destination. AppendRecord must behave
// as an idempotent upsert keyed by record id: pushing the same record twice
// returns the same row reference without creating a second row.
type RowSink interface {
	AppendRecord(ctx context.Context, rec *types.MeetingRecord) (rowID string, err error)
}

// Coordinator pushes unsynced records to the external sink. Failures are
// contained per record and counted; they never propagate past this boundary.
type Coordinator struct {
	store            Store
	sink             RowSink
	perRecordTimeout time.Duration
}

func NewCoordinator(store Store, sink RowSink, perRecordTimeout time.Duration) *Coordinator {
	if perRecordTimeout <= 0 {
		perRecordTimeout = 30 * time.Second
	}
	return &Coordinator{store: store, sink: sink, perRecordTimeout: perRecordTimeout}
}

// SyncPending pushes up to batchSize unsynced records, oldest recording date
// first. A failed record is counted and left unsynced for the next pass; the
// batch never aborts on a single record. Concurrent invocations are not
// mutually excluded — the sink's record-id keyed upsert keeps a double read
// from double-creating a row.
func (c *Coordinator) SyncPending(ctx context.Context, batchSize int) (types.SyncResult, error) {
	if c.sink == nil {
		return types.SyncResult{}, errors.New("external sink not configured")
	}

	pending, err := c.store.FindUnsynced(ctx, batchSize)
	if err != nil {
		return types.SyncResult{}, fmt.Errorf("find unsynced records: %w", err)
	}

	var result types.SyncResult
	for i := range pending {
		if err := c.push(ctx, &pending[i]); err != nil {
			log.Printf("Sync failed for record %s: %v", pending[i].ID, err)
			result.Errors++
			continue
		}
		result.Synced++
	}
	return result, nil
}

// SyncOne is the background per-record path. A missing record or an already
// synced record is a no-op; a push failure leaves the record unsynced for a
// later SyncPending pass.
func (c *Coordinator) SyncOne(ctx context.Context, recordID string) error {
	if c.sink == nil {
		return nil
	}

	rec, err := c.store.GetRecord(ctx, recordID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load record %s: %w", recordID, err)
	}
	if rec.SyncedToSheets {
		return nil
	}

	if err := c.store.UpdateProcessingStatus(ctx, rec.ID, types.ProcessingProcessing); err != nil {
		log.Printf("Failed to mark record %s processing: %v", rec.ID, err)
	}

	if err := c.push(ctx, rec); err != nil {
		if statusErr := c.store.UpdateProcessingStatus(ctx, rec.ID, types.ProcessingFailed); statusErr != nil {
			log.Printf("Failed to mark record %s failed: %v", rec.ID, statusErr)
		}
		return err
	}

	if err := c.store.UpdateProcessingStatus(ctx, rec.ID, types.ProcessingCompleted); err != nil {
		log.Printf("Failed to mark record %s completed: %v", rec.ID, err)
	}
	return nil
}

// push sends one record with a bounded window; a hung sink counts as an error
// for this record instead of stalling the batch.
func (c *Coordinator) push(ctx context.Context, rec *types.MeetingRecord) error {
	pushCtx, cancel := context.WithTimeout(ctx, c.perRecordTimeout)
	defer cancel()

	rowID, err := c.sink.AppendRecord(pushCtx, rec)
	if err != nil {
		return fmt.Errorf("append to sink: %w", err)
	}

	if err := c.store.MarkSynced(ctx, rec.ID, rowID, time.Now()); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}
