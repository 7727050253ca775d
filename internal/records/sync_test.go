package records

import (
	"context"
	"testing"
	"time"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/types"
)

func seedUnsynced(store *fakeStore, id, date string) {
	dt, _ := time.Parse("2006-01-02", date)
	store.records[id] = &types.MeetingRecord{
		ID: id, RecordingDate: date, RecordingDateTime: dt,
		SpeakerName: "John Smith", GroupNumber: "5",
		ProcessingStatus: types.ProcessingPending,
	}
	store.order = append(store.order, id)
}

func TestSyncPendingPartialFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	sink := newFakeSink()
	seedUnsynced(store, "a", "2025-07-25")
	seedUnsynced(store, "b", "2025-07-26")
	seedUnsynced(store, "c", "2025-07-27")
	sink.failOn["b"] = true

	c := NewCoordinator(store, sink, time.Second)
	res, err := c.SyncPending(context.Background(), 100)
	if err != nil {
		t.Fatalf("SyncPending: %v", err)
	}

	if res.Synced != 2 || res.Errors != 1 {
		t.Fatalf("result %+v, want 2 synced / 1 error", res)
	}
	if res.Synced+res.Errors != 3 {
		t.Fatalf("result %+v does not cover the batch", res)
	}
	if !store.records["a"].SyncedToSheets || !store.records["c"].SyncedToSheets {
		t.Fatal("successful pushes should be marked synced")
	}
	if store.records["b"].SyncedToSheets {
		t.Fatal("failed push must stay unsynced for the next pass")
	}
	if store.records["a"].SheetsRowID == "" || store.records["a"].SheetsLastSync == nil {
		t.Fatalf("sync bookkeeping incomplete: %+v", store.records["a"])
	}
}

func TestSyncPendingOldestDateFirst(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	sink := newFakeSink()
	// Insertion order is newest first; the push order must follow the
	// recording date.
	seedUnsynced(store, "newest", "2025-07-27")
	seedUnsynced(store, "oldest", "2025-07-20")
	seedUnsynced(store, "middle", "2025-07-24")

	c := NewCoordinator(store, sink, time.Second)
	if _, err := c.SyncPending(context.Background(), 100); err != nil {
		t.Fatalf("SyncPending: %v", err)
	}

	want := []string{"oldest", "middle", "newest"}
	if len(sink.pushed) != 3 {
		t.Fatalf("pushed %v", sink.pushed)
	}
	for i := range want {
		if sink.pushed[i] != want[i] {
			t.Fatalf("push order %v, want %v", sink.pushed, want)
		}
	}
}

func TestSyncPendingRespectsBatchSize(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	sink := newFakeSink()
	seedUnsynced(store, "a", "2025-07-25")
	seedUnsynced(store, "b", "2025-07-26")
	seedUnsynced(store, "c", "2025-07-27")

	c := NewCoordinator(store, sink, time.Second)
	res, err := c.SyncPending(context.Background(), 2)
	if err != nil {
		t.Fatalf("SyncPending: %v", err)
	}
	if res.Synced != 2 || res.Errors != 0 {
		t.Fatalf("result %+v", res)
	}
	if store.records["c"].SyncedToSheets {
		t.Fatal("record beyond the batch size should be left for the next pass")
	}
}

func TestSyncOne(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	sink := newFakeSink()
	seedUnsynced(store, "a", "2025-07-27")

	c := NewCoordinator(store, sink, time.Second)
	if err := c.SyncOne(context.Background(), "a"); err != nil {
		t.Fatalf("SyncOne: %v", err)
	}

	rec := store.records["a"]
	if !rec.SyncedToSheets {
		t.Fatal("record should be synced")
	}
	if rec.ProcessingStatus != types.ProcessingCompleted {
		t.Fatalf("processing status %s", rec.ProcessingStatus)
	}

	// A second push is a no-op: the record is already synced.
	if err := c.SyncOne(context.Background(), "a"); err != nil {
		t.Fatalf("SyncOne repeat: %v", err)
	}
	if len(sink.pushed) != 1 {
		t.Fatalf("sink pushed %v, want a single push", sink.pushed)
	}
}

func TestSyncOneMissingRecordIsNoop(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(newFakeStore(), newFakeSink(), time.Second)
	if err := c.SyncOne(context.Background(), "ghost"); err != nil {
		t.Fatalf("SyncOne on missing record: %v", err)
	}
}

func TestSyncOneFailureLeavesRecordUnsynced(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	sink := newFakeSink()
	seedUnsynced(store, "a", "2025-07-27")
	sink.failOn["a"] = true

	c := NewCoordinator(store, sink, time.Second)
	if err := c.SyncOne(context.Background(), "a"); err == nil {
		t.Fatal("expected push error")
	}

	rec := store.records["a"]
	if rec.SyncedToSheets {
		t.Fatal("failed record must stay unsynced")
	}
	if rec.ProcessingStatus != types.ProcessingFailed {
		t.Fatalf("processing status %s", rec.ProcessingStatus)
	}

	// The next batch pass picks it up once the sink recovers.
	delete(sink.failOn, "a")
	res, err := c.SyncPending(context.Background(), 100)
	if err != nil {
		t.Fatalf("SyncPending: %v", err)
	}
	if res.Synced != 1 || !store.records["a"].SyncedToSheets {
		t.Fatalf("record not recovered: %+v / %+v", res, store.records["a"])
	}
}
