package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingSyncer struct {
	mu     sync.Mutex
	synced []string
	err    error
	panics bool
}

func (r *recordingSyncer) SyncOne(_ context.Context, recordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panics {
		panic("boom")
	}
	r.synced = append(r.synced, recordID)
	return r.err
}

func TestWorkerPoolDrainsOnStop(t *testing.T) {
	t.Parallel()

	syncer := &recordingSyncer{}
	wp := NewWorkerPool(2, 10, syncer, time.Second)
	wp.Start()

	for _, id := range []string{"a", "b", "c", "d"} {
		wp.Enqueue(id)
	}
	wp.Stop()

	syncer.mu.Lock()
	defer syncer.mu.Unlock()
	if len(syncer.synced) != 4 {
		t.Fatalf("synced %v, want all four jobs drained", syncer.synced)
	}
}

func TestWorkerPoolContainsFailures(t *testing.T) {
	t.Parallel()

	syncer := &recordingSyncer{err: errors.New("sink down")}
	wp := NewWorkerPool(1, 10, syncer, time.Second)
	wp.Start()

	wp.Enqueue("a")
	wp.Enqueue("b")
	wp.Stop() // must not hang or panic despite every job failing

	syncer.mu.Lock()
	defer syncer.mu.Unlock()
	if len(syncer.synced) != 2 {
		t.Fatalf("attempted %v, want both jobs attempted", syncer.synced)
	}
}

func TestWorkerPoolSurvivesPanic(t *testing.T) {
	t.Parallel()

	syncer := &recordingSyncer{panics: true}
	wp := NewWorkerPool(1, 10, syncer, time.Second)
	wp.Start()

	wp.Enqueue("a")
	wp.Stop() // the worker must recover and exit cleanly
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	t.Parallel()

	// Pool never started: the queue fills and further enqueues must not block.
	wp := NewWorkerPool(1, 1, &recordingSyncer{}, time.Second)
	wp.Enqueue("a")

	done := make(chan struct{})
	go func() {
		wp.Enqueue("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}
