package queue

import (
	"context"
	"log"
	"runtime/debug"
	"sync"
	"time"
)

// Syncer is the per-record push the workers run. A returned error is terminal
// for that job: logged, not retried; the periodic batch pass picks the record
// up again.
type Syncer interface {
	SyncOne(ctx context.Context, recordID string) error
}

// WorkerPool runs background sheet pushes so record creation never waits on
// the external sink.
type WorkerPool struct {
	jobs        chan Job
	workerCount int
	syncer      Syncer
	jobTimeout  time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewWorkerPool creates a pool with the given queue depth.
func NewWorkerPool(workerCount, queueDepth int, syncer Syncer, jobTimeout time.Duration) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if queueDepth <= 0 {
		queueDepth = 100
	}
	if jobTimeout <= 0 {
		jobTimeout = time.Minute
	}
	return &WorkerPool{
		jobs:        make(chan Job, queueDepth),
		workerCount: workerCount,
		syncer:      syncer,
		jobTimeout:  jobTimeout,
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	log.Printf("Starting sync worker pool with %d workers", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the queue and waits for in-flight jobs to drain. Safe to call
// more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.jobs)
	})
	wp.wg.Wait()
}

// Enqueue schedules a push for the record. If the queue is full the job is
// dropped with a log line; the record stays unsynced and the periodic batch
// pass will reach it.
func (wp *WorkerPool) Enqueue(recordID string) {
	job := Job{RecordID: recordID, EnqueuedAt: time.Now()}
	select {
	case wp.jobs <- job:
	default:
		log.Printf("Sync queue full, record %s left for the batch pass", recordID)
	}
}

// worker processes jobs from the queue.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		wp.runJob(id, job)
	}
}

// runJob executes one push with panic recovery and a bounded window.
func (wp *WorkerPool) runJob(workerID int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Worker %d: PANIC syncing record %s: %v\n%s",
				workerID, job.RecordID, r, string(debug.Stack()))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), wp.jobTimeout)
	defer cancel()

	if err := wp.syncer.SyncOne(ctx, job.RecordID); err != nil {
		log.Printf("Worker %d: sync failed for record %s: %v", workerID, job.RecordID, err)
	}
}
