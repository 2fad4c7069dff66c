package services

import (
	"context"
	"log"
	"sync"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(job IndexJob) bool
}

type worker struct {
	indexer     CandidateIndexer
	jobQueue    chan IndexJob
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewWorker(indexer CandidateIndexer, concurrency, queueSize int) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &worker{
		indexer:     indexer,
		jobQueue:    make(chan IndexJob, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting index worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop implements Worker. Jobs still queued are dropped.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping index worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Index worker stopped")
	})
}

// EnqueueJob implements Worker. It never blocks; a full queue or a stopped worker
// drops the job and returns false.
func (w *worker) EnqueueJob(job IndexJob) bool {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue %s\n", job.Filename)
		return false
	default:
	}

	select {
	case w.jobQueue <- job:
		log.Printf("📥 Index job for %s enqueued\n", job.Filename)
		return true
	default:
		log.Printf("⚠️  Index queue full, dropping %s\n", job.Filename)
		return false
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d context done\n", workerID)
			return
		case job := <-w.jobQueue:
			if err := w.indexer.IndexCandidate(ctx, job); err != nil {
				log.Printf("❌ Worker #%d failed to index %s: %v\n", workerID, job.Filename, err)
			} else {
				log.Printf("✅ Worker #%d indexed %s\n", workerID, job.Filename)
			}
		}
	}
}
