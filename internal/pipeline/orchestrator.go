package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tzimmer/lawchunk/internal/config"
	"github.com/tzimmer/lawchunk/internal/document"
	"github.com/tzimmer/lawchunk/internal/store"
)

// Orchestrator owns the processing queue and worker pool. Documents are
// queued by id; each worker loads the record, runs the pipeline, and
// writes the outcome back to the store.
type Orchestrator struct {
	store *store.Store
	proc  *Processor
	queue chan string
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(cfg config.Config, st *store.Store, proc *Processor, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store: st,
		proc:  proc,
		queue: make(chan string, cfg.MaxQueueSize),
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.store, o.proc, o.log, o.cfg.MaxRetries, o.cfg.RetryDelay)
			for {
				select {
				case <-workerCtx.Done():
					return
				case documentID, ok := <-o.queue:
					if !ok {
						return
					}
					w.ProcessDocument(workerCtx, documentID)
				}
			}
		}()
	}
}

// Stop gracefully shuts down the worker pool.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a document for processing. A full queue fails the
// document immediately rather than blocking the upload request.
func (o *Orchestrator) Submit(documentID string) error {
	select {
	case o.queue <- documentID:
		return nil
	default:
		if _, err := o.store.UpdateDocument(documentID, func(d *document.Document) {
			d.Status = document.StatusFailed
			d.ErrorMessage = "processing queue is full"
		}); err != nil {
			o.log.Error("status update failed", "document_id", documentID, "error", err)
		}
		return fmt.Errorf("processing queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// QueueDepth returns the current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
