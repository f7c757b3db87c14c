package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tzimmer/lawchunk/internal/chunker"
	"github.com/tzimmer/lawchunk/internal/document"
	"github.com/tzimmer/lawchunk/internal/store"
)

// Worker runs the pipeline for one document at a time and records the
// outcome on the document record.
type Worker struct {
	store *store.Store
	proc  *Processor
	log   *slog.Logger

	maxRetries int
	retryDelay time.Duration
}

func NewWorker(st *store.Store, proc *Processor, log *slog.Logger, maxRetries int, retryDelay time.Duration) *Worker {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &Worker{
		store:      st,
		proc:       proc,
		log:        log,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// ProcessDocument marks the document processing, runs the pipeline with
// bounded retries, and records completed or failed. Re-invocation is safe:
// chunking is deterministic and chunks are replaced wholesale.
func (w *Worker) ProcessDocument(ctx context.Context, documentID string) {
	log := w.log.With("document_id", documentID)

	doc, err := w.store.GetDocument(documentID)
	if err != nil {
		log.Error("document lookup failed", "error", err)
		return
	}

	if _, err := w.store.UpdateDocument(documentID, func(d *document.Document) {
		d.Status = document.StatusProcessing
		d.ErrorMessage = ""
	}); err != nil {
		log.Error("status update failed", "error", err)
		return
	}
	log.Info("processing document", "name", doc.Name)

	chunks, err := w.processWithRetry(ctx, doc.FilePath)
	if err != nil {
		w.markFailed(documentID, err.Error())
		log.Error("processing failed", "error", err)
		return
	}
	if len(chunks) == 0 {
		// Extraction succeeded but the document contributed nothing.
		// Recording it completed with zero chunks would be misleading.
		w.markFailed(documentID, "no extractable text")
		log.Warn("no chunks produced", "name", doc.Name)
		return
	}

	stored := make([]document.StoredChunk, len(chunks))
	for i, c := range chunks {
		stored[i] = document.StoredChunk{
			DocumentID: documentID,
			ChunkIndex: c.Index,
			Text:       c.Text,
			PageNumber: c.PageNumber,
			Section:    c.Section,
		}
	}
	if err := w.store.ReplaceChunks(documentID, stored); err != nil {
		w.markFailed(documentID, fmt.Sprintf("store chunks: %s", err))
		log.Error("chunk storage failed", "error", err)
		return
	}

	now := time.Now().UTC()
	if _, err := w.store.UpdateDocument(documentID, func(d *document.Document) {
		d.Status = document.StatusCompleted
		d.ChunksIndexed = len(stored)
		d.ProcessedAt = &now
	}); err != nil {
		log.Error("status update failed", "error", err)
		return
	}
	log.Info("document completed", "name", doc.Name, "chunks_indexed", len(stored))
}

// processWithRetry retries transient extraction failures a bounded number
// of times with a fixed delay between attempts. Normalization and
// chunking are total, so every error out of Process is an extraction
// error and worth another attempt.
func (w *Worker) processWithRetry(ctx context.Context, path string) ([]chunker.Chunk, error) {
	var lastErr error
	for attempt := 0; attempt < w.maxRetries; attempt++ {
		if attempt > 0 {
			w.log.Warn("retrying extraction", "path", path, "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(w.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		chunks, err := w.proc.Process(path)
		if err == nil {
			return chunks, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (w *Worker) markFailed(documentID, msg string) {
	if _, err := w.store.UpdateDocument(documentID, func(d *document.Document) {
		d.Status = document.StatusFailed
		d.ErrorMessage = msg
	}); err != nil {
		w.log.Error("status update failed", "document_id", documentID, "error", err)
	}
}
