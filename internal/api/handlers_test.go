package api

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tzimmer/lawchunk/internal/chunker"
	"github.com/tzimmer/lawchunk/internal/config"
	"github.com/tzimmer/lawchunk/internal/document"
	"github.com/tzimmer/lawchunk/internal/extractor"
	"github.com/tzimmer/lawchunk/internal/pipeline"
	"github.com/tzimmer/lawchunk/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer builds a server whose orchestrator is not started, so
// submitted documents stay queued (or are rejected when queueSize is 0).
func newTestServer(t *testing.T, queueSize int) (*Server, *store.Store, string) {
	t.Helper()

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		t.Fatalf("create upload dir: %v", err)
	}

	cfg := config.Config{
		Port:           "0",
		DBPath:         filepath.Join(t.TempDir(), "test.db"),
		UploadDir:      uploadDir,
		MaxUploadBytes: 1 << 20,
		WorkerCount:    1,
		MaxQueueSize:   queueSize,
		MinChunkLength: 50,
		MaxChunkLength: 2000,
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	log := discardLogger()
	proc := pipeline.NewProcessor(extractor.NewChain(log), chunker.DefaultConfig(), log)
	orch := pipeline.NewOrchestrator(cfg, st, proc, log)

	return NewServer(orch, st, log, cfg), st, uploadDir
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func uploadedFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	return entries
}

func TestUpload_Accepted(t *testing.T) {
	srv, st, uploadDir := newTestServer(t, 4)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "lease.pdf", []byte("%PDF-1.4 test")))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := len(uploadedFiles(t, uploadDir)); got != 1 {
		t.Errorf("expected 1 stored file, got %d", got)
	}

	docs, err := st.ListDocuments()
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document record, got %d", len(docs))
	}
	if docs[0].Status != document.StatusPending {
		t.Errorf("expected status pending, got %q", docs[0].Status)
	}
	if docs[0].Name != "lease.pdf" {
		t.Errorf("expected name lease.pdf, got %q", docs[0].Name)
	}
}

func TestUpload_RejectsNonPDF(t *testing.T) {
	srv, _, uploadDir := newTestServer(t, 4)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "notes.txt", []byte("plain text")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := len(uploadedFiles(t, uploadDir)); got != 0 {
		t.Errorf("expected no stored files, got %d", got)
	}
}

// A rejected submission must not leave the saved upload orphaned on disk.
func TestUpload_QueueFullRemovesStoredFile(t *testing.T) {
	srv, st, uploadDir := newTestServer(t, 0)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "lease.pdf", []byte("%PDF-1.4 test")))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := len(uploadedFiles(t, uploadDir)); got != 0 {
		t.Errorf("expected upload to be removed, found %d files", got)
	}

	docs, err := st.ListDocuments()
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 1 || docs[0].Status != document.StatusFailed {
		t.Fatalf("expected one failed document record, got %+v", docs)
	}
}
