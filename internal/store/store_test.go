package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tzimmer/lawchunk/internal/document"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testDocument(id string, uploadedAt time.Time) *document.Document {
	return &document.Document{
		ID:         id,
		Name:       id + ".pdf",
		FilePath:   "uploads/" + id + ".pdf",
		FileSize:   2048,
		UploadedAt: uploadedAt,
		Status:     document.StatusPending,
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	st := openTestStore(t)

	want := testDocument("doc-a", time.Now().UTC())
	if err := st.CreateDocument(want); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetDocument("doc-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != want.ID || got.Name != want.Name || got.Status != want.Status {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.GetDocument("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListDocuments_NewestFirst(t *testing.T) {
	st := openTestStore(t)
	base := time.Now().UTC()

	for i, id := range []string{"doc-a", "doc-b", "doc-c"} {
		if err := st.CreateDocument(testDocument(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	docs, err := st.ListDocuments()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	want := []string{"doc-c", "doc-b", "doc-a"}
	for i, id := range want {
		if docs[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, docs[i].ID)
		}
	}
}

func TestUpdateDocument(t *testing.T) {
	st := openTestStore(t)
	if err := st.CreateDocument(testDocument("doc-a", time.Now().UTC())); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := st.UpdateDocument("doc-a", func(d *document.Document) {
		d.Status = document.StatusFailed
		d.ErrorMessage = "no extractable text"
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != document.StatusFailed {
		t.Errorf("returned copy not updated: %+v", updated)
	}

	got, err := st.GetDocument("doc-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != document.StatusFailed || got.ErrorMessage != "no extractable text" {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestUpdateDocument_NotFound(t *testing.T) {
	st := openTestStore(t)
	_, err := st.UpdateDocument("nope", func(d *document.Document) {})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func chunkFixture(docID string, n int) []document.StoredChunk {
	chunks := make([]document.StoredChunk, n)
	for i := range chunks {
		chunks[i] = document.StoredChunk{
			DocumentID: docID,
			ChunkIndex: i,
			Text:       "chunk text",
			PageNumber: i + 1,
			Section:    "Section 1",
		}
	}
	return chunks
}

func TestReplaceChunks_OrderAndReplacement(t *testing.T) {
	st := openTestStore(t)

	if err := st.ReplaceChunks("doc-a", chunkFixture("doc-a", 5)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	chunks, err := st.ListChunks("doc-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chunks) != 5 {
		t.Fatalf("expected 5 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("position %d: expected index %d, got %d", i, i, c.ChunkIndex)
		}
	}

	// Replacing with fewer chunks removes the stale tail.
	if err := st.ReplaceChunks("doc-a", chunkFixture("doc-a", 2)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	chunks, err = st.ListChunks("doc-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks after replacement, got %d", len(chunks))
	}
}

func TestChunks_IsolatedPerDocument(t *testing.T) {
	st := openTestStore(t)

	if err := st.ReplaceChunks("doc-a", chunkFixture("doc-a", 3)); err != nil {
		t.Fatalf("replace doc-a: %v", err)
	}
	if err := st.ReplaceChunks("doc-ab", chunkFixture("doc-ab", 4)); err != nil {
		t.Fatalf("replace doc-ab: %v", err)
	}

	a, err := st.ListChunks("doc-a")
	if err != nil {
		t.Fatalf("list doc-a: %v", err)
	}
	if len(a) != 3 {
		t.Errorf("doc-a: expected 3 chunks, got %d", len(a))
	}
	for _, c := range a {
		if c.DocumentID != "doc-a" {
			t.Errorf("doc-a chunk carries wrong document id %q", c.DocumentID)
		}
	}

	b, err := st.ListChunks("doc-ab")
	if err != nil {
		t.Fatalf("list doc-ab: %v", err)
	}
	if len(b) != 4 {
		t.Errorf("doc-ab: expected 4 chunks, got %d", len(b))
	}
}

func TestListChunks_EmptyDocument(t *testing.T) {
	st := openTestStore(t)
	chunks, err := st.ListChunks("doc-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}
