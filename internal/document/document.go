package document

import "time"

// Status is the lifecycle state of an uploaded document.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Document is the persistent record for one uploaded file.
type Document struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	FilePath      string     `json:"file_path"`
	FileSize      int64      `json:"file_size"`
	UploadedAt    time.Time  `json:"uploaded_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	Status        Status     `json:"status"`
	ChunksIndexed int        `json:"chunks_indexed"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}

// StoredChunk is one persisted chunk of a document, keyed by
// (document_id, chunk_index).
type StoredChunk struct {
	DocumentID string `json:"document_id"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
	PageNumber int    `json:"page_number"`
	Section    string `json:"section,omitempty"`
}
