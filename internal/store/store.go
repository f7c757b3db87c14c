// Package store persists document records and chunks in an embedded
// bbolt database.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/tzimmer/lawchunk/internal/document"
)

// ErrNotFound is returned when a document id has no record.
var ErrNotFound = errors.New("document not found")

var (
	documentsBucket = []byte("documents")
	chunksBucket    = []byte("chunks")
)

// Store wraps the bbolt database. All methods are safe for concurrent use.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path and ensures the buckets
// exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{documentsBucket, chunksBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateDocument writes a new document record.
func (s *Store) CreateDocument(doc *document.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Put([]byte(doc.ID), data)
	})
}

// GetDocument returns the record for id, or ErrNotFound.
func (s *Store) GetDocument(id string) (*document.Document, error) {
	var doc *document.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(documentsBucket).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		doc = &document.Document{}
		return json.Unmarshal(v, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns all document records, newest upload first.
func (s *Store) ListDocuments() ([]*document.Document, error) {
	var docs []*document.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).ForEach(func(_, v []byte) error {
			doc := &document.Document{}
			if err := json.Unmarshal(v, doc); err != nil {
				return err
			}
			docs = append(docs, doc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// UpdateDocument applies mutate to the stored record in a single
// transaction and returns the updated copy.
func (s *Store) UpdateDocument(id string, mutate func(*document.Document)) (*document.Document, error) {
	var doc *document.Document
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(documentsBucket)
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		doc = &document.Document{}
		if err := json.Unmarshal(v, doc); err != nil {
			return err
		}
		mutate(doc)
		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ReplaceChunks atomically replaces every chunk of a document. Replacing
// rather than appending keeps re-processing idempotent.
func (s *Store) ReplaceChunks(documentID string, chunks []document.StoredChunk) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(chunksBucket)
		prefix := chunkPrefix(documentID)

		var stale [][]byte
		c := b.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			stale = append(stale, append([]byte(nil), k...))
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		for _, chunk := range chunks {
			data, err := json.Marshal(chunk)
			if err != nil {
				return fmt.Errorf("marshal chunk %d: %w", chunk.ChunkIndex, err)
			}
			if err := b.Put(chunkKey(documentID, chunk.ChunkIndex), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListChunks returns a document's chunks in chunk-index order.
func (s *Store) ListChunks(documentID string) ([]document.StoredChunk, error) {
	var chunks []document.StoredChunk
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(chunksBucket).Cursor()
		prefix := chunkPrefix(documentID)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var chunk document.StoredChunk
			if err := json.Unmarshal(v, &chunk); err != nil {
				return err
			}
			chunks = append(chunks, chunk)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

func chunkPrefix(documentID string) []byte {
	return []byte(documentID + "/")
}

// chunkKey orders chunks of one document by index under a cursor scan.
func chunkKey(documentID string, index int) []byte {
	key := make([]byte, 0, len(documentID)+9)
	key = append(key, chunkPrefix(documentID)...)
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], uint64(index))
	return append(key, idx[:]...)
}
