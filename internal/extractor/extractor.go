package extractor

import (
	"errors"
	"fmt"
	"log/slog"
)

// PageText is the raw text pulled from one PDF page. Page numbers are
// 1-based positions in the source file; pages with no extractable text
// are never emitted, and numbering is not compacted after skips.
type PageText struct {
	Text   string
	Number int
}

// Backend is one PDF text extraction strategy.
type Backend interface {
	Name() string
	Available() bool
	ExtractPages(path string) ([]PageText, error)
}

// ErrNoBackend is returned when no extraction backend is available.
var ErrNoBackend = errors.New("no backend available")

// Chain tries backends in order. The first backend that returns at least
// one non-blank page wins, even if some of its pages were skipped. A
// backend that errors or yields nothing falls through to the next one.
type Chain struct {
	backends []Backend
	log      *slog.Logger
}

func NewChain(log *slog.Logger, backends ...Backend) *Chain {
	return &Chain{backends: backends, log: log}
}

// DefaultChain builds the standard backend order: the fast native reader
// first, the layout-aware MuPDF reader second, and the external pdftotext
// tool last when enabled.
func DefaultChain(log *slog.Logger, fallbackPdftotext bool) *Chain {
	backends := []Backend{
		NewPDFLibBackend(log),
		NewFitzBackend(log),
	}
	if fallbackPdftotext {
		backends = append(backends, NewPdftotextBackend(log))
	}
	return NewChain(log, backends...)
}

// ExtractPages runs the chain against one file. It returns ErrNoBackend
// when no backend is available, a wrapped "extraction failed" error when
// every available backend errored, and an empty page list (success) when
// backends ran cleanly but the file has no extractable text.
func (c *Chain) ExtractPages(path string) ([]PageText, error) {
	available := 0
	var lastErr error

	for _, b := range c.backends {
		if !b.Available() {
			c.log.Debug("extraction backend unavailable", "backend", b.Name())
			continue
		}
		available++

		pages, err := b.ExtractPages(path)
		if err != nil {
			c.log.Warn("extraction backend failed", "backend", b.Name(), "path", path, "error", err)
			lastErr = err
			continue
		}
		if len(pages) > 0 {
			c.log.Info("extracted text", "backend", b.Name(), "path", path, "pages", len(pages))
			return pages, nil
		}
		c.log.Debug("extraction backend yielded no text", "backend", b.Name(), "path", path)
	}

	if available == 0 {
		return nil, ErrNoBackend
	}
	if lastErr != nil {
		return nil, fmt.Errorf("extraction failed: %w", lastErr)
	}
	// Every backend ran cleanly but found nothing. That is a degenerate
	// document, not an extraction failure.
	return nil, nil
}
