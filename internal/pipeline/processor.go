// Package pipeline turns uploaded PDF files into persisted chunks: it
// composes extraction, normalization, section detection, and chunking,
// and runs them behind an asynchronous worker pool.
package pipeline

import (
	"log/slog"
	"strings"

	"github.com/tzimmer/lawchunk/internal/chunker"
	"github.com/tzimmer/lawchunk/internal/extractor"
	"github.com/tzimmer/lawchunk/internal/textproc"
)

// Extractor pulls per-page text from a PDF file.
type Extractor interface {
	ExtractPages(path string) ([]extractor.PageText, error)
}

// Processor is the synchronous per-document pipeline. It holds no
// per-invocation state, so one Processor serves any number of documents
// concurrently, and re-running a file reproduces the identical chunk
// sequence.
type Processor struct {
	extractor Extractor
	chunkCfg  chunker.Config
	log       *slog.Logger
}

func NewProcessor(ext Extractor, chunkCfg chunker.Config, log *slog.Logger) *Processor {
	if chunkCfg.MinLength <= 0 || chunkCfg.MaxLength <= 0 {
		chunkCfg = chunker.DefaultConfig()
	}
	return &Processor{
		extractor: ext,
		chunkCfg:  chunkCfg,
		log:       log,
	}
}

// Process runs the full pipeline on one file. Extraction failures
// propagate; a file that extracts cleanly but yields no chunks returns an
// empty slice and no error, which the caller must treat as a distinct
// outcome from success-with-content. The source file is only open during
// extraction.
func (p *Processor) Process(path string) ([]chunker.Chunk, error) {
	pages, err := p.extractor.ExtractPages(path)
	if err != nil {
		return nil, err
	}

	var chunks []chunker.Chunk
	next := 0
	for _, page := range pages {
		text := textproc.Normalize(page.Text)
		if len(strings.TrimSpace(text)) < p.chunkCfg.MinLength {
			continue
		}
		section := textproc.DetectSection(text)

		pageChunks := chunker.Split(text, page.Number, section, p.chunkCfg)
		// Renumber local page indices into the document-global sequence.
		for i := range pageChunks {
			pageChunks[i].Index = next
			next++
		}
		chunks = append(chunks, pageChunks...)
	}

	p.log.Info("processed document", "path", path, "pages", len(pages), "chunks", len(chunks))
	return chunks, nil
}
