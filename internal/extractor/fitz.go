package extractor

import (
	"log/slog"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// FitzBackend extracts page text with MuPDF. It is slower than the native
// reader but recovers text from complex layouts (multi-column pages,
// embedded fonts) that defeat the fast path.
type FitzBackend struct {
	log *slog.Logger
}

func NewFitzBackend(log *slog.Logger) *FitzBackend {
	return &FitzBackend{log: log}
}

func (b *FitzBackend) Name() string { return "fitz" }

func (b *FitzBackend) Available() bool { return true }

func (b *FitzBackend) ExtractPages(path string) ([]PageText, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	var pages []PageText
	numPages := doc.NumPage()
	for i := 0; i < numPages; i++ {
		text, err := doc.Text(i)
		if err != nil {
			b.log.Warn("page extraction failed", "backend", b.Name(), "page", i+1, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, PageText{Text: text, Number: i + 1})
	}
	return pages, nil
}
