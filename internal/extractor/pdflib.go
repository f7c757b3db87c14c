package extractor

import (
	"log/slog"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFLibBackend extracts page text with the native Go PDF reader. It is
// fast and handles most simple PDFs, but gives up on complex layouts and
// unusual font encodings.
type PDFLibBackend struct {
	log *slog.Logger
}

func NewPDFLibBackend(log *slog.Logger) *PDFLibBackend {
	return &PDFLibBackend{log: log}
}

func (b *PDFLibBackend) Name() string { return "pdflib" }

func (b *PDFLibBackend) Available() bool { return true }

func (b *PDFLibBackend) ExtractPages(path string) ([]PageText, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []PageText
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A broken page does not abort the document.
			b.log.Warn("page extraction failed", "backend", b.Name(), "page", i, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, PageText{Text: text, Number: i})
	}
	return pages, nil
}
