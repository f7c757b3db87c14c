package extractor

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// PdftotextBackend shells out to the poppler pdftotext tool. It is the
// last resort: an external dependency, but battle-tested on PDFs the
// library backends cannot read. The -layout flag preserves the physical
// text layout, and pages arrive separated by form feeds.
type PdftotextBackend struct {
	log *slog.Logger
}

func NewPdftotextBackend(log *slog.Logger) *PdftotextBackend {
	return &PdftotextBackend{log: log}
}

func (b *PdftotextBackend) Name() string { return "pdftotext" }

func (b *PdftotextBackend) Available() bool {
	_, err := exec.LookPath("pdftotext")
	return err == nil
}

func (b *PdftotextBackend) ExtractPages(path string) ([]PageText, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return pagesFromText(string(out)), nil
}

// pagesFromText splits pdftotext output on form feeds, keeping true
// 1-based page positions and dropping blank pages.
func pagesFromText(text string) []PageText {
	var pages []PageText
	for i, page := range strings.Split(text, "\f") {
		if strings.TrimSpace(page) == "" {
			continue
		}
		pages = append(pages, PageText{Text: page, Number: i + 1})
	}
	return pages
}
