// Package chunker splits normalized page text into bounded-size,
// sentence-respecting chunks suitable for downstream embedding.
package chunker

import (
	"strings"
	"unicode"
)

// Config controls chunking behavior. Lengths are in bytes of normalized
// text, which is ASCII apart from preserved dash runes.
type Config struct {
	MinLength int // Minimum chunk length to emit.
	MaxLength int // Maximum chunk length.
}

// DefaultConfig returns the pipeline-wide defaults.
func DefaultConfig() Config {
	return Config{
		MinLength: 50,
		MaxLength: 2000,
	}
}

// Chunk is one bounded unit of document text. Index is local to a single
// Split call, starting at 0; the pipeline renumbers indices into the
// document-global sequence.
type Chunk struct {
	Text       string
	PageNumber int
	Section    string
	Index      int
}

// Split packs sentences greedily into chunks of at most cfg.MaxLength,
// falling back to word-level packing when a single sentence exceeds the
// limit. A buffer is only emitted when its trimmed length reaches
// cfg.MinLength; shorter buffers are dropped at flush time, including the
// final one. Pages whose text is below cfg.MinLength contribute nothing.
//
// TODO: the under-length final buffer is dropped rather than merged into
// the previous chunk, losing trailing text at page boundaries; switching
// to a merge-into-previous flush needs product sign-off because it moves
// chunk boundaries for every already-indexed document.
func Split(text string, pageNumber int, section string, cfg Config) []Chunk {
	if cfg.MinLength <= 0 {
		cfg.MinLength = 50
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 2000
	}

	if len(strings.TrimSpace(text)) < cfg.MinLength {
		return nil
	}

	var chunks []Chunk
	index := 0
	emit := func(buf string) {
		trimmed := strings.TrimSpace(buf)
		if len(trimmed) < cfg.MinLength {
			// Dropped, not merged back.
			return
		}
		chunks = append(chunks, Chunk{
			Text:       trimmed,
			PageNumber: pageNumber,
			Section:    section,
			Index:      index,
		})
		index++
	}

	var current string
	for _, sentence := range splitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if current != "" && len(current)+len(sentence)+1 > cfg.MaxLength {
			emit(current)
			current = sentence
		} else if current != "" {
			current += " " + sentence
		} else {
			current = sentence
		}

		// A single sentence longer than the limit: switch to word-level
		// packing and carry the remainder as the new buffer.
		if len(current) > cfg.MaxLength {
			current = packWords(current, cfg, emit)
		}
	}

	emit(current)

	return chunks
}

// packWords greedily packs whitespace-separated words into full chunks,
// emitting each one through flush, and returns the unflushed remainder.
// A single word longer than MaxLength comes back as an oversized
// remainder and is emitted whole: the bound yields to word integrity,
// since splitting mid-word would corrupt tokens like citations or URLs.
func packWords(text string, cfg Config, flush func(string)) string {
	var buf string
	for _, word := range strings.Fields(text) {
		if buf != "" && len(buf)+len(word)+1 > cfg.MaxLength {
			flush(buf)
			buf = word
		} else if buf != "" {
			buf += " " + word
		} else {
			buf = word
		}
	}
	return buf
}

// splitSentences cuts text after '.', '!', or '?' followed by whitespace.
// This is a heuristic boundary: abbreviations and decimal numbers
// mis-split, which the length bounds absorb.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}

	return sentences
}
