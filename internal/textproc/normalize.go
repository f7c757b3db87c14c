// Package textproc cleans raw page text from PDF extraction and detects
// legal section labels in it.
package textproc

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Allow word characters, whitespace, and the legal punctuation set.
	// Word characters are Unicode letters and digits, so accented names
	// survive. Anything else becomes a space so that stripping never
	// joins words.
	disallowedRe  = regexp.MustCompile(`[^\p{L}\p{N}_\s.,:;()\[\]{}'"\-—–]`)
	hyphenWrapRe  = regexp.MustCompile(`([\p{L}\p{N}_]+)-\s+([\p{L}\p{N}_]+)`)
	doubleSpaceRe = regexp.MustCompile(` {2,}`)
	sectionRefRe  = regexp.MustCompile(`Section\s+(\d+(?:\.\d+)*)`)
	enumeratorRe  = regexp.MustCompile(`\(\s*([a-z0-9]+)\s*\)`)
)

// Normalize cleans raw extracted text into a canonical single-line form.
// It is total: any input produces a valid (possibly empty) result.
//
// The steps run in a fixed order; the artifact repairs at the end assume
// whitespace has already been collapsed.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = whitespaceRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	// Extraction artifact repair: re-join words hyphenated across a line
	// wrap, squeeze stray double spaces, and canonicalize legal
	// cross-references.
	text = hyphenWrapRe.ReplaceAllString(text, "$1$2")
	text = doubleSpaceRe.ReplaceAllString(text, " ")
	text = sectionRefRe.ReplaceAllString(text, "Section $1")
	text = enumeratorRe.ReplaceAllString(text, "($1)")

	return text
}
