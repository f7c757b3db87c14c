package textproc

import "regexp"

// sectionPatterns is an ordered priority list. The first pattern that
// matches anywhere in the text wins; later patterns are not consulted.
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Section\s+\d+(?:\.\d+)*`),
	regexp.MustCompile(`(?i)§\s*\d+(?:\.\d+)*`),
	regexp.MustCompile(`(?i)Article\s+\d+(?:\.\d+)*`),
	regexp.MustCompile(`(?i)Chapter\s+\d+(?:\.\d+)*`),
	regexp.MustCompile(`(?i)Part\s+\d+(?:\.\d+)*`),
}

// DetectSection returns the first legal section label found in the text,
// or an empty string when none matches. It runs once per page; the label
// is attached to every chunk derived from that page.
func DetectSection(text string) string {
	for _, re := range sectionPatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}
