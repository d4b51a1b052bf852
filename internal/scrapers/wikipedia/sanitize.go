package wikipedia

import (
	"regexp"
	"strings"
)

// noisePatterns are the fragments removed from a paragraph, they do not
// depend on each other so the order is irrelevant.
var noisePatterns = []*regexp.Regexp{
	// citation markers: [1], [23]
	regexp.MustCompile(`\[\d+\]`),
	// parenthetical asides, single level
	regexp.MustCompile(`\(.*?\)`),
	// markup that survived text extraction
	regexp.MustCompile(`<.*?>`),
	regexp.MustCompile(`/`),
	// em dash, en dash, dagger, right arrow
	regexp.MustCompile(`[—–†→]`),
	regexp.MustCompile(`(?i)pronunciation:.*`),
	regexp.MustCompile(`(?i)citation needed`),
}

// ascii whitespace, vertical tab, next line, and every unicode space
// separator (nbsp shows up a lot in wikipedia text)
var whitespaceRegex = regexp.MustCompile(`[\s\x{0B}\x{85}\p{Z}]+`)

func sanitizeOnce(text string) string {
	for _, pattern := range noisePatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Sanitize turns the raw text of a paragraph into a single clean line.
//
// Removing a fragment can expose a new one (ex. "[1[2]]" or "citation\n
// needed"), so the cleanup is repeated until the text stops changing. After
// the first pass, every pass that changes the text makes it shorter.
func Sanitize(raw string) string {
	text := sanitizeOnce(raw)
	for {
		next := sanitizeOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}
