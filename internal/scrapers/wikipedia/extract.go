package wikipedia

import (
	"fmt"
	"io"
	"strings"

	"leaders-scraper/internal/model"
	"leaders-scraper/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// captions of geographic coordinates come before the prose on many pages
const coordinatesPrefix = "coordinates"

// FirstParagraph returns the raw text of the first informative <p> of the
// document: non-blank and not a coordinates caption.
func FirstParagraph(doc *goquery.Document) (string, bool) {
	for _, node := range doc.Find("p").Nodes {
		text := htmlutil.GetText(node)
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || htmlutil.HasPrefixFold(trimmed, coordinatesPrefix) {
			continue
		}
		return text, true
	}
	return "", false
}

// ExtractFirstParagraph is FirstParagraph passed through Sanitize.
func ExtractFirstParagraph(doc *goquery.Document) (string, bool) {
	text, ok := FirstParagraph(doc)
	if !ok {
		return "", false
	}
	return Sanitize(text), true
}

// ExtractFirstParagraphFromReader parses an html document and extracts its
// first informative paragraph.
func ExtractFirstParagraphFromReader(r io.Reader) (string, bool, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", false, fmt.Errorf("%w: parse html: %w", model.ErrMalformedResponse, err)
	}
	summary, ok := ExtractFirstParagraph(doc)
	return summary, ok, nil
}
