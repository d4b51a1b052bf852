package wikipedia

import (
	"context"
	"strings"
	"testing"
	"time"

	"leaders-scraper/internal/components/telemetry"
	"leaders-scraper/internal/model"
	"leaders-scraper/internal/testutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractSkipsCoordinates(t *testing.T) {
	doc := parse(t, testutil.Article(
		"Coordinates: 51°N 4°E",
		"Real content.",
	))
	summary, ok := ExtractFirstParagraph(doc)
	require.True(t, ok)
	require.Equal(t, "Real content.", summary)
}

func TestExtractSkipsBlankParagraphs(t *testing.T) {
	doc := parse(t, testutil.Article(
		"   ",
		"\n",
		`<span class="mw-empty-elt"></span>`,
		`  COORDINATES : 50.8503° N`,
		`<b>Jane Doe</b> (<span>born 1950</span>) is a <a href="/wiki/Politician">politician</a>.<sup>[1]</sup>`,
		"A later paragraph.",
	))
	summary, ok := ExtractFirstParagraph(doc)
	require.True(t, ok)
	require.Equal(t, "Jane Doe is a politician.", summary)
}

func TestExtractNoParagraph(t *testing.T) {
	doc := parse(t, `<html><body><div>No paragraphs</div><p>Coordinates only</p></body></html>`)
	_, ok := ExtractFirstParagraph(doc)
	require.False(t, ok)
}

func TestFirstParagraphIsRaw(t *testing.T) {
	doc := parse(t, testutil.Article("Jane Doe[1] (1950–) is here."))
	text, ok := FirstParagraph(doc)
	require.True(t, ok)
	require.Equal(t, "Jane Doe[1] (1950–) is here.", text)
}

func TestExtractFromReader(t *testing.T) {
	summary, ok, err := ExtractFirstParagraphFromReader(strings.NewReader(
		testutil.Article("Jane Doe (1950–) is a stub leader."),
	))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Jane Doe is a stub leader.", summary)
}

func newTestClient() (*Client, *telemetry.RecordingAPI) {
	tel := &telemetry.RecordingAPI{}
	return NewClient(ClientOptions{Timeout: 5 * time.Second}, tel), tel
}

func TestClientFetchSummary(t *testing.T) {
	wiki := testutil.NewWikipedia(t)
	url := wiki.Page("Jane_Doe", testutil.Article(
		"Coordinates: 51°N",
		"Jane Doe (1950–) is a stub leader.",
	))
	client, _ := newTestClient()

	summary, found, err := client.FetchSummary(context.Background(), url)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Jane Doe is a stub leader.", summary)
}

func TestClientFetchSummaryStatus(t *testing.T) {
	wiki := testutil.NewWikipedia(t)
	client, _ := newTestClient()

	_, _, err := client.FetchSummary(context.Background(), wiki.Url("Missing"))
	require.ErrorIs(t, err, model.ErrFetch)
}

func TestClientFetchSummaryNotFound(t *testing.T) {
	wiki := testutil.NewWikipedia(t)
	url := wiki.Page("Empty", `<html><body><p>Coordinates: 1°N</p></body></html>`)
	client, tel := newTestClient()

	_, found, err := client.FetchSummary(context.Background(), url)
	require.NoError(t, err)
	require.False(t, found)
	require.Len(t, tel.Reports("warning"), 1)
}
