package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/evidentia/internal/model"
)

const longParagraph = "The assembly approved the measure after a lengthy debate that ran well into the night, " +
	"with members citing budget projections, independent audits and testimony from regional officials. " +
	"Opponents argued that the projections relied on optimistic growth assumptions."

func TestExtractWikipedia(t *testing.T) {
	page := `<html><head><title>Laksa - Wikipedia</title></head><body>
	<h1 id="firstHeading">Laksa</h1>
	<div id="mw-content-text"><div class="mw-parser-output">
		<table class="infobox"><tr><td><p>Infobox text that must not leak</p></td></tr></table>
		<p>` + longParagraph + `<sup>[1]</sup></p>
		<p>Laksa is a spicy noodle soup.[citation needed]</p>
		<div class="reflist"><p>Reference list entry</p></div>
	</div></div></body></html>`

	doc, err := NewExtractor().Extract([]byte(page), "https://en.wikipedia.org/wiki/Laksa", "text/html")
	require.NoError(t, err)

	assert.Equal(t, "wikipedia", doc.Adapter)
	assert.Equal(t, "Laksa - Wikipedia", doc.Title)
	assert.Contains(t, doc.Text, "spicy noodle soup.")
	assert.NotContains(t, doc.Text, "Infobox")
	assert.NotContains(t, doc.Text, "Reference list")
	assert.NotContains(t, doc.Text, "[1]")
	assert.NotContains(t, doc.Text, "citation needed")
}

func TestExtractLegal(t *testing.T) {
	page := `<html><body><nav>Home | Acts</nav><main>
		<h2>Section 3</h2><p>` + longParagraph + `</p><li>The Secretary of State must publish a report.</li>
	</main><footer>Crown copyright</footer></body></html>`

	doc, err := NewExtractor().Extract([]byte(page), "https://www.legislation.gov.uk/ukpga/2020/1", "text/html")
	require.NoError(t, err)

	assert.Equal(t, "legal", doc.Adapter)
	assert.Contains(t, doc.Text, "Section 3")
	assert.Contains(t, doc.Text, "must publish a report")
	assert.NotContains(t, doc.Text, "Crown copyright")
}

func TestExtractGenericArticle(t *testing.T) {
	page := `<html><head>
		<title>Budget vote</title>
		<meta property="article:published_time" content="2024-03-05T10:00:00Z">
		<meta name="author" content="A. Reporter">
	</head><body>
		<nav>Menu Sports Weather</nav>
		<article><h1>Budget vote</h1>
			<p>` + longParagraph + `</p>
			<p>` + longParagraph + `</p>
			<p>` + longParagraph + `</p>
		</article>
		<script>var tracking = true;</script>
	</body></html>`

	doc, err := NewExtractor().Extract([]byte(page), "https://news.example.com/budget", "text/html; charset=utf-8")
	require.NoError(t, err)

	assert.Contains(t, doc.Text, "optimistic growth assumptions")
	assert.NotContains(t, doc.Text, "tracking")
	assert.Equal(t, "A. Reporter", doc.Author)
	require.NotNil(t, doc.PublishedAt)
	assert.True(t, doc.PublishedAt.Equal(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)))
}

func TestExtractFallsBackToVisibleText(t *testing.T) {
	page := `<html><body><div>Short note.</div><script>ignored()</script></body></html>`

	doc, err := NewExtractor().Extract([]byte(page), "https://example.com/", "text/html")
	require.NoError(t, err)
	assert.Equal(t, "visible-text", doc.Adapter)
	assert.Equal(t, "Short note.", doc.Text)

	_, err = NewExtractor().Extract([]byte(`<html><body><script>x()</script></body></html>`), "https://example.com/", "text/html")
	assert.Error(t, err)
}

func TestExtractPlainText(t *testing.T) {
	doc, err := NewExtractor().Extract([]byte("line one\r\n\r\n  line   two "), "https://example.com/a.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", doc.Text)
	assert.Equal(t, "plain", doc.Adapter)
}

func TestParseDate(t *testing.T) {
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("not a date"))

	got := ParseDate("March 5, 2024")
	require.NotNil(t, got)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
	assert.Equal(t, "First sentence here. Second one.", Truncate("First sentence here. Second one. Third sentence is long", 40))
	assert.Equal(t, "abcdefghij", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "héllo", Truncate("héllo wörld", 5))
}

func TestFactDeduplicator(t *testing.T) {
	prior := []model.Fact{{Text: "The court annulled the first round of the presidential election in 2024"}}
	d := NewFactDeduplicator(DefaultFactSimilarity, prior)

	incoming := []model.Fact{
		{ID: "restated", Text: "In 2024 the court annulled the first round of the presidential election."},
		{ID: "contained", Text: "Court annulled first round presidential election"},
		{ID: "new", Text: "Turnout in the rerun reached 52 percent"},
		{ID: "again", Text: "Turnout in the rerun reached 52 percent."},
		{ID: "empty", Text: "the of and"},
	}

	kept, dropped := d.Filter(incoming)
	require.Len(t, kept, 1)
	assert.Equal(t, "new", kept[0].ID)
	assert.Equal(t, 4, dropped)
}

func TestCleanFactText(t *testing.T) {
	assert.Equal(t, "Inflation fell to 3%", CleanFactText(`  - "Inflation   fell to 3%" `))
	assert.True(t, strings.HasPrefix(CleanFactText("• Rates rose"), "Rates"))
}
