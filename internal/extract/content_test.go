package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	return New(Config{
		UserAgent:            "indiescraper/1.0",
		Timeout:              5 * time.Second,
		VisibleTextLimit:     20000,
		ProbeImageDimensions: false,
	}, zap.NewNop())
}

func mustParse(t *testing.T, pageURL, html string) (*Extractor, *Document) {
	t.Helper()
	e := testExtractor(t)
	doc, err := e.Parse(pageURL, []byte(html))
	require.NoError(t, err)
	return e, doc
}

func TestTitleFromTitleElement(t *testing.T) {
	t.Parallel()

	e, doc := mustParse(t, "https://example.com/",
		`<html><head><title>  My Site  </title></head><body></body></html>`)
	require.Equal(t, "My Site", e.Title(doc))
}

func TestTitleFallsBackToOpenGraph(t *testing.T) {
	t.Parallel()

	e, doc := mustParse(t, "https://example.com/",
		`<html><head><meta property="og:title" content="OG Name"></head><body></body></html>`)
	require.Equal(t, "OG Name", e.Title(doc))
}

func TestTitleEmptyWhenAbsent(t *testing.T) {
	t.Parallel()

	e, doc := mustParse(t, "https://example.com/", `<html><body>no head</body></html>`)
	require.Empty(t, e.Title(doc))
}

func TestMetaMatchesNameCaseInsensitively(t *testing.T) {
	t.Parallel()

	e, doc := mustParse(t, "https://example.com/",
		`<html><head>
			<meta name="Description" content="about my cats">
			<meta name="KEYWORDS" content="cats, html">
		</head><body></body></html>`)
	require.Equal(t, "about my cats", e.Meta(doc, "description"))
	require.Equal(t, "cats, html", e.Meta(doc, "keywords"))
	require.Empty(t, e.Meta(doc, "author"))
}

func TestMetaSkipsEmptyContent(t *testing.T) {
	t.Parallel()

	e, doc := mustParse(t, "https://example.com/",
		`<html><head>
			<meta name="description" content="">
			<meta name="description" content="the real one">
		</head><body></body></html>`)
	require.Equal(t, "the real one", e.Meta(doc, "description"))
}

func TestVisibleTextStripsChromeAndComments(t *testing.T) {
	t.Parallel()

	e, doc := mustParse(t, "https://example.com/", `<html><head>
		<style>body { color: red; }</style>
		<script>var hidden = 1;</script>
	</head><body>
		<nav>Skip me</nav>
		<!-- secret note -->
		<p>First paragraph.</p>
		<p>Second   paragraph.</p>
		<footer>Copyright</footer>
	</body></html>`)

	text := e.VisibleText(doc)
	require.Contains(t, text, "First paragraph.")
	require.Contains(t, text, "Second   paragraph.")
	require.NotContains(t, text, "color: red")
	require.NotContains(t, text, "hidden")
	require.NotContains(t, text, "Skip me")
	require.NotContains(t, text, "secret note")
	require.NotContains(t, text, "Copyright")
}

func TestVisibleTextRespectsRuneLimit(t *testing.T) {
	t.Parallel()

	e := New(Config{VisibleTextLimit: 10}, zap.NewNop())
	doc, err := e.Parse("https://example.com/",
		[]byte(`<html><body><p>`+strings.Repeat("ü", 50)+`</p></body></html>`))
	require.NoError(t, err)

	text := e.VisibleText(doc)
	require.Equal(t, 10, len([]rune(text)))
}

func TestVisibleTextLeavesDocumentIntact(t *testing.T) {
	t.Parallel()

	e, doc := mustParse(t, "https://example.com/",
		`<html><head><style>p{color:blue}</style><title>t</title></head><body><p>hi</p></body></html>`)

	_ = e.VisibleText(doc)
	// The shared tree still holds the style element afterwards.
	require.Equal(t, 1, doc.Query().Find("style").Length())
	require.Equal(t, "t", e.Title(doc))
}
