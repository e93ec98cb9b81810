package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/indieweb-atlas/indiescraper/internal/extract"
	"github.com/indieweb-atlas/indiescraper/internal/language"
	"github.com/indieweb-atlas/indiescraper/internal/platform"
	"github.com/indieweb-atlas/indiescraper/internal/temporal"
)

const assemblerTestPage = `<!DOCTYPE html>
<html>
<head>
  <title>My Corner of the Web</title>
  <meta name="description" content="a tiny personal site">
  <meta name="keywords" content="pixel art, diary">
  <meta name="date" content="2021-01-02T10:00:00Z">
  <style>body { background: #ff00ff; font-family: "Comic Sans MS", cursive; }</style>
</head>
<body>
  <h1>Welcome!</h1>
  <p>I collect buttons and blinkies.</p>
  <img src="/buttons/btn.gif" width="88" height="31">
  <img src="/art/sparkle.gif">
  <audio src="/music/theme.mid"></audio>
</body>
</html>`

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()

	extractor := extract.New(extract.Config{
		UserAgent:            "indiescraper/1.0",
		Timeout:              5 * time.Second,
		VisibleTextLimit:     20000,
		ProbeImageDimensions: false,
	}, zap.NewNop())
	classifier := language.New(language.Config{MinTextChars: 50, MaxTextChars: 8000})
	resolver := temporal.New(temporal.Config{
		IncludeGMT: true,
		UserAgent:  "indiescraper/1.0",
		Timeout:    5 * time.Second,
	}, zap.NewNop())
	neocities := platform.NewNeocitiesClient(platform.DefaultNeocitiesAPI, "indiescraper/1.0", 5*time.Second, zap.NewNop())

	return NewAssembler(extractor, classifier, resolver, neocities, zap.NewNop())
}

func TestAssembleFullRecord(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", "Mon, 04 Jan 2021 18:30:00 GMT")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(assemblerTestPage))
	}))
	t.Cleanup(server.Close)

	assembler := newTestAssembler(t)
	target := CrawlTarget{URL: server.URL + "/index.html", Tag: "pet"}
	fetch := FetchResult{
		URL:        target.URL,
		StatusCode: http.StatusOK,
		Body:       []byte(assemblerTestPage),
	}

	record := assembler.Assemble(context.Background(), target, fetch)

	require.Empty(t, record.Error)
	require.Equal(t, "My Corner of the Web", record.Title)
	require.Equal(t, "a tiny personal site", record.MetaDescription)
	require.Equal(t, "pixel art, diary", record.Keywords)
	require.Contains(t, record.VisibleText, "I collect buttons and blinkies.")
	require.NotContains(t, record.VisibleText, "background")

	require.Equal(t, "02/01/2021 10:00 GMT", record.CreatedAt)
	require.Equal(t, "04/01/2021 18:30 GMT", record.LastUpdated)

	require.Equal(t, "Unknown", record.Platform)
	require.Empty(t, record.TagsAPI)

	require.True(t, record.HasGIF())
	require.True(t, record.HasButtons(), "88x31 image should classify as a button")
	require.Contains(t, record.Media.Buttons, server.URL+"/buttons/btn.gif")
	require.True(t, record.HasSounds())
	require.Contains(t, record.Media.Sounds, server.URL+"/music/theme.mid")

	require.Contains(t, record.Style.BackgroundColors, "#ff00ff")
	require.Equal(t, "comic", record.Style.FontFamily)
	require.Contains(t, record.Style.FontList, "comic sans ms, cursive")
}

func TestAssembleFetchErrorYieldsBareRecord(t *testing.T) {
	t.Parallel()

	assembler := NewAssembler(nil, nil, nil, nil, zap.NewNop())
	target := CrawlTarget{URL: "https://example.com/", Tag: "x"}
	fetch := FetchResult{URL: target.URL, Err: NewHTTPStatusError(http.StatusServiceUnavailable)}

	record := assembler.Assemble(context.Background(), target, fetch)

	require.Equal(t, target.URL, record.URL)
	require.Equal(t, "x", record.Tag)
	require.Equal(t, "http status 503", record.Error)
	require.Empty(t, record.Title)
	require.Empty(t, record.Media.GIFs)
}

func TestBlockedRecordCarriesOnlyIdentity(t *testing.T) {
	t.Parallel()

	assembler := NewAssembler(nil, nil, nil, nil, zap.NewNop())
	record := assembler.BlockedRecord(CrawlTarget{URL: "https://example.com/", Tag: "webring"})

	require.Equal(t, "Blocked by robots.txt", record.Error)
	require.Equal(t, "webring", record.Tag)
	require.Empty(t, record.VisibleText)
	require.Empty(t, record.CreatedAt)
}

func TestCrawlErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := context.DeadlineExceeded
	err := NewTransportError(cause)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, ErrTransport, err.Kind)
}
