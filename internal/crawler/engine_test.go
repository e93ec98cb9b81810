package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type denyListPolicy struct {
	denied map[string]bool
}

func (p *denyListPolicy) Allowed(_ context.Context, rawURL string) bool {
	return !p.denied[rawURL]
}

type recordingPauser struct {
	pauses []time.Duration
}

func (p *recordingPauser) Pause(_ context.Context, delay time.Duration) {
	p.pauses = append(p.pauses, delay)
}

func newTestEngine(gate RobotsPolicy, fetcher *Fetcher, delay time.Duration) (*Engine, *recordingPauser) {
	assembler := NewAssembler(nil, nil, nil, nil, zap.NewNop())
	engine := NewEngine(EngineConfig{Delay: delay}, gate, fetcher, assembler, zap.NewNop())
	pauser := &recordingPauser{}
	engine.pauser = pauser
	return engine, pauser
}

func TestEngineBlockedTargetProducesEmptyRecord(t *testing.T) {
	t.Parallel()

	gate := &denyListPolicy{denied: map[string]bool{"https://example.com/a": true}}
	engine, _ := newTestEngine(gate, nil, 0)

	records := engine.Run(context.Background(), []CrawlTarget{{URL: "https://example.com/a", Tag: "pet"}})

	require.Len(t, records, 1)
	require.Equal(t, "https://example.com/a", records[0].URL)
	require.Equal(t, "pet", records[0].Tag)
	require.Equal(t, "Blocked by robots.txt", records[0].Error)
	require.Empty(t, records[0].Title)
	require.Empty(t, records[0].VisibleText)
	require.False(t, records[0].HasGIF())
}

func TestEngineEmitsRecordPerTargetAndPausesBetween(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	fetcher := NewFetcher(FetcherConfig{UserAgent: "t", Timeout: 5 * time.Second}, zap.NewNop())
	engine, pauser := newTestEngine(&allowAllPolicy{}, fetcher, 2*time.Second)

	targets := []CrawlTarget{
		{URL: server.URL + "/one"},
		{URL: server.URL + "/two"},
		{URL: server.URL + "/three"},
	}
	records := engine.Run(context.Background(), targets)

	require.Len(t, records, 3)
	for i, record := range records {
		require.Equal(t, targets[i].URL, record.URL)
		require.Equal(t, "http status 403", record.Error)
	}

	// One jitter pause per target plus one fixed delay between each
	// consecutive pair, never after the last.
	var fixed int
	for _, p := range pauser.pauses {
		if p == 2*time.Second {
			fixed++
		}
	}
	require.Equal(t, 2, fixed)
	require.Len(t, pauser.pauses, 5)
}

func TestEngineReturnsPartialRecordsOnCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine, _ := newTestEngine(&allowAllPolicy{}, nil, 0)
	records := engine.Run(ctx, []CrawlTarget{{URL: "https://example.com/a"}})

	require.Empty(t, records)
}

func TestRandomJitterBounds(t *testing.T) {
	t.Parallel()

	require.Equal(t, time.Duration(0), randomJitter(0))
	for i := 0; i < 50; i++ {
		j := randomJitter(100 * time.Millisecond)
		require.GreaterOrEqual(t, j, time.Duration(0))
		require.Less(t, j, 100*time.Millisecond)
	}
}
