package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRobotsGateDisallowedPath(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	gate := NewRobotsGate(true, "indiescraper/1.0", 5*time.Second, zap.NewNop())

	require.False(t, gate.Allowed(context.Background(), server.URL+"/private/page.html"))
	require.True(t, gate.Allowed(context.Background(), server.URL+"/index.html"))
}

func TestRobotsGateFailsOpenOnTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	gate := NewRobotsGate(true, "indiescraper/1.0", time.Second, zap.NewNop())
	require.True(t, gate.Allowed(context.Background(), server.URL+"/page.html"))
}

func TestRobotsGateCachesPerHost(t *testing.T) {
	t.Parallel()

	var robotsFetches atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsFetches.Add(1)
			_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
		}
	}))
	t.Cleanup(server.Close)

	gate := NewRobotsGate(true, "indiescraper/1.0", 5*time.Second, zap.NewNop())

	for i := 0; i < 4; i++ {
		require.True(t, gate.Allowed(context.Background(), server.URL+"/page.html"))
	}
	require.Equal(t, int32(1), robotsFetches.Load(), "robots.txt should be fetched once per host")
}

func TestRobotsGateSendsUserAgent(t *testing.T) {
	t.Parallel()

	var gotAgent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			gotAgent.Store(r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
		}
	}))
	t.Cleanup(server.Close)

	gate := NewRobotsGate(true, "atlas-bot/2.0", 5*time.Second, zap.NewNop())
	require.True(t, gate.Allowed(context.Background(), server.URL+"/"))
	require.Equal(t, "atlas-bot/2.0", gotAgent.Load())
}

func TestRobotsGateDisabledAllowsEverything(t *testing.T) {
	t.Parallel()

	gate := NewRobotsGate(false, "indiescraper/1.0", time.Second, zap.NewNop())
	require.True(t, gate.Allowed(context.Background(), "https://example.com/anything"))
	require.True(t, gate.Allowed(context.Background(), "not a url"))
}

func TestRobotsGateRejectsUnparsableURL(t *testing.T) {
	t.Parallel()

	gate := NewRobotsGate(true, "indiescraper/1.0", time.Second, zap.NewNop())
	require.False(t, gate.Allowed(context.Background(), "relative/path/only"))
}
