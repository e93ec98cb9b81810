package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNeocitiesInfoSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "candycorn", r.URL.Query().Get("sitename"))
		require.Equal(t, "indiescraper/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"result": "success",
			"info": {
				"sitename": "candycorn",
				"created_at": "Sat, 02 Jan 2021 10:00:00 -0000",
				"last_updated": "Mon, 04 Jan 2021 18:30:00 -0000",
				"tags": ["art", "diary"]
			}
		}`))
	}))
	t.Cleanup(server.Close)

	client := NewNeocitiesClient(server.URL, "indiescraper/1.0", 5*time.Second, zap.NewNop())
	info, err := client.Info(context.Background(), "https://candycorn.neocities.org/page.html")

	require.NoError(t, err)
	require.Equal(t, "Sat, 02 Jan 2021 10:00:00 -0000", info.CreatedAt)
	require.Equal(t, "Mon, 04 Jan 2021 18:30:00 -0000", info.LastUpdated)
	require.Equal(t, []string{"art", "diary"}, info.Tags)
}

func TestNeocitiesInfoNonNeocitiesHost(t *testing.T) {
	t.Parallel()

	client := NewNeocitiesClient("http://127.0.0.1:1", "indiescraper/1.0", time.Second, zap.NewNop())
	_, err := client.Info(context.Background(), "https://example.com/")
	require.ErrorIs(t, err, ErrNotNeocities)
}

func TestNeocitiesInfoErrorResult(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": "error", "error_type": "site_not_found"}`))
	}))
	t.Cleanup(server.Close)

	client := NewNeocitiesClient(server.URL, "indiescraper/1.0", 5*time.Second, zap.NewNop())
	_, err := client.Info(context.Background(), "https://ghost.neocities.org/")
	require.Error(t, err)
	require.Contains(t, err.Error(), `site info result "error"`)
}

func TestNeocitiesInfoHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewNeocitiesClient(server.URL, "indiescraper/1.0", 5*time.Second, zap.NewNop())
	_, err := client.Info(context.Background(), "https://someone.neocities.org/")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 502")
}
