// Package metrics exposes Prometheus collectors for the scraper.
package metrics

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scraperPagesTotal         *prometheus.CounterVec
	scraperBytesTotal         *prometheus.CounterVec
	scraperRobotsBlockedTotal prometheus.Counter
	scraperSideFetchesTotal   *prometheus.CounterVec
	scraperScreenshotsTotal   *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scraperPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_pages_total",
				Help: "Total number of pages fetched, labeled by site and outcome.",
			},
			[]string{"site", "outcome"},
		)

		scraperBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_bytes_total",
				Help: "Total number of page bytes fetched, labeled by site.",
			},
			[]string{"site"},
		)

		scraperRobotsBlockedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scraper_robots_blocked_total",
				Help: "Total number of URLs skipped because robots.txt disallowed them.",
			},
		)

		scraperSideFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_side_fetches_total",
				Help: "Total linked-CSS, image-probe and HEAD side requests, labeled by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		)

		scraperScreenshotsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_screenshots_total",
				Help: "Total screenshot captures, labeled by outcome.",
			},
			[]string{"outcome"},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch increments the page counters for one fetch attempt.
func ObserveFetch(site string, outcome string, bytesFetched int) {
	if scraperPagesTotal == nil {
		return
	}
	sanitized := SanitizeSite(site)
	scraperPagesTotal.WithLabelValues(sanitized, outcome).Inc()
	if bytesFetched > 0 {
		scraperBytesTotal.WithLabelValues(sanitized).Add(float64(bytesFetched))
	}
}

// ObserveRobotsBlocked increments the robots disallow counter.
func ObserveRobotsBlocked() {
	if scraperRobotsBlockedTotal == nil {
		return
	}
	scraperRobotsBlockedTotal.Inc()
}

// ObserveSideFetch records a best-effort side request (linked CSS,
// image dimension probe, HEAD).
func ObserveSideFetch(kind string, outcome string) {
	if scraperSideFetchesTotal == nil {
		return
	}
	scraperSideFetchesTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveScreenshot records a visual-mode capture attempt.
func ObserveScreenshot(outcome string) {
	if scraperScreenshotsTotal == nil {
		return
	}
	scraperScreenshotsTotal.WithLabelValues(outcome).Inc()
}
