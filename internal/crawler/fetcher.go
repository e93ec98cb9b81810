package crawler

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/indieweb-atlas/indiescraper/internal/metrics"
)

// AcceptHeader is sent with every page fetch alongside the user agent.
const AcceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// FetcherConfig controls single-fetch behavior.
type FetcherConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher performs one bounded-timeout GET per call using a cloned Colly
// collector. It never retries; retry policy belongs to the caller.
type Fetcher struct {
	cfg           FetcherConfig
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewFetcher constructs a configured Colly-based Fetcher. Robots
// enforcement lives in RobotsGate, so the collector itself ignores
// robots.txt to avoid double-fetching it.
func NewFetcher(cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	base := colly.NewCollector(colly.UserAgent(cfg.UserAgent))
	base.IgnoreRobotsTxt = true
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        32,
		IdleConnTimeout:     30 * time.Second,
	})
	base.SetRequestTimeout(cfg.Timeout)

	return &Fetcher{
		cfg:           cfg,
		baseCollector: base,
		logger:        logger,
	}
}

// Fetch retrieves a single page. Every outcome, including transport and
// HTTP-status failures, is reported through the FetchResult so the
// caller can still emit a record for the URL.
func (f *Fetcher) Fetch(rawURL string) FetchResult {
	collector := f.baseCollector.Clone()

	result := FetchResult{URL: rawURL}
	start := time.Now()
	var once sync.Once

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", AcceptHeader)
	})

	collector.OnResponse(func(r *colly.Response) {
		once.Do(func() {
			result.StatusCode = r.StatusCode
			result.Headers = r.Headers.Clone()
			result.Body = append([]byte(nil), r.Body...)
		})
	})

	collector.OnError(func(r *colly.Response, err error) {
		once.Do(func() {
			if r != nil && r.StatusCode > 0 {
				result.StatusCode = r.StatusCode
				result.Err = NewHTTPStatusError(r.StatusCode)
				return
			}
			result.Err = NewTransportError(err)
		})
	})

	// Visit reports fetch errors both here and through OnError; the
	// first classification wins.
	if err := collector.Visit(rawURL); err != nil {
		once.Do(func() {
			result.Err = NewTransportError(err)
		})
	}
	collector.Wait()
	result.Duration = time.Since(start)

	switch {
	case result.Err != nil:
		metrics.ObserveFetch(rawURL, string(result.Err.Kind), 0)
		f.logger.Warn("Fetch failed",
			zap.String("url", rawURL),
			zap.Int("status_code", result.StatusCode),
			zap.String("kind", string(result.Err.Kind)))
	default:
		metrics.ObserveFetch(rawURL, "ok", len(result.Body))
	}
	return result
}
