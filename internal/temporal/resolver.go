// Package temporal derives creation and last-update timestamps for a
// page from platform APIs, HTML metadata, or transport headers, and
// normalizes every format to one canonical representation.
package temporal

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"github.com/indieweb-atlas/indiescraper/internal/metrics"
	"github.com/indieweb-atlas/indiescraper/internal/platform"
)

// canonicalLayout is the normalized timestamp form: UTC day-first date
// plus 24h time, optionally suffixed with " GMT".
const canonicalLayout = "02/01/2006 15:04"

// canonicalRe recognizes already-canonical strings so re-formatting is
// a fixed point (day-first dates must not be re-parsed month-first).
var canonicalRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4} \d{2}:\d{2}( GMT)?$`)

// candidate is one metadata location to scan, in priority order.
type candidate struct {
	selector string
	attr     string
}

var createdCandidates = []candidate{
	{`meta[name="date"]`, "content"},
	{`meta[property="article:published_time"]`, "content"},
	{`meta[property="og:published_time"]`, "content"},
	{`meta[itemprop="dateCreated"]`, "content"},
	{`time[datetime]`, "datetime"},
}

var updatedCandidates = []candidate{
	{`meta[property="article:modified_time"]`, "content"},
	{`meta[property="og:updated_time"]`, "content"},
	{`meta[itemprop="dateModified"]`, "content"},
	{`meta[name="last-modified"]`, "content"},
	{`time[itemprop="dateModified"]`, "datetime"},
}

// Config controls formatting and the HEAD fallback.
type Config struct {
	IncludeGMT bool
	UserAgent  string
	Timeout    time.Duration
}

// Resolver resolves temporal metadata for one page at a time.
type Resolver struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New builds a Resolver.
func New(cfg Config, logger *zap.Logger) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Resolver{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Created resolves the creation timestamp: platform API first, then the
// ordered metadata candidates. Empty when nothing resolves.
func (r *Resolver) Created(doc *goquery.Document, info *platform.SiteInfo) string {
	if info != nil && info.CreatedAt != "" {
		return r.Canonicalize(info.CreatedAt)
	}
	if raw := scanCandidates(doc, createdCandidates); raw != "" {
		return r.Canonicalize(raw)
	}
	return ""
}

// Updated resolves the last-update timestamp: platform API, metadata
// candidates, then a HEAD request for the Last-Modified header. The
// HEAD probe is best-effort; its failure leaves the field empty.
func (r *Resolver) Updated(ctx context.Context, rawURL string, doc *goquery.Document, info *platform.SiteInfo) string {
	if info != nil && info.LastUpdated != "" {
		return r.Canonicalize(info.LastUpdated)
	}
	if raw := scanCandidates(doc, updatedCandidates); raw != "" {
		return r.Canonicalize(raw)
	}
	if raw, err := r.headLastModified(ctx, rawURL); err == nil && raw != "" {
		return r.Canonicalize(raw)
	}
	return ""
}

// Canonicalize normalizes ISO-8601, RFC-2822 and other common web
// timestamp forms to UTC `DD/MM/YYYY HH:MM`, with a trailing GMT
// marker when configured. Already-canonical input is returned as-is,
// and unparseable input passes through unmodified as a best-effort
// fallback.
func (r *Resolver) Canonicalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if canonicalRe.MatchString(raw) {
		return raw
	}
	parsed, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return raw
	}
	formatted := parsed.UTC().Format(canonicalLayout)
	if r.cfg.IncludeGMT {
		formatted += " GMT"
	}
	return formatted
}

func scanCandidates(doc *goquery.Document, candidates []candidate) string {
	if doc == nil {
		return ""
	}
	for _, c := range candidates {
		sel := doc.Find(c.selector).First()
		if sel.Length() == 0 {
			continue
		}
		if v, ok := sel.Attr(c.attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		// meta content and time datetime are interchangeable in the wild
		other := "datetime"
		if c.attr == "datetime" {
			other = "content"
		}
		if v, ok := sel.Attr(other); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func (r *Resolver) headLastModified(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("new head request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)
	resp, err := r.client.Do(req)
	if err != nil {
		metrics.ObserveSideFetch("head", "error")
		return "", fmt.Errorf("head request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			r.logger.Debug("Failed to close head body", zap.Error(cerr))
		}
	}()
	metrics.ObserveSideFetch("head", "ok")
	return resp.Header.Get("Last-Modified"), nil
}
