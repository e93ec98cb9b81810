// Package extract derives structured signals from fetched HTML: titles,
// metadata, reader-visible text, classified media references, and visual
// style cues. Every extraction is independent and tolerant of missing
// elements; a failed side-fetch never fails the page.
package extract

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Config controls extraction behavior.
type Config struct {
	UserAgent            string
	Timeout              time.Duration
	VisibleTextLimit     int
	ProbeImageDimensions bool
}

// Extractor parses pages and runs the per-field extraction heuristics.
// The embedded HTTP client serves the best-effort side-fetches: linked
// stylesheets and image dimension probes.
type Extractor struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New builds an Extractor.
func New(cfg Config, logger *zap.Logger) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.VisibleTextLimit <= 0 {
		cfg.VisibleTextLimit = 20000
	}
	return &Extractor{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Document is a parsed page plus the base URL used to resolve relative
// references. The raw bytes are retained so destructive extractions can
// re-parse their own tree.
type Document struct {
	doc  *goquery.Document
	base *url.URL
	raw  []byte
}

// Parse builds a Document from raw HTML fetched at pageURL.
func (e *Extractor) Parse(pageURL string, raw []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	// Relative references resolve against the site root, not the page
	// path, so "btn.gif" on /pages/about.html lands at /btn.gif.
	root := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: "/"}
	return &Document{doc: doc, base: root, raw: raw}, nil
}

// Query exposes the parsed tree for collaborators that scan metadata
// directly, such as the temporal resolver.
func (d *Document) Query() *goquery.Document {
	return d.doc
}

// resolve turns a possibly-relative reference into an absolute URL
// against the document origin. Unparseable references come back as-is.
func (d *Document) resolve(ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return d.base.ResolveReference(parsed).String()
}

// orderedSet keeps first-seen insertion order with exact-string dedup.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) Add(v string) bool {
	if v == "" {
		return false
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *orderedSet) Items() []string {
	return s.items
}
