// Package crawler defines the core types and the sequential crawl engine.
package crawler

import (
	"net/http"
	"time"

	"github.com/indieweb-atlas/indiescraper/internal/extract"
	"github.com/indieweb-atlas/indiescraper/internal/language"
)

// CrawlTarget is one entry from the input list: a URL plus an optional
// free-form label carried through to the output row.
type CrawlTarget struct {
	URL string
	Tag string
}

// FetchResult is the outcome of a single fetch attempt. Body is only
// populated on success; Err carries the classified failure otherwise.
type FetchResult struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
	Err        *CrawlError
}

// OK reports whether the fetch produced a usable body.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// ExtractedRecord is the canonical output unit: one row per crawl target,
// produced regardless of failure at any stage. Failed sub-extractions
// leave their fields at zero values.
type ExtractedRecord struct {
	URL             string
	Tag             string
	Title           string
	MetaDescription string
	Keywords        string
	VisibleText     string

	Language language.Profile
	Style    extract.StyleInfo
	Media    extract.MediaInfo

	CreatedAt   string
	LastUpdated string
	Platform    string
	TagsAPI     []string

	Error string
}

// HasGIF reports whether any GIF references were found.
func (r ExtractedRecord) HasGIF() bool { return len(r.Media.GIFs) > 0 }

// HasButtons reports whether any linkback buttons were found.
func (r ExtractedRecord) HasButtons() bool { return len(r.Media.Buttons) > 0 }

// HasBlinkies reports whether any blinkies were found.
func (r ExtractedRecord) HasBlinkies() bool { return len(r.Media.Blinkies) > 0 }

// HasSounds reports whether any sound sources were found.
func (r ExtractedRecord) HasSounds() bool { return len(r.Media.Sounds) > 0 }
