package extract

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	// Raster decoders for the dimension probe fallback.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/indieweb-atlas/indiescraper/internal/metrics"
)

// MediaInfo holds classified media references, resolved to absolute URLs.
type MediaInfo struct {
	GIFs     []string
	Buttons  []string
	Blinkies []string
	Sounds   []string
}

// Media classifies every media reference on the page: GIFs by filename,
// buttons and blinkies by explicit or probed dimensions, filename tokens
// and inline background styles, and sound sources by element kind.
// Classification over the same HTML is idempotent: sets are deduplicated
// in first-seen order.
func (e *Extractor) Media(ctx context.Context, d *Document) MediaInfo {
	buttons, blinkies := e.findButtonsAndBlinkies(ctx, d)
	return MediaInfo{
		GIFs:     e.findGIFs(d),
		Buttons:  buttons,
		Blinkies: blinkies,
		Sounds:   e.findSounds(d),
	}
}

func (e *Extractor) findGIFs(d *Document) []string {
	gifs := newOrderedSet()
	d.doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" {
			return
		}
		full := d.resolve(src)
		if strings.Contains(strings.ToLower(full), ".gif") {
			gifs.Add(full)
		}
	})
	return gifs.Items()
}

// findButtonsAndBlinkies scans images once and classifies them into the
// two sets. Blinkie windows are checked before button windows; the
// ranges overlap only at their tuned boundaries.
func (e *Extractor) findButtonsAndBlinkies(ctx context.Context, d *Document) (buttonList, blinkieList []string) {
	buttons := newOrderedSet()
	blinkies := newOrderedSet()
	checked := make(map[string]struct{})

	classifyBySize := func(width, height int, full string) bool {
		switch {
		case blinkieWindow.contains(width, height):
			blinkies.Add(full)
			return true
		case buttonWindow.contains(width, height):
			buttons.Add(full)
			return true
		}
		return false
	}

	d.doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" {
			return
		}
		full := d.resolve(src)
		if _, dup := checked[full]; dup {
			return
		}
		checked[full] = struct{}{}

		if width, height, ok := declaredDimensions(sel); ok {
			classifyBySize(width, height, full)
			return
		}

		if e.cfg.ProbeImageDimensions && looksLikeRasterImage(full) {
			if width, height, err := e.probeDimensions(ctx, full); err == nil {
				classifyBySize(width, height, full)
			} else {
				e.logger.Debug("Image dimension probe failed",
					zap.String("url", full), zap.Error(err))
			}
		}

		filename := strings.ToLower(path.Base(src))
		switch {
		case containsAny(filename, buttonNameTokens):
			buttons.Add(full)
		case containsAny(filename, blinkieNameTokens):
			blinkies.Add(full)
		}
	})

	// inline background styles that hint at decorated badges
	d.doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		style = strings.ToLower(style)
		if !strings.Contains(style, "background") {
			return
		}
		if !strings.Contains(style, "button") && !strings.Contains(style, "badge") &&
			!strings.Contains(style, "blink") {
			return
		}
		match := urlRefRe.FindStringSubmatch(style)
		if match == nil {
			return
		}
		full := d.resolve(match[1])
		if strings.Contains(style, "blink") || strings.Contains(style, "150x20") {
			blinkies.Add(full)
		} else {
			buttons.Add(full)
		}
	})

	return buttons.Items(), blinkies.Items()
}

func (e *Extractor) findSounds(d *Document) []string {
	sounds := newOrderedSet()
	d.doc.Find("audio,embed,bgsound,object,source").Each(func(_ int, sel *goquery.Selection) {
		src := firstAttr(sel, "src", "data", "value")
		if src != "" {
			sounds.Add(d.resolve(src))
		}
		if goquery.NodeName(sel) == "audio" {
			sel.Find("source").Each(func(_ int, child *goquery.Selection) {
				if childSrc, ok := child.Attr("src"); ok && childSrc != "" {
					sounds.Add(d.resolve(childSrc))
				}
			})
		}
	})
	return sounds.Items()
}

// probeDimensions fetches just enough of the image to decode its header
// and read true pixel dimensions. Failures are reported to the caller
// and must be ignored there; the probe never fails an extraction.
func (e *Extractor) probeDimensions(ctx context.Context, imageURL string) (int, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("new probe request: %w", err)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	resp, err := e.client.Do(req)
	if err != nil {
		metrics.ObserveSideFetch("image_probe", "error")
		return 0, 0, fmt.Errorf("probe image: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			e.logger.Debug("Failed to close probe body", zap.Error(cerr))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		metrics.ObserveSideFetch("image_probe", "error")
		return 0, 0, fmt.Errorf("probe image status %d", resp.StatusCode)
	}
	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.ObserveSideFetch("image_probe", "error")
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	metrics.ObserveSideFetch("image_probe", "ok")
	return cfg.Width, cfg.Height, nil
}

func declaredDimensions(sel *goquery.Selection) (int, int, bool) {
	widthAttr := firstAttr(sel, "width", "data-width")
	heightAttr := firstAttr(sel, "height", "data-height")
	if widthAttr == "" || heightAttr == "" {
		return 0, 0, false
	}
	width, werr := strconv.Atoi(strings.TrimSpace(widthAttr))
	height, herr := strconv.Atoi(strings.TrimSpace(heightAttr))
	if werr != nil || herr != nil {
		return 0, 0, false
	}
	return width, height, true
}

func looksLikeRasterImage(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, ext := range probeImageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func firstAttr(sel *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v, ok := sel.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
