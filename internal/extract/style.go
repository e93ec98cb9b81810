package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/indieweb-atlas/indiescraper/internal/metrics"
)

// StyleInfo captures the visual style signals extracted from page CSS.
type StyleInfo struct {
	BackgroundColors []string
	FontFamily       string
	FontList         []string
	CursorCustom     bool
	CursorLinks      []string
	HasGradients     bool
}

// Style collects all CSS text reachable from the page (inline style
// attributes, <style> blocks, linked stylesheets) and scans it for
// color tokens, fonts, custom cursors and gradients. Linked stylesheet
// fetch failures are skipped silently.
func (e *Extractor) Style(ctx context.Context, d *Document) StyleInfo {
	cssAll := e.gatherCSS(ctx, d)
	colors, fonts, cursors, hasGradients := parseDeclarations(cssAll)

	return StyleInfo{
		BackgroundColors: colors,
		FontFamily:       resolveFontFamily(fonts),
		FontList:         fonts,
		CursorCustom:     len(cursors) > 0 || strings.Contains(cssAll, "cursor:"),
		CursorLinks:      cursors,
		HasGradients:     hasGradients,
	}
}

func (e *Extractor) gatherCSS(ctx context.Context, d *Document) string {
	var cssTexts []string

	d.doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		if style, ok := sel.Attr("style"); ok && style != "" {
			cssTexts = append(cssTexts, style)
		}
	})
	d.doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		if text := sel.Text(); text != "" {
			cssTexts = append(cssTexts, text)
		}
	})
	d.doc.Find("link[rel]").Each(func(_ int, sel *goquery.Selection) {
		rel, _ := sel.Attr("rel")
		if !strings.Contains(strings.ToLower(rel), "stylesheet") {
			return
		}
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		cssURL := d.resolve(href)
		body, err := e.fetchCSS(ctx, cssURL)
		if err != nil {
			e.logger.Debug("Linked stylesheet skipped",
				zap.String("url", cssURL), zap.Error(err))
			return
		}
		cssTexts = append(cssTexts, body)
	})

	return strings.Join(cssTexts, "\n")
}

// fetchCSS retrieves a same-document stylesheet with the page-fetch
// timeout. Only 200 responses that declare text/css are accepted.
func (e *Extractor) fetchCSS(ctx context.Context, cssURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cssURL, nil)
	if err != nil {
		return "", fmt.Errorf("new css request: %w", err)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	resp, err := e.client.Do(req)
	if err != nil {
		metrics.ObserveSideFetch("linked_css", "error")
		return "", fmt.Errorf("fetch css: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			e.logger.Debug("Failed to close css body", zap.Error(cerr))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		metrics.ObserveSideFetch("linked_css", "error")
		return "", fmt.Errorf("css status %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/css") {
		metrics.ObserveSideFetch("linked_css", "error")
		return "", fmt.Errorf("unexpected css content type %q", resp.Header.Get("Content-Type"))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		metrics.ObserveSideFetch("linked_css", "error")
		return "", fmt.Errorf("read css body: %w", err)
	}
	metrics.ObserveSideFetch("linked_css", "ok")
	return string(body), nil
}

// parseDeclarations scans raw CSS text declaration by declaration. The
// original heuristics operate on token patterns, not a CSS object
// model, so a full parser would add nothing the rules consume.
func parseDeclarations(cssText string) (colors, fonts, cursors []string, hasGradients bool) {
	cssText = cssCommentRe.ReplaceAllString(cssText, "")

	colorSet := newOrderedSet()
	fontSet := newOrderedSet()
	cursorSet := newOrderedSet()

	for _, match := range declRe.FindAllStringSubmatch(cssText, -1) {
		name := strings.ToLower(strings.TrimSpace(match[1]))
		value := strings.ToLower(strings.TrimSpace(match[2]))

		if containsAny(name, colorBearingNameTokens) {
			if strings.Contains(value, "gradient(") {
				hasGradients = true
			}
			for _, token := range colorTokenRe.FindAllString(value, -1) {
				if isColorToken(token) {
					colorSet.Add(strings.TrimSpace(token))
				}
			}
		}

		if name == "font" || strings.Contains(name, "font-family") {
			clean := strings.NewReplacer(`"`, "", "'", "").Replace(value)
			fontSet.Add(strings.TrimSpace(clean))
		}

		if strings.Contains(name, "cursor") && strings.Contains(value, "url(") {
			if m := urlRefRe.FindStringSubmatch(value); m != nil {
				cursorSet.Add(strings.TrimSpace(m[1]))
			}
		}
	}

	return colorSet.Items(), fontSet.Items(), cursorSet.Items(), hasGradients
}

func isColorToken(token string) bool {
	if strings.HasPrefix(token, "#") || strings.HasPrefix(token, "rgb") ||
		strings.HasPrefix(token, "hsl") || strings.HasPrefix(token, "var(") {
		return true
	}
	_, ok := cssColorKeywords[token]
	return ok
}

// resolveFontFamily collapses declared fonts to one best-guess value:
// the first vocabulary keyword found anywhere in the declared list,
// else the first comma-segment of the first declaration.
func resolveFontFamily(fonts []string) string {
	if len(fonts) == 0 {
		return ""
	}
	joined := strings.ToLower(strings.Join(fonts, " "))
	for _, keyword := range fontVocabulary {
		if strings.Contains(joined, keyword) {
			return keyword
		}
	}
	first := strings.SplitN(fonts[0], ",", 2)[0]
	return strings.Trim(strings.TrimSpace(first), `'"`)
}
