package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// chromeSelector lists the elements removed before computing visible
// text. This approximates reader-visible content; it is a heuristic,
// not an accessibility-tree computation.
const chromeSelector = "script,style,noscript,iframe,svg,canvas,header,footer,nav"

// Title returns the document title, falling back to og:title.
func (e *Extractor) Title(d *Document) string {
	if t := strings.TrimSpace(d.doc.Find("title").First().Text()); t != "" {
		return t
	}
	if og, ok := d.doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		return strings.TrimSpace(og)
	}
	return ""
}

// Meta returns the content of a <meta name=...> tag, matching the name
// case-insensitively.
func (e *Extractor) Meta(d *Document, name string) string {
	var found string
	d.doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		metaName, _ := sel.Attr("name")
		if !strings.EqualFold(metaName, name) {
			return true
		}
		content, ok := sel.Attr("content")
		if !ok || strings.TrimSpace(content) == "" {
			return true
		}
		found = strings.TrimSpace(content)
		return false
	})
	return found
}

// VisibleText strips page chrome and comment nodes, then joins the
// remaining text nodes with newlines, collapsing blank lines. Output is
// capped at the configured character limit. The work happens on a fresh
// parse so the shared document is left intact for other extractors.
func (e *Extractor) VisibleText(d *Document) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(d.raw))
	if err != nil {
		return ""
	}
	doc.Find(chromeSelector).Remove()

	var parts []string
	for _, root := range doc.Selection.Nodes {
		collectText(root, &parts)
	}

	var lines []string
	for _, part := range parts {
		for _, line := range strings.Split(part, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
	}
	text := strings.Join(lines, "\n")
	if runes := []rune(text); len(runes) > e.cfg.VisibleTextLimit {
		text = string(runes[:e.cfg.VisibleTextLimit])
	}
	return text
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			*parts = append(*parts, n.Data)
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}
