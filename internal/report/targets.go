// Package report handles the tool's external tabular surfaces: reading
// the URL input list and serializing records to CSV, XLSX, and the
// visual PDF report.
package report

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/indieweb-atlas/indiescraper/internal/crawler"
)

// ReadTargets parses a line-oriented URL list: one URL per line, blank
// lines and #-comments ignored, an optional tab-separated second column
// supplying a free-form tag.
func ReadTargets(path string) ([]crawler.CrawlTarget, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	defer f.Close()

	var targets []crawler.CrawlTarget
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		target := crawler.CrawlTarget{URL: line}
		if url, tag, found := strings.Cut(line, "\t"); found {
			target.URL = strings.TrimSpace(url)
			target.Tag = strings.TrimSpace(tag)
		}
		targets = append(targets, target)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	return targets, nil
}
