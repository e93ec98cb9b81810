package report

import (
	"fmt"

	"github.com/indieweb-atlas/indiescraper/internal/visual"
)

// VisualHeader builds the column header for a palette table with n
// colors per site.
func VisualHeader(n int) []string {
	header := []string{"url", "tag", "screenshot", "palette"}
	for i := 1; i <= n; i++ {
		header = append(header, fmt.Sprintf("color_%d", i))
	}
	for i := 1; i <= n; i++ {
		header = append(header, fmt.Sprintf("prop_%d", i))
	}
	return header
}

// FlattenPalettes turns palette results into table rows matching
// VisualHeader(n). Sites with fewer entries than n pad with blanks.
func FlattenPalettes(sites []visual.SiteColors, n int) [][]string {
	rows := make([][]string, 0, len(sites))
	for _, site := range sites {
		row := []string{site.URL, site.Tag, site.ScreenshotPath, site.PalettePath}
		for i := 0; i < n; i++ {
			if i < len(site.Entries) {
				row = append(row, site.Entries[i].Color)
			} else {
				row = append(row, "")
			}
		}
		for i := 0; i < n; i++ {
			if i < len(site.Entries) {
				row = append(row, fmt.Sprintf("%.2f", site.Entries[i].Proportion))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}
