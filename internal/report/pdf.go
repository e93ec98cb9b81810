package report

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/indieweb-atlas/indiescraper/internal/visual"
)

const (
	pdfCardsPerPage = 2
	pdfMargin       = 12.0
	pdfThumbHeight  = 70.0
	pdfBandHeight   = 10.0
	pdfSwatchSize   = 5.0
)

// WritePDF renders a visual report with two site cards per page. Each
// card shows the URL, the screenshot thumbnail, the palette band, and a
// swatch row per color with its hex value and proportion.
func WritePDF(path string, sites []visual.SiteColors) error {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, pdfMargin)

	pageW, pageH := pdf.GetPageSize()
	cardH := (pageH - 2*pdfMargin) / pdfCardsPerPage
	cardW := pageW - 2*pdfMargin

	for i, site := range sites {
		slot := i % pdfCardsPerPage
		if slot == 0 {
			pdf.AddPage()
		}
		top := pdfMargin + float64(slot)*cardH
		drawCard(pdf, site, pdfMargin, top, cardW, cardH)
	}

	if len(sites) == 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "I", 11)
		pdf.SetXY(pdfMargin, pdfMargin)
		pdf.CellFormat(0, 8, "No sites captured", "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}

func drawCard(pdf *gofpdf.Fpdf, site visual.SiteColors, x, y, w, h float64) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 6, site.URL, "", 1, "L", false, 0, "")
	cursor := y + 8

	if fileExists(site.ScreenshotPath) {
		pdf.ImageOptions(site.ScreenshotPath, x, cursor, w/2, pdfThumbHeight,
			false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
	}

	// Swatch rows beside the thumbnail.
	swatchX := x + w/2 + 6
	swatchY := cursor
	pdf.SetFont("Helvetica", "", 9)
	for _, entry := range site.Entries {
		r, g, b, ok := hexToRGB(entry.Color)
		if ok {
			pdf.SetFillColor(r, g, b)
			pdf.Rect(swatchX, swatchY, pdfSwatchSize, pdfSwatchSize, "F")
		}
		pdf.SetXY(swatchX+pdfSwatchSize+2, swatchY)
		label := fmt.Sprintf("%s  %.2f%%", entry.Color, entry.Proportion)
		pdf.CellFormat(60, pdfSwatchSize, label, "", 0, "L", false, 0, "")
		swatchY += pdfSwatchSize + 2
	}

	bandY := cursor + pdfThumbHeight + 4
	if fileExists(site.PalettePath) {
		pdf.ImageOptions(site.PalettePath, x, bandY, w, pdfBandHeight,
			false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
	}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func hexToRGB(hex string) (int, int, int, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	r, err1 := strconv.ParseUint(hex[1:3], 16, 8)
	g, err2 := strconv.ParseUint(hex[3:5], 16, 8)
	b, err3 := strconv.ParseUint(hex[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return int(r), int(g), int(b), true
}
