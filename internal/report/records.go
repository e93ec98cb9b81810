package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/indieweb-atlas/indiescraper/internal/crawler"
)

// listSeparator joins set-valued fields into one cell.
const listSeparator = ", "

// RecordHeader is the flattened ExtractedRecord column set, in the
// stable order consumers depend on.
var RecordHeader = []string{
	"url", "title", "tags_api", "created_at", "last_updated",
	"meta_description", "keywords",
	"language", "language_confidence", "languages_detected", "multilingual",
	"background_colors", "font_family", "font_list", "cursor_custom",
	"cursor_links", "has_gradients",
	"has_gif", "gifs",
	"has_buttons", "buttons",
	"has_blinkies", "blinkies",
	"has_sounds", "sounds",
	"visible_text", "error", "platform", "tag",
}

// FlattenRecords turns records into rows matching RecordHeader.
func FlattenRecords(records []crawler.ExtractedRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, flattenRecord(r))
	}
	return rows
}

func flattenRecord(r crawler.ExtractedRecord) []string {
	return []string{
		r.URL,
		r.Title,
		strings.Join(r.TagsAPI, listSeparator),
		r.CreatedAt,
		r.LastUpdated,
		r.MetaDescription,
		r.Keywords,
		r.Language.Primary,
		fmt.Sprintf("%.3f", r.Language.Confidence),
		strings.Join(r.Language.Detected, " | "),
		strconv.FormatBool(r.Language.Multilingual),
		strings.Join(r.Style.BackgroundColors, listSeparator),
		r.Style.FontFamily,
		strings.Join(r.Style.FontList, listSeparator),
		strconv.FormatBool(r.Style.CursorCustom),
		strings.Join(r.Style.CursorLinks, listSeparator),
		strconv.FormatBool(r.Style.HasGradients),
		strconv.FormatBool(r.HasGIF()),
		strings.Join(r.Media.GIFs, listSeparator),
		strconv.FormatBool(r.HasButtons()),
		strings.Join(r.Media.Buttons, listSeparator),
		strconv.FormatBool(r.HasBlinkies()),
		strings.Join(r.Media.Blinkies, listSeparator),
		strconv.FormatBool(r.HasSounds()),
		strings.Join(r.Media.Sounds, listSeparator),
		r.VisibleText,
		r.Error,
		r.Platform,
		r.Tag,
	}
}
