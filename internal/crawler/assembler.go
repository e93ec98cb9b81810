package crawler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/indieweb-atlas/indiescraper/internal/extract"
	"github.com/indieweb-atlas/indiescraper/internal/language"
	"github.com/indieweb-atlas/indiescraper/internal/platform"
	"github.com/indieweb-atlas/indiescraper/internal/temporal"
)

// Assembler merges fetch and extractor outputs into one ExtractedRecord
// per target. Sub-extractions fail independently: a broken stylesheet
// or an unreachable platform API degrades its fields, never the record.
type Assembler struct {
	extractor  *extract.Extractor
	classifier *language.Classifier
	temporal   *temporal.Resolver
	neocities  *platform.NeocitiesClient
	logger     *zap.Logger
}

// NewAssembler wires the per-field extractors together.
func NewAssembler(
	extractor *extract.Extractor,
	classifier *language.Classifier,
	temporalResolver *temporal.Resolver,
	neocities *platform.NeocitiesClient,
	logger *zap.Logger,
) *Assembler {
	return &Assembler{
		extractor:  extractor,
		classifier: classifier,
		temporal:   temporalResolver,
		neocities:  neocities,
		logger:     logger,
	}
}

// BlockedRecord builds the record emitted when robots.txt disallows a
// target: every content field stays at its default empty value.
func (a *Assembler) BlockedRecord(target CrawlTarget) ExtractedRecord {
	return ExtractedRecord{
		URL:   target.URL,
		Tag:   target.Tag,
		Error: NewPolitenessBlocked().Error(),
	}
}

// Assemble turns a fetch result into the canonical record. Fetch
// failures yield a record carrying only identity and the error string.
func (a *Assembler) Assemble(ctx context.Context, target CrawlTarget, fetch FetchResult) ExtractedRecord {
	record := ExtractedRecord{URL: target.URL, Tag: target.Tag}

	if !fetch.OK() {
		record.Error = fetch.Err.Error()
		return record
	}

	doc, err := a.extractor.Parse(target.URL, fetch.Body)
	if err != nil {
		record.Error = NewParseFailure(err).Error()
		return record
	}

	record.Title = a.extractor.Title(doc)
	record.MetaDescription = a.extractor.Meta(doc, "description")
	record.Keywords = a.extractor.Meta(doc, "keywords")
	record.VisibleText = a.extractor.VisibleText(doc)

	record.Language = a.classifier.Classify(record.VisibleText)

	// one API response serves dates and tags
	info, err := a.neocities.Info(ctx, target.URL)
	if err != nil {
		info = nil
		if !errors.Is(err, platform.ErrNotNeocities) {
			a.logger.Debug("Platform API unavailable",
				zap.String("url", target.URL), zap.Error(err))
		}
	}
	if info != nil {
		record.TagsAPI = info.Tags
	}
	record.CreatedAt = a.temporal.Created(doc.Query(), info)
	record.LastUpdated = a.temporal.Updated(ctx, target.URL, doc.Query(), info)

	record.Platform = string(platform.Classify(target.URL, string(fetch.Body)))

	record.Media = a.extractor.Media(ctx, doc)
	record.Style = a.extractor.Style(ctx, doc)

	return record
}
