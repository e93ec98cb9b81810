package crawler

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/indieweb-atlas/indiescraper/internal/metrics"
)

// EngineConfig governs the sequential crawl loop.
type EngineConfig struct {
	// Delay is the fixed pause between URLs.
	Delay time.Duration
	// Jitter bounds the randomized pause before robots lookups and
	// platform-API calls.
	Jitter time.Duration
}

// Engine runs the politeness-check -> fetch -> extract pipeline
// sequentially over a target list. One URL's full pipeline completes
// before the next begins; this is a crawl-politeness choice, not a
// limitation.
type Engine struct {
	cfg       EngineConfig
	gate      RobotsPolicy
	fetcher   *Fetcher
	assembler *Assembler
	pauser    pauseController
	logger    *zap.Logger
}

// NewEngine builds an Engine.
func NewEngine(cfg EngineConfig, gate RobotsPolicy, fetcher *Fetcher, assembler *Assembler, logger *zap.Logger) *Engine {
	if cfg.Jitter <= 0 {
		cfg.Jitter = 300 * time.Millisecond
	}
	return &Engine{
		cfg:       cfg,
		gate:      gate,
		fetcher:   fetcher,
		assembler: assembler,
		pauser:    &timerPauseController{},
		logger:    logger,
	}
}

// Run processes every target in order and returns one record per
// target. Cancellation returns the records gathered so far so callers
// can still flush partial output.
func (e *Engine) Run(ctx context.Context, targets []CrawlTarget) []ExtractedRecord {
	records := make([]ExtractedRecord, 0, len(targets))

	for i, target := range targets {
		if ctx.Err() != nil {
			e.logger.Warn("Crawl interrupted; flushing partial results",
				zap.Int("processed", len(records)), zap.Int("total", len(targets)))
			return records
		}
		e.logger.Info("Processing URL",
			zap.Int("index", i+1),
			zap.Int("total", len(targets)),
			zap.String("url", target.URL),
			zap.String("tag", target.Tag))

		records = append(records, e.processOne(ctx, target))

		if i < len(targets)-1 {
			e.pauser.Pause(ctx, e.cfg.Delay)
		}
	}
	return records
}

func (e *Engine) processOne(ctx context.Context, target CrawlTarget) ExtractedRecord {
	e.pauser.Pause(ctx, randomJitter(e.cfg.Jitter))
	if !e.gate.Allowed(ctx, target.URL) {
		e.logger.Info("Skipped by robots.txt", zap.String("url", target.URL))
		metrics.ObserveRobotsBlocked()
		return e.assembler.BlockedRecord(target)
	}

	fetch := e.fetcher.Fetch(target.URL)
	return e.assembler.Assemble(ctx, target, fetch)
}

// pauseController abstracts how the engine waits between requests.
type pauseController interface {
	Pause(ctx context.Context, delay time.Duration)
}

type timerPauseController struct{}

func (p *timerPauseController) Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// randomJitter picks a uniform duration in [0, limit).
func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	if err != nil {
		return limit / 2
	}
	return time.Duration(n.Int64())
}
