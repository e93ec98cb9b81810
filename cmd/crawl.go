package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/indieweb-atlas/indiescraper/internal/config"
	"github.com/indieweb-atlas/indiescraper/internal/crawler"
	"github.com/indieweb-atlas/indiescraper/internal/extract"
	"github.com/indieweb-atlas/indiescraper/internal/language"
	"github.com/indieweb-atlas/indiescraper/internal/logging"
	"github.com/indieweb-atlas/indiescraper/internal/metrics"
	"github.com/indieweb-atlas/indiescraper/internal/platform"
	"github.com/indieweb-atlas/indiescraper/internal/report"
	"github.com/indieweb-atlas/indiescraper/internal/temporal"
)

type crawlFlags struct {
	inputPath  string
	outputPath string
	format     string
	delay      float64
	maxURLs    int
}

func newCrawlCmd() *cobra.Command {
	flags := &crawlFlags{}

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawls a URL list and writes an extraction report",
		Long: `Reads a newline-delimited URL list, fetches each page politely, runs
the extraction heuristics, and writes one row per URL to a CSV or XLSX
report. Robots-blocked and failed URLs still produce rows so the output
row count always matches the input.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrawl(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.inputPath, "input", "i", "", "path to the URL list (one URL per line, optional tab-separated tag)")
	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "path for the report")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "report format: csv or xlsx (default: by output extension)")
	cmd.Flags().Float64VarP(&flags.delay, "delay", "d", -1, "seconds to pause between URLs (overrides config)")
	cmd.Flags().IntVar(&flags.maxURLs, "max", -1, "process at most N URLs, 0 means all (overrides config)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runCrawl(cmd *cobra.Command, flags *crawlFlags) error {
	cfg := rootConfig
	if flags.delay >= 0 {
		cfg.Crawler.DelaySeconds = flags.delay
	}
	if flags.maxURLs >= 0 {
		cfg.Crawler.MaxURLs = flags.maxURLs
	}
	logger := rootLogger

	format, err := report.DetectFormat(flags.format, flags.outputPath)
	if err != nil {
		return err
	}

	targets, err := report.ReadTargets(flags.inputPath)
	if err != nil {
		return fmt.Errorf("read url list: %w", err)
	}
	if cfg.Crawler.MaxURLs > 0 && len(targets) > cfg.Crawler.MaxURLs {
		targets = targets[:cfg.Crawler.MaxURLs]
	}
	if len(targets) == 0 {
		return fmt.Errorf("no URLs found in %s", flags.inputPath)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		metrics.Init()
		go func() {
			if serr := metrics.Serve(ctx, cfg.Metrics.Port, logging.ForSubsystem(logger, "metrics")); serr != nil {
				logger.Warn("Metrics listener stopped", zap.Error(serr))
			}
		}()
	}

	engine := buildEngine(cfg, logger)

	logger.Info("Starting crawl",
		zap.Int("urls", len(targets)),
		zap.Float64("delay_seconds", cfg.Crawler.DelaySeconds),
		zap.Bool("respect_robots", cfg.Crawler.RespectRobots))

	records := engine.Run(ctx, targets)

	rows := report.FlattenRecords(records)
	if err := report.WriteTable(format, flags.outputPath, report.RecordHeader, rows); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("Crawl finished",
		zap.Int("records", len(records)),
		zap.String("output", flags.outputPath))
	return nil
}

func buildEngine(cfg config.Config, logger *zap.Logger) *crawler.Engine {
	gate := crawler.NewRobotsGate(cfg.Crawler.RespectRobots, cfg.Crawler.UserAgent, cfg.Timeout(), logging.ForSubsystem(logger, "robots"))
	fetcher := crawler.NewFetcher(crawler.FetcherConfig{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.Timeout(),
	}, logging.ForSubsystem(logger, "fetcher"))

	extractor := extract.New(extract.Config{
		UserAgent:            cfg.Crawler.UserAgent,
		Timeout:              cfg.Timeout(),
		VisibleTextLimit:     cfg.Extract.VisibleTextLimit,
		ProbeImageDimensions: cfg.Extract.ProbeImageDimensions,
	}, logging.ForSubsystem(logger, "extract"))

	classifier := language.New(language.Config{
		MinTextChars: cfg.Language.MinTextLength,
		MaxTextChars: cfg.Language.MaxTextLength,
	})

	resolver := temporal.New(temporal.Config{
		IncludeGMT: cfg.Temporal.IncludeGMT,
		UserAgent:  cfg.Crawler.UserAgent,
		Timeout:    cfg.Timeout(),
	}, logging.ForSubsystem(logger, "temporal"))

	neocities := platform.NewNeocitiesClient(platform.DefaultNeocitiesAPI, cfg.Crawler.UserAgent, cfg.Timeout(), logging.ForSubsystem(logger, "neocities"))

	assembler := crawler.NewAssembler(extractor, classifier, resolver, neocities, logging.ForSubsystem(logger, "assembler"))

	return crawler.NewEngine(crawler.EngineConfig{Delay: cfg.Delay()}, gate, fetcher, assembler, logging.ForSubsystem(logger, "engine"))
}
