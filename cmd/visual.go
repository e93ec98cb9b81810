package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/indieweb-atlas/indiescraper/internal/logging"
	"github.com/indieweb-atlas/indiescraper/internal/metrics"
	"github.com/indieweb-atlas/indiescraper/internal/report"
	"github.com/indieweb-atlas/indiescraper/internal/visual"
)

type visualFlags struct {
	inputPath  string
	outputPath string
	colors     int
	reportPath string
	shotsDir   string
}

func newVisualCmd() *cobra.Command {
	flags := &visualFlags{}

	cmd := &cobra.Command{
		Use:   "visual",
		Short: "Captures screenshots and extracts dominant color palettes",
		Long: `Renders each URL in a headless browser, writes a full-page screenshot
and a palette band image, and reports the dominant colors with their
pixel proportions. Optionally renders a PDF contact sheet.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVisual(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.inputPath, "input", "i", "", "path to the URL list")
	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "path for the palette report (CSV or XLSX)")
	cmd.Flags().IntVar(&flags.colors, "colors", 0, "palette size (overrides config)")
	cmd.Flags().StringVar(&flags.reportPath, "report", "", "optional PDF contact sheet path")
	cmd.Flags().StringVar(&flags.shotsDir, "shots-dir", "screenshots", "directory for screenshots and palette bands")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runVisual(cmd *cobra.Command, flags *visualFlags) error {
	cfg := rootConfig
	if flags.colors > 0 {
		cfg.Visual.Colors = flags.colors
	}
	logger := rootLogger

	format, err := report.DetectFormat("", flags.outputPath)
	if err != nil {
		return err
	}

	targets, err := report.ReadTargets(flags.inputPath)
	if err != nil {
		return fmt.Errorf("read url list: %w", err)
	}
	if len(targets) == 0 {
		return fmt.Errorf("no URLs found in %s", flags.inputPath)
	}

	if err := os.MkdirAll(flags.shotsDir, 0o750); err != nil {
		return fmt.Errorf("create shots dir: %w", err)
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

	capturer, err := visual.NewCapturer(visual.CaptureConfig{
		UserAgent:      cfg.Crawler.UserAgent,
		ViewportWidth:  cfg.Visual.ViewportWidth,
		ViewportHeight: cfg.Visual.ViewportHeight,
		NavTimeout:     cfg.NavTimeout(),
		DomainQPS:      captureQPS(cfg.Crawler.DelaySeconds),
	}, logging.ForSubsystem(logger, "capture"))
	if err != nil {
		return fmt.Errorf("start headless browser: %w", err)
	}
	defer capturer.Close()

	sites := make([]visual.SiteColors, 0, len(targets))
	for i, target := range targets {
		if ctx.Err() != nil {
			logger.Warn("Visual run interrupted", zap.Int("completed", len(sites)))
			break
		}
		logger.Info("Capturing site",
			zap.String("url", target.URL),
			zap.Int("index", i+1),
			zap.Int("total", len(targets)))

		site := captureSite(ctx, capturer, cfg.Visual.Colors, flags.shotsDir, target.URL, target.Tag, logger)
		sites = append(sites, site)
	}

	header := report.VisualHeader(cfg.Visual.Colors)
	rows := report.FlattenPalettes(sites, cfg.Visual.Colors)
	if err := report.WriteTable(format, flags.outputPath, header, rows); err != nil {
		return fmt.Errorf("write palette report: %w", err)
	}

	if flags.reportPath != "" {
		if err := report.WritePDF(flags.reportPath, sites); err != nil {
			return fmt.Errorf("write pdf report: %w", err)
		}
		logger.Info("PDF report written", zap.String("path", flags.reportPath))
	}

	logger.Info("Visual run finished",
		zap.Int("sites", len(sites)),
		zap.String("output", flags.outputPath))
	return nil
}

// captureSite never fails the whole run: a site that cannot be captured
// or decoded still yields a row with its URL so output stays aligned
// with input.
func captureSite(ctx context.Context, capturer *visual.Capturer, colors int, shotsDir, rawURL, tag string, logger *zap.Logger) visual.SiteColors {
	site := visual.SiteColors{URL: rawURL, Tag: tag}

	shotName := visual.ScreenshotName(rawURL)
	shotPath := filepath.Join(shotsDir, shotName)
	if err := capturer.Capture(ctx, rawURL, shotPath); err != nil {
		logger.Warn("Screenshot failed", zap.String("url", rawURL), zap.Error(err))
		return site
	}
	site.ScreenshotPath = shotPath

	img, err := visual.LoadImage(shotPath)
	if err != nil {
		logger.Warn("Screenshot decode failed", zap.String("path", shotPath), zap.Error(err))
		return site
	}
	entries, err := visual.Palette(img, colors)
	if err != nil {
		logger.Warn("Palette extraction failed", zap.String("url", rawURL), zap.Error(err))
		return site
	}
	site.Entries = entries

	palettePath := bandPath(shotsDir, shotName)
	if err := visual.WriteBand(entries, palettePath); err != nil {
		logger.Warn("Palette band failed", zap.String("path", palettePath), zap.Error(err))
		return site
	}
	site.PalettePath = palettePath
	return site
}

func captureQPS(delaySeconds float64) float64 {
	if delaySeconds <= 0 {
		return 0
	}
	return 1 / delaySeconds
}

func bandPath(shotsDir, shotName string) string {
	base := strings.TrimSuffix(shotName, filepath.Ext(shotName))
	return filepath.Join(shotsDir, base+"_palette.png")
}
