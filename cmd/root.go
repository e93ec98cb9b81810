// Package cmd defines and implements the CLI commands for the
// indiescraper executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/indieweb-atlas/indiescraper/internal/config"
	"github.com/indieweb-atlas/indiescraper/internal/logging"
)

var (
	cfgFile string

	// Populated by PersistentPreRunE so subcommands share one config
	// and one logger.
	rootConfig config.Config
	rootLogger *zap.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indiescraper",
		Short: "A polite crawler and extractor for the independent web.",
		Long: `indiescraper walks a list of personal-site URLs, honoring robots.txt,
and extracts content, media, style, language, and temporal signals into
tabular reports. The visual mode captures full-page screenshots and
derives dominant color palettes.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			rootConfig = cfg
			rootLogger = logger
			return nil
		},

		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if rootLogger != nil {
				_ = rootLogger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newVisualCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
