package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opencamdb/camcrawler/internal/config"
	"github.com/opencamdb/camcrawler/internal/crawler"
	"github.com/opencamdb/camcrawler/internal/extract"
	"github.com/opencamdb/camcrawler/internal/logging"
	"github.com/opencamdb/camcrawler/internal/sink"
	"github.com/opencamdb/camcrawler/internal/urlfile"
)

// newCrawlCmd creates the 'crawl' subcommand: one full batch run over the
// configured URL list.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the configured URL list and write result files",
		Long: `Reads the configured URL list (a file or a directory of .txt files),
crawls every URL with retry and politeness pacing, and writes one result
record per URL to the configured output formats.`,
		RunE: runCrawlCommand,
	}
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return eris.Wrap(err, "load config")
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return eris.Wrap(err, "build logger")
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	urls, err := urlfile.Load(cfg.Crawler.URLsFile, cfg.Crawler.URLsDir)
	if err != nil {
		return eris.Wrap(err, "load url list")
	}
	if len(urls) == 0 {
		return eris.New("url list is empty")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	crawlerCfg := cfg.CrawlerConfig()
	fetcher, err := buildFetcher(ctx, crawlerCfg, logger)
	if err != nil {
		return eris.Wrap(err, "init fetcher")
	}
	defer closeFetcher(ctx, fetcher, logger)

	engine := crawler.NewEngine(crawlerCfg, fetcher, extract.New(logger), nil, logger)

	runID := uuid.NewString()
	started := crawler.SystemClock{}.Now()
	results, summary := engine.Run(ctx, runID, urls)

	writer := sink.New(cfg.Output.Dir, cfg.Output.Indent, logger)
	paths, err := writer.Write(cfg.Output.Formats, runID, started, results)
	if err != nil {
		return eris.Wrap(err, "write results")
	}

	logger.Info("Crawl command finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Strings("outputs", paths))
	return nil
}

// buildFetcher picks the fetch strategy: headless rendering when configured,
// plain HTTP otherwise.
func buildFetcher(_ context.Context, cfg crawler.Config, logger *zap.Logger) (crawler.Fetcher, error) {
	if cfg.Render {
		return crawler.NewChromedpFetcher(cfg, logger)
	}
	return crawler.NewCollyFetcher(cfg, logger), nil
}

func closeFetcher(ctx context.Context, fetcher crawler.Fetcher, logger *zap.Logger) {
	closer, ok := fetcher.(crawler.Closer)
	if !ok {
		return
	}
	if err := closer.Close(ctx); err != nil {
		logger.Warn("Failed to close fetcher", zap.Error(err))
	}
}
