package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opencamdb/camcrawler/internal/extract"
)

// screenshotter is implemented by fetchers that write a screenshot per page.
type screenshotter interface {
	ScreenshotPath(rawURL string) string
}

// Engine drives a crawl run: it walks the URL list sequentially, fetching
// with retry, extracting with per-resolver panic isolation, and pacing
// between URLs. Exactly one CrawlResult is produced per input URL.
type Engine struct {
	cfg       Config
	fetcher   Fetcher
	extractor *extract.Extractor
	throttle  *throttle
	clock     Clock
	logger    *zap.Logger
}

// NewEngine constructs an Engine. A nil clock defaults to the system clock.
func NewEngine(cfg Config, fetcher Fetcher, extractor *extract.Extractor, clock Clock, logger *zap.Logger) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		throttle:  newThrottle(cfg),
		clock:     clock,
		logger:    logger,
	}
}

// Run crawls every URL in order and returns the results plus a summary.
// Cancellation stops the run between URLs; URLs already processed keep their
// results. Extraction faults never abort the run: they degrade the affected
// field and the result records any fetch failure instead of propagating it.
// An empty runID gets a fresh UUID.
func (e *Engine) Run(ctx context.Context, runID string, urls []string) ([]CrawlResult, Summary) {
	if runID == "" {
		runID = uuid.NewString()
	}
	e.logger.Info("Starting crawl run",
		zap.String("run_id", runID),
		zap.Int("urls", len(urls)))

	results := make([]CrawlResult, 0, len(urls))
	var summary Summary

	for _, raw := range urls {
		if err := e.throttle.Wait(ctx); err != nil {
			e.logger.Warn("Crawl run canceled", zap.String("run_id", runID), zap.Error(err))
			break
		}

		result := e.crawlOne(ctx, runID, NormalizeURL(raw))
		results = append(results, result)
		if result.Status == StatusSuccess {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	e.logger.Info("Crawl run finished",
		zap.String("run_id", runID),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))
	return results, summary
}

func (e *Engine) crawlOne(ctx context.Context, runID, rawURL string) CrawlResult {
	result := CrawlResult{
		RunID:     runID,
		URL:       rawURL,
		Timestamp: e.clock.Now(),
		Status:    StatusError,
		Location: extract.LocationInfo{
			FromURL:     extract.LocationFromURL(rawURL),
			Coordinates: extract.CoordinateInfo{Source: extract.SourceNone},
		},
	}

	if err := ValidateURL(rawURL); err != nil {
		e.logger.Warn("Skipping invalid URL", zap.String("url", rawURL), zap.Error(err))
		result.Error = err.Error()
		return result
	}

	page, err := e.fetchWithRetry(ctx, rawURL)
	if err != nil {
		e.logger.Warn("Fetch failed", zap.String("url", rawURL), zap.Error(err))
		result.Error = err.Error()
		return result
	}
	result.Method = page.Method

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		result.Error = fmt.Sprintf("parse html: %v", err)
		return result
	}

	blocks := e.extractor.ParseBlocks(doc)

	e.resolve(rawURL, "page info", func() {
		result.Page = e.extractor.ResolvePageInfo(doc, page.ByteLen)
	})
	e.resolve(rawURL, "location", func() {
		loc := e.extractor.ResolveLocation(rawURL, doc, blocks)
		loc.Coordinates = result.Location.Coordinates
		result.Location = loc
	})
	e.resolve(rawURL, "coordinates", func() {
		result.Location.Coordinates = e.extractor.ResolveCoordinates(blocks, doc)
	})
	e.resolve(rawURL, "streams", func() {
		result.Streams = e.extractor.ResolveStreams(blocks, doc)
	})
	e.resolve(rawURL, "maps", func() {
		result.Maps = e.extractor.ResolveMaps(blocks, doc)
	})

	if shooter, ok := e.fetcher.(screenshotter); ok && page.Method == MethodRendered {
		result.Screenshot = shooter.ScreenshotPath(rawURL)
	}

	result.Status = StatusSuccess
	e.logger.Info("Crawled page",
		zap.String("url", rawURL),
		zap.String("method", string(page.Method)),
		zap.Int("bytes", page.ByteLen),
		zap.Duration("duration", page.Duration))
	return result
}

// fetchWithRetry performs up to MaxRetries+1 attempts, sleeping RetryDelay
// between them. Only transient failures are retried; a permanent failure or
// context cancellation returns immediately.
func (e *Engine) fetchWithRetry(ctx context.Context, rawURL string) (PageDocument, error) {
	attempts := e.cfg.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		page, err := e.fetcher.Fetch(ctx, rawURL)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return PageDocument{}, err
		}
		if attempt == attempts {
			break
		}
		e.logger.Warn("Retrying fetch",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))
		if err := sleepCtx(ctx, e.cfg.RetryDelay); err != nil {
			return PageDocument{}, err
		}
	}
	return PageDocument{}, fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}

// resolve runs one resolver with panic isolation: a fault degrades only the
// field that resolver fills.
func (e *Engine) resolve(rawURL, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Resolver panic recovered",
				zap.String("url", rawURL),
				zap.String("resolver", name),
				zap.Any("panic", r))
		}
	}()
	fn()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
