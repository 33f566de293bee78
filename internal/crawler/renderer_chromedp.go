package crawler

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromedpFetcher is the rendering fetch strategy: the page is loaded in
// headless Chrome, scripts run, and the post-execution DOM is snapshotted.
// One browser process is shared across fetches; each fetch runs in its own
// tab with its own timeout.
type ChromedpFetcher struct {
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	agents          *userAgentRotor
	logger          *zap.Logger
	timeout         time.Duration
	settle          time.Duration
	screenshot      bool
	screenshotDir   string
}

// NewChromedpFetcher starts the browser process and warms up a context.
func NewChromedpFetcher(cfg Config, logger *zap.Logger) (*ChromedpFetcher, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.WindowSize(1920, 1080),
	)
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		allocatorCancel()
		browserCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &ChromedpFetcher{
		allocatorCancel: allocatorCancel,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		agents:          newUserAgentRotor(cfg.UserAgentPool()),
		logger:          logger,
		timeout:         cfg.Timeout,
		settle:          cfg.Settle,
		screenshot:      cfg.Screenshot,
		screenshotDir:   cfg.ScreenshotDir,
	}, nil
}

// Close tears down the browser and allocator contexts.
func (f *ChromedpFetcher) Close(_ context.Context) error {
	if f == nil {
		return nil
	}
	f.browserCancel()
	f.allocatorCancel()
	return nil
}

// Fetch renders the page and returns its post-JavaScript DOM. Navigation and
// driver failures are transient: a fresh tab on the next attempt often
// succeeds where a wedged one did not.
func (f *ChromedpFetcher) Fetch(ctx context.Context, rawURL string) (PageDocument, error) {
	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()

	taskCtx, cancelTask := context.WithTimeout(tabCtx, f.timeout)
	defer cancelTask()

	stopForward := forwardCancel(ctx, cancelTask)
	defer stopForward()

	start := time.Now()
	var html string
	tasks := chromedp.Tasks{
		emulation.SetUserAgentOverride(f.agents.Next()),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(f.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}

	var shot []byte
	if f.screenshot {
		tasks = append(tasks, chromedp.CaptureScreenshot(&shot))
	}

	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return PageDocument{}, NewTransientError(rawURL, fmt.Errorf("chromedp run: %w", err))
	}

	page := PageDocument{
		URL:      rawURL,
		HTML:     html,
		Method:   MethodRendered,
		Duration: time.Since(start),
		ByteLen:  len(html),
	}

	if len(shot) > 0 {
		if path, err := f.saveScreenshot(rawURL, shot); err != nil {
			f.logger.Warn("Screenshot write failed", zap.String("url", rawURL), zap.Error(err))
		} else {
			f.logger.Debug("Screenshot saved", zap.String("path", path))
		}
	}

	return page, nil
}

// ScreenshotPath returns where a screenshot for rawURL would be written, or
// "" when screenshots are disabled.
func (f *ChromedpFetcher) ScreenshotPath(rawURL string) string {
	if !f.screenshot {
		return ""
	}
	return screenshotPath(f.screenshotDir, rawURL)
}

func (f *ChromedpFetcher) saveScreenshot(rawURL string, data []byte) (string, error) {
	target := screenshotPath(f.screenshotDir, rawURL)
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return target, nil
}

var invalidFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// screenshotPath derives a stable filename from the URL path.
func screenshotPath(dir, rawURL string) string {
	slug := "page"
	if u, err := url.Parse(rawURL); err == nil {
		p := strings.Trim(u.Path, "/")
		if p != "" {
			slug = invalidFilenameChars.ReplaceAllString(p, "_")
		} else if u.Host != "" {
			slug = invalidFilenameChars.ReplaceAllString(u.Host, "_")
		}
	}
	return filepath.Join(dir, slug+".png")
}

// forwardCancel propagates parent cancellation into a chromedp task context.
func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
