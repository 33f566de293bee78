package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

const (
	acceptHeader         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLanguageHeader = "en-US,en;q=0.9"
)

// CollyFetcher is the lightweight fetch strategy: plain HTTP via a Colly
// collector, no JavaScript execution. Each Fetch clones the base collector
// so per-request callbacks never leak between fetches.
type CollyFetcher struct {
	baseCollector *colly.Collector
	agents        *userAgentRotor
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher.
func NewCollyFetcher(cfg Config, logger *zap.Logger) *CollyFetcher {
	base := colly.NewCollector()
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.Timeout)

	return &CollyFetcher{
		baseCollector: base,
		agents:        newUserAgentRotor(cfg.UserAgentPool()),
		logger:        logger,
	}
}

// Fetch retrieves a page over plain HTTP. Network failures, timeouts and
// non-2xx responses are transient; they may succeed on a later attempt. A
// URL that does not parse is permanent regardless of who calls the fetcher.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (PageDocument, error) {
	if err := ValidateURL(rawURL); err != nil {
		return PageDocument{}, err
	}
	collector := f.baseCollector.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() { resultCh <- res })
	}

	start := time.Now()

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", f.agents.Next())
		r.Headers.Set("Accept", acceptHeader)
		r.Headers.Set("Accept-Language", acceptLanguageHeader)
	})

	collector.OnResponse(func(r *colly.Response) {
		if r.StatusCode < 200 || r.StatusCode > 299 {
			send(fetchResult{err: NewTransientError(rawURL, fmt.Errorf("status %d", r.StatusCode))})
			return
		}
		body := normalizeCharset(r.Body, r.Headers.Get("Content-Type"))
		send(fetchResult{page: PageDocument{
			URL:      rawURL,
			HTML:     string(body),
			Method:   MethodHTTP,
			Duration: time.Since(start),
			ByteLen:  len(body),
		}})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		if r != nil && r.StatusCode != 0 {
			err = fmt.Errorf("status %d: %w", r.StatusCode, err)
		}
		send(fetchResult{err: NewTransientError(rawURL, err)})
	})

	if err := collector.Visit(rawURL); err != nil {
		return PageDocument{}, classifyVisitError(rawURL, err)
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return PageDocument{}, err
		}
		if res.err != nil {
			return PageDocument{}, res.err
		}
		f.logger.Debug("Fetched page",
			zap.String("url", rawURL),
			zap.Int("bytes", res.page.ByteLen),
			zap.Duration("duration", res.page.Duration))
		return res.page, nil
	default:
		return PageDocument{}, NewTransientError(rawURL, errors.New("colly fetch produced no result"))
	}
}

type fetchResult struct {
	page PageDocument
	err  error
}

// classifyVisitError tags errors Visit itself returns, before any request is
// made. A URL the collector refuses outright fails identically on every
// attempt; anything else is treated as retryable.
func classifyVisitError(rawURL string, err error) error {
	if errors.Is(err, colly.ErrMissingURL) || errors.Is(err, colly.ErrForbiddenURL) || errors.Is(err, colly.ErrForbiddenDomain) {
		return NewPermanentError(rawURL, err)
	}
	return NewTransientError(rawURL, err)
}

// normalizeCharset converts a response body to UTF-8 using the Content-Type
// header and any charset meta declarations. The body is returned unchanged
// when the encoding cannot be determined.
func normalizeCharset(body []byte, contentType string) []byte {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return append([]byte{}, body...)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return append([]byte{}, body...)
	}
	return decoded
}
