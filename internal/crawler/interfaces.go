package crawler

import (
	"context"
	"time"
)

// Fetcher retrieves one page. Implementations classify failures via
// FetchError so the engine can decide whether to retry.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (PageDocument, error)
}

// Closer is implemented by fetchers holding external resources (browser
// processes); the engine owner tears them down after the run.
type Closer interface {
	Close(ctx context.Context) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the real time in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
