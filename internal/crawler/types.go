package crawler

import (
	"time"

	"github.com/opencamdb/camcrawler/internal/extract"
)

// Method records which fetch strategy produced a page.
type Method string

// Fetch methods stamped into each result.
const (
	MethodHTTP     Method = "http"
	MethodRendered Method = "rendered"
)

// Status is the terminal state of one URL's crawl.
type Status string

// Crawl status values.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// PageDocument is one fetched page: the raw HTML plus fetch metadata. It is
// immutable once returned by a fetcher; extraction never mutates it.
type PageDocument struct {
	URL      string
	HTML     string
	Method   Method
	Duration time.Duration
	ByteLen  int
}

// CrawlResult is the full record extracted from one URL. Exactly one result
// exists per input URL regardless of outcome; failures carry an Error string
// and zero-valued extraction fields.
type CrawlResult struct {
	RunID      string               `json:"run_id"`
	URL        string               `json:"url"`
	Timestamp  time.Time            `json:"timestamp"`
	Method     Method               `json:"method"`
	Status     Status               `json:"status"`
	Page       extract.PageInfo     `json:"page"`
	Location   extract.LocationInfo `json:"location"`
	Streams    extract.StreamInfo   `json:"streams"`
	Maps       extract.MapInfo      `json:"maps"`
	Screenshot string               `json:"screenshot,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// Summary counts run outcomes.
type Summary struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
