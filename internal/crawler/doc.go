// Package crawler implements the crawl engine: URL normalization, the plain
// and rendering fetchers, retry and politeness handling, and the orchestrator
// that turns a URL list into one CrawlResult per URL.
package crawler
