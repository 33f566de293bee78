// Package main hosts the camcrawler entrypoint.
//
// Architecture overview:
//   - Input: internal/urlfile reads the target list from a single file or a
//     directory of .txt files (directory wins when both are configured).
//   - Fetch pipeline: internal/crawler offers two strategies behind one
//     Fetcher interface. The Colly fetcher does plain HTTP with a rotating
//     User-Agent pool; the Chromedp fetcher drives headless Chrome, waits for
//     the body plus a settle delay, snapshots the post-JavaScript DOM and can
//     write a screenshot per page. Transient failures are retried up to
//     max_retries times with a fixed delay; a rate limiter paces the engine
//     between URLs.
//   - Extraction: internal/extract parses JSON-LD data islands and map-widget
//     initializer scripts into generic value trees, then resolves page
//     metadata, location (URL segments, breadcrumbs, page text), coordinates
//     (structured data, widgets, geo meta tags, in that precedence), stream
//     descriptors with provenance-tagged thumbnails, and per-technology map
//     records. Resolvers never fail a run; missing signals yield absent
//     fields and resolver panics are isolated per field.
//   - Output: internal/sink writes one record per URL to JSON, CSV and/or
//     XLSX, all rendered from the same in-memory slice after the full list
//     has been processed. Files are named crawl_results_<timestamp>_<runid>.
//   - Configuration & plumbing: Viper populates config from a file and
//     CAMCRAWLER_* env vars; zap provides structured logging; SIGINT/SIGTERM
//     stop the run between URLs and results collected so far are still
//     written.
package main
