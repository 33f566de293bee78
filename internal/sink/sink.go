// Package sink serializes crawl results to their output formats. All writers
// render the same in-memory record slice; files are written once, after the
// whole URL list has been processed.
package sink

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/opencamdb/camcrawler/internal/crawler"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Sink writes result files into a target directory.
type Sink struct {
	dir    string
	indent int
	logger *zap.Logger
}

// New builds a Sink rooted at dir. Indent controls JSON indentation width.
func New(dir string, indent int, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{dir: dir, indent: indent, logger: logger}
}

// Write renders results into every requested format. Output files share a
// basename of crawl_results_<timestamp>_<runid> so one run's artifacts sort
// together. It returns the written paths.
func (s *Sink) Write(formats []string, runID string, ts time.Time, results []crawler.CrawlResult) ([]string, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, eris.Wrapf(err, "create output dir %s", s.dir)
	}

	base := "crawl_results_" + ts.Format("20060102_150405") + "_" + runID
	var paths []string
	for _, format := range formats {
		path := filepath.Join(s.dir, base+"."+format)
		var err error
		switch format {
		case FormatJSON:
			err = s.writeJSON(path, results)
		case FormatCSV:
			err = s.writeCSV(path, results)
		case FormatXLSX:
			err = s.writeXLSX(path, results)
		default:
			return paths, eris.Errorf("unsupported output format %q", format)
		}
		if err != nil {
			return paths, err
		}
		s.logger.Info("Wrote results",
			zap.String("format", format),
			zap.String("path", path),
			zap.Int("records", len(results)))
		paths = append(paths, path)
	}
	return paths, nil
}

// flatHeader lists the columns of the tabular formats (csv, xlsx).
var flatHeader = []string{
	"run_id", "url", "timestamp", "method", "status",
	"title", "h1", "meta_description", "content_length",
	"location_from_url", "location_from_page", "country", "city",
	"latitude", "longitude", "zoom", "coordinate_source",
	"embed_url", "content_url", "thumbnail_url",
	"thumbnail_count", "other_stream_count", "embed_code_count",
	"osm_present", "google_present",
	"screenshot", "error",
}

// flatten renders one result as a tabular row matching flatHeader.
func flatten(r crawler.CrawlResult) []string {
	embedURL, contentURL, thumbURL := "", "", ""
	if r.Streams.Primary != nil {
		embedURL = r.Streams.Primary.EmbedURL
		contentURL = r.Streams.Primary.ContentURL
		thumbURL = r.Streams.Primary.ThumbnailURL
	}
	return []string{
		r.RunID,
		r.URL,
		r.Timestamp.Format(time.RFC3339),
		string(r.Method),
		string(r.Status),
		r.Page.Title,
		r.Page.H1,
		r.Page.MetaDescription,
		itoa(r.Page.ContentLength),
		r.Location.FromURL,
		r.Location.FromPage,
		r.Location.Country,
		r.Location.City,
		r.Location.Coordinates.Latitude,
		r.Location.Coordinates.Longitude,
		r.Location.Coordinates.Zoom,
		string(r.Location.Coordinates.Source),
		embedURL,
		contentURL,
		thumbURL,
		itoa(len(r.Streams.Thumbnails)),
		itoa(len(r.Streams.Others)),
		itoa(len(r.Streams.EmbedCodes)),
		boolStr(r.Maps.OSM.Present),
		boolStr(r.Maps.Google.Present),
		r.Screenshot,
		r.Error,
	}
}
