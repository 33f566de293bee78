package sink

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/opencamdb/camcrawler/internal/crawler"
	"github.com/opencamdb/camcrawler/internal/extract"
)

func sampleResults() []crawler.CrawlResult {
	ts := time.Date(2026, 8, 26, 12, 30, 0, 0, time.UTC)
	return []crawler.CrawlResult{
		{
			RunID:     "run-1",
			URL:       "https://example.com/en/camera/vietnam/da-nang/",
			Timestamp: ts,
			Method:    crawler.MethodHTTP,
			Status:    crawler.StatusSuccess,
			Page:      extract.PageInfo{Title: "Da Nang Cam", ContentLength: 4096},
			Location: extract.LocationInfo{
				FromURL: "Vietnam",
				Country: "Vietnam",
				City:    "Da Nang",
				Coordinates: extract.CoordinateInfo{
					Latitude:  "16.0544",
					Longitude: "108.2022",
					Source:    extract.SourceJSONLD,
				},
			},
			Streams: extract.StreamInfo{
				Primary: &extract.PrimaryStream{EmbedURL: "https://www.youtube.com/embed/abc"},
				Thumbnails: []extract.Thumbnail{
					{Type: "json_ld", URL: "https://img.example/t.jpg", Source: "thumbnailUrl"},
				},
			},
		},
		{
			RunID:     "run-1",
			URL:       "https://example.com/broken/",
			Timestamp: ts,
			Status:    crawler.StatusError,
			Error:     "all 4 attempts failed: boom",
		},
	}
}

func TestSink_WriteAllFormats(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := New(dir, 2, nil)
	ts := time.Date(2026, 8, 26, 12, 30, 0, 0, time.UTC)

	paths, err := s.Write([]string{FormatJSON, FormatCSV, FormatXLSX}, "run-1", ts, sampleResults())
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, p := range paths {
		base := filepath.Base(p)
		require.Contains(t, base, "crawl_results_20260826_123000_run-1.")
	}
}

func TestSink_JSONRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := New(dir, 2, nil)

	paths, err := s.Write([]string{FormatJSON}, "run-1", time.Now(), sampleResults())
	require.NoError(t, err)

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)

	var decoded []crawler.CrawlResult
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, "Vietnam", decoded[0].Location.FromURL)
	require.Equal(t, "16.0544", decoded[0].Location.Coordinates.Latitude)
	require.Equal(t, crawler.StatusError, decoded[1].Status)
}

func TestSink_CSVRows(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := New(dir, 0, nil)

	paths, err := s.Write([]string{FormatCSV}, "run-1", time.Now(), sampleResults())
	require.NoError(t, err)

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck // read-only handle

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, flatHeader, rows[0])
	require.Equal(t, "https://example.com/en/camera/vietnam/da-nang/", rows[1][1])
	require.Equal(t, "16.0544", rows[1][13])
	require.Equal(t, "error", rows[2][4])
}

func TestSink_XLSXSheet(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := New(dir, 0, nil)

	paths, err := s.Write([]string{FormatXLSX}, "run-1", time.Now(), sampleResults())
	require.NoError(t, err)

	file, err := xlsx.OpenFile(paths[0])
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	require.Equal(t, "results", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	require.Equal(t, "run_id", sheet.Rows[0].Cells[0].String())
	require.Equal(t, "Da Nang Cam", sheet.Rows[1].Cells[5].String())
}

func TestSink_UnsupportedFormat(t *testing.T) {
	t.Parallel()
	s := New(t.TempDir(), 0, nil)
	_, err := s.Write([]string{"parquet"}, "run-1", time.Now(), nil)
	require.Error(t, err)
}
