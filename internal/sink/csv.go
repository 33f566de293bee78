package sink

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/opencamdb/camcrawler/internal/crawler"
)

// writeCSV renders one flat row per result.
func (s *Sink) writeCSV(path string, results []crawler.CrawlResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create csv %s", path)
	}
	defer f.Close() //nolint:errcheck // flushed and checked below

	w := csv.NewWriter(f)
	if err := w.Write(flatHeader); err != nil {
		return eris.Wrap(err, "write csv header")
	}
	for _, r := range results {
		if err := w.Write(flatten(r)); err != nil {
			return eris.Wrapf(err, "write csv row for %s", r.URL)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "flush csv %s", path)
	}
	return f.Close()
}

func itoa(n int) string { return strconv.Itoa(n) }

func boolStr(b bool) string { return strconv.FormatBool(b) }
