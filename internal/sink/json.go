package sink

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/opencamdb/camcrawler/internal/crawler"
)

// writeJSON renders the full nested record tree, indented per configuration.
func (s *Sink) writeJSON(path string, results []crawler.CrawlResult) error {
	payload, err := json.MarshalIndent(results, "", strings.Repeat(" ", s.indent))
	if err != nil {
		return eris.Wrap(err, "marshal results")
	}
	payload = append(payload, '\n')
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return eris.Wrapf(err, "write json %s", path)
	}
	return nil
}
