package sink

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/opencamdb/camcrawler/internal/crawler"
)

// writeXLSX renders one flat row per result on a single worksheet.
func (s *Sink) writeXLSX(path string, results []crawler.CrawlResult) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("results")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range flatHeader {
		header.AddCell().SetString(col)
	}

	for _, r := range results {
		row := sheet.AddRow()
		for _, val := range flatten(r) {
			row.AddCell().SetString(val)
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}
