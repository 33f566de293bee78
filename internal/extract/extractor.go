// Package extract turns raw webcam-listing HTML into normalized location,
// coordinate, stream and map records. Every resolver is a fallback chain over
// heterogeneous page signals: structured-data blocks, breadcrumb navigation,
// meta tags, embed markup and inline widget initializers. Resolvers never
// fail; absence of a signal yields an absent field, not an error.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Extractor bundles the structured-data parser and the four resolvers.
type Extractor struct {
	logger *zap.Logger
}

// New builds an Extractor. A nil logger is replaced with a no-op logger.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// PageInfo carries the direct HTML metadata of a fetched page.
type PageInfo struct {
	Title           string `json:"title"`
	H1              string `json:"h1"`
	MetaDescription string `json:"meta_description"`
	ContentLength   int    `json:"content_length"`
}

// ResolvePageInfo extracts title, first heading and meta description. The
// page-heading h1 wins over the title tag when present, matching how listing
// pages label the camera.
func (e *Extractor) ResolvePageInfo(doc *goquery.Document, contentLength int) PageInfo {
	info := PageInfo{ContentLength: contentLength}

	if heading := strings.TrimSpace(doc.Find("h1.page-heading").First().Text()); heading != "" {
		info.Title = heading
		info.H1 = heading
	} else {
		info.Title = strings.TrimSpace(doc.Find("title").First().Text())
		info.H1 = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	info.MetaDescription = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	return info
}
