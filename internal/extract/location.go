package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Crumb is one anchor within a breadcrumb trail.
type Crumb struct {
	Label string `json:"text"`
	Path  string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Trail is one breadcrumb navigation list in document order.
type Trail []Crumb

// LocationInfo describes where the camera is, assembled from URL segments,
// breadcrumb markup and page text. FromURL is always derivable from the URL
// alone; every other field may be absent.
type LocationInfo struct {
	Breadcrumbs []Trail        `json:"breadcrumbs"`
	FromURL     string         `json:"location_from_url"`
	FromPage    string         `json:"location_from_page"`
	Country     string         `json:"country,omitempty"`
	City        string         `json:"city,omitempty"`
	Coordinates CoordinateInfo `json:"coordinates"`
}

// Path marker segments recognized when deriving a location from the URL.
// "camera" pages place the country segment right after the marker; legacy
// "countries" pages use /countries/<country>/<city>/.
const (
	markerCamera    = "camera"
	markerCountries = "countries"
)

var titleCaser = cases.Title(language.English)

// ResolveLocation derives the location record for one page. Coordinates are
// resolved separately and attached by the caller.
func (e *Extractor) ResolveLocation(rawURL string, doc *goquery.Document, blocks []Block) LocationInfo {
	info := LocationInfo{
		FromURL:     LocationFromURL(rawURL),
		Breadcrumbs: collectBreadcrumbs(doc),
	}
	info.FromPage = locationFromPage(doc, info.Breadcrumbs, blocks)
	info.Country, info.City = countryAndCity(rawURL, info.Breadcrumbs)
	return info
}

// LocationFromURL derives a place name from the URL path alone. It is a pure
// function of the URL string: the first segment after a recognized marker is
// de-hyphenated and title-cased. URLs with too few segments yield "".
func LocationFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := pathSegments(u.Path)
	for i, seg := range segments {
		if (seg == markerCamera || seg == markerCountries) && i+1 < len(segments) {
			return humanizeSlug(segments[i+1])
		}
	}
	return ""
}

// collectBreadcrumbs captures every navigation list whose class mentions
// "breadcrumb". A page rendering breadcrumbs twice yields two trails; they
// are kept separate, in document order.
func collectBreadcrumbs(doc *goquery.Document) []Trail {
	var trails []Trail
	doc.Find("nav, ol, ul").Each(func(_ int, nav *goquery.Selection) {
		class, _ := nav.Attr("class")
		if !strings.Contains(strings.ToLower(class), "breadcrumb") {
			return
		}
		var trail Trail
		nav.Find("a").Each(func(_ int, a *goquery.Selection) {
			trail = append(trail, Crumb{
				Label: strings.TrimSpace(a.Text()),
				Path:  a.AttrOr("href", ""),
				Title: strings.TrimSpace(a.AttrOr("title", "")),
			})
		})
		if len(trail) > 0 {
			trails = append(trails, trail)
		}
	})
	return trails
}

// locationFromPage falls through heading text, meta description, the longest
// trail's final label and a structured block's name; first non-empty wins.
func locationFromPage(doc *goquery.Document, trails []Trail, blocks []Block) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if desc := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")); desc != "" {
		return desc
	}
	var longest Trail
	for _, trail := range trails {
		if len(trail) > len(longest) {
			longest = trail
		}
	}
	if len(longest) > 0 {
		return longest[len(longest)-1].Label
	}
	for _, block := range blocks {
		if block.Kind != BlockJSONLD {
			continue
		}
		name := ""
		walkMappings(block.Root, func(node Value) bool {
			name = node.FieldText("name")
			return name == ""
		})
		if name != "" {
			return name
		}
	}
	return ""
}

// countryAndCity reads /countries/<country>/<city>/ anchors out of the
// breadcrumb trails, preferring the anchor's title attribute over its slug,
// then falls back to the page URL's own path. A city is never left empty
// while a country is known.
func countryAndCity(rawURL string, trails []Trail) (country, city string) {
	for _, trail := range trails {
		for _, crumb := range trail {
			segments := pathSegments(crumbPath(crumb.Path))
			if len(segments) == 2 && segments[0] == markerCountries && country == "" {
				country = firstNonEmpty(crumb.Title, humanizeSlug(segments[1]))
			}
			if len(segments) == 3 && segments[0] == markerCountries && city == "" {
				city = firstNonEmpty(crumb.Title, humanizeSlug(segments[2]))
			}
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		segments := pathSegments(u.Path)
		if len(segments) >= 2 && segments[0] == markerCountries {
			if country == "" {
				country = humanizeSlug(segments[1])
			}
			if city == "" && len(segments) >= 3 {
				city = humanizeSlug(segments[2])
			}
		}
	}
	if city == "" {
		city = country
	}
	return country, city
}

func crumbPath(href string) string {
	if u, err := url.Parse(href); err == nil {
		return u.Path
	}
	return href
}

func pathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// humanizeSlug turns "quang-trung" into "Quang Trung".
func humanizeSlug(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
