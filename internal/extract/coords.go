package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// CoordSource tags which resolution path produced a coordinate.
type CoordSource string

// Coordinate sources, ordered by resolution precedence.
const (
	SourceJSONLD    CoordSource = "json_ld"
	SourceOSMCenter CoordSource = "openstreetmap_center"
	SourceMapWidget CoordSource = "map_widget_init"
	SourceMetaTags  CoordSource = "meta_tags"
	SourceNone      CoordSource = "none"
)

// CoordinateInfo is a resolved latitude/longitude/zoom triple. Values are the
// literal strings found in the source so trailing precision is preserved for
// downstream map display. Source is none exactly when latitude and longitude
// are empty.
type CoordinateInfo struct {
	Latitude  string      `json:"latitude,omitempty"`
	Longitude string      `json:"longitude,omitempty"`
	Zoom      string      `json:"zoom,omitempty"`
	Source    CoordSource `json:"source"`
}

// Found reports whether the resolver produced a coordinate pair.
func (c CoordinateInfo) Found() bool { return c.Source != SourceNone }

// coordRule is one step of the precedence chain: a source-tagged extractor
// evaluated in order, stopping at the first match. Keeping the chain as data
// makes the precedence contract testable apart from HTML parsing.
type coordRule struct {
	name    string
	resolve func(blocks []Block, doc *goquery.Document) (CoordinateInfo, bool)
}

var coordRules = []coordRule{
	{name: "structured geo block", resolve: coordsFromJSONLD},
	{name: "map widget initializer", resolve: coordsFromWidget},
	{name: "geo meta tags", resolve: coordsFromMetaTags},
}

// ResolveCoordinates walks the precedence chain: structured data first, then
// widget initializers, then meta tags. Lower-precedence sources are never
// consulted once a rule matches, even when their values differ.
func (e *Extractor) ResolveCoordinates(blocks []Block, doc *goquery.Document) CoordinateInfo {
	for _, rule := range coordRules {
		if coords, ok := rule.resolve(blocks, doc); ok {
			e.logger.Debug("Resolved coordinates",
				zap.String("rule", rule.name),
				zap.String("source", string(coords.Source)))
			return coords
		}
	}
	return CoordinateInfo{Source: SourceNone}
}

// coordsFromJSONLD looks for geo/location mappings carrying explicit
// latitude/longitude fields inside linked-data blocks.
func coordsFromJSONLD(blocks []Block, _ *goquery.Document) (CoordinateInfo, bool) {
	for _, block := range blocks {
		if block.Kind != BlockJSONLD {
			continue
		}
		var found CoordinateInfo
		walkMappings(block.Root, func(node Value) bool {
			for _, key := range []string{"geo", "location"} {
				child, ok := node.Field(key)
				if !ok {
					continue
				}
				lat := child.FieldText("latitude")
				lon := child.FieldText("longitude")
				if lat != "" && lon != "" {
					found = CoordinateInfo{Latitude: lat, Longitude: lon, Source: SourceJSONLD}
					return false
				}
			}
			return true
		})
		if found.Found() {
			return found, true
		}
	}
	return CoordinateInfo{}, false
}

// coordsFromWidget takes the first widget block with a usable pair. OSM
// center fields win the openstreetmap_center tag; bare lat/lng assignments
// are tagged map_widget_init. Zoom comes from the winning block when it has
// one, otherwise from the first block that does.
func coordsFromWidget(blocks []Block, _ *goquery.Document) (CoordinateInfo, bool) {
	for _, block := range blocks {
		if block.Kind != BlockMapWidget {
			continue
		}
		lat, lon := widgetPair(block)
		if lat == "" || lon == "" {
			continue
		}
		source := SourceMapWidget
		if block.Tech == TechOSM {
			source = SourceOSMCenter
		}
		zoom := block.Root.FieldText(fieldZoom)
		if zoom == "" {
			zoom = firstWidgetZoom(blocks)
		}
		return CoordinateInfo{Latitude: lat, Longitude: lon, Zoom: zoom, Source: source}, true
	}
	return CoordinateInfo{}, false
}

func widgetPair(block Block) (lat, lon string) {
	if lat := block.Root.FieldText(fieldCenterLat); lat != "" {
		return lat, block.Root.FieldText(fieldCenterLon)
	}
	return block.Root.FieldText(fieldLat), block.Root.FieldText(fieldLon)
}

func firstWidgetZoom(blocks []Block) string {
	for _, block := range blocks {
		if block.Kind != BlockMapWidget {
			continue
		}
		if zoom := block.Root.FieldText(fieldZoom); zoom != "" {
			return zoom
		}
	}
	return ""
}

// coordsFromMetaTags reads geo.position ("lat;lon"), the split
// geo.position-latitude/-longitude pair, and ICBM ("lat, lon").
func coordsFromMetaTags(_ []Block, doc *goquery.Document) (CoordinateInfo, bool) {
	if pos := doc.Find(`meta[name="geo.position"]`).AttrOr("content", ""); pos != "" {
		if lat, lon, ok := splitPair(pos, ";"); ok {
			return CoordinateInfo{Latitude: lat, Longitude: lon, Source: SourceMetaTags}, true
		}
	}
	lat := strings.TrimSpace(doc.Find(`meta[name="geo.position-latitude"]`).AttrOr("content", ""))
	lon := strings.TrimSpace(doc.Find(`meta[name="geo.position-longitude"]`).AttrOr("content", ""))
	if lat != "" && lon != "" {
		return CoordinateInfo{Latitude: lat, Longitude: lon, Source: SourceMetaTags}, true
	}
	if icbm := doc.Find(`meta[name="ICBM"]`).AttrOr("content", ""); icbm != "" {
		if lat, lon, ok := splitPair(icbm, ","); ok {
			return CoordinateInfo{Latitude: lat, Longitude: lon, Source: SourceMetaTags}, true
		}
	}
	return CoordinateInfo{}, false
}

func splitPair(content, sep string) (lat, lon string, ok bool) {
	parts := strings.SplitN(content, sep, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	lat = strings.TrimSpace(parts[0])
	lon = strings.TrimSpace(parts[1])
	return lat, lon, lat != "" && lon != ""
}
