package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// BlockKind identifies which class of data island produced a Block.
type BlockKind int

const (
	// BlockJSONLD is a script block explicitly typed as linked data.
	BlockJSONLD BlockKind = iota
	// BlockMapWidget is an inline script matching a map initializer signature.
	BlockMapWidget
)

// MapTech classifies the map technology a widget block belongs to.
type MapTech int

const (
	// TechGeneric covers bare lat/lng assignments with no recognizable widget.
	TechGeneric MapTech = iota
	// TechOSM covers Leaflet/OpenStreetMap initializers.
	TechOSM
	// TechGoogle covers Google Maps initializers.
	TechGoogle
)

// Block is one decoded data island. Blocks are independent; their order
// follows document order of the scripts that produced them.
type Block struct {
	Kind BlockKind
	Tech MapTech
	Root Value
}

// Widget-block field keys populated by the initializer patterns.
const (
	fieldCenterLat = "center_lat"
	fieldCenterLon = "center_lon"
	fieldLat       = "lat"
	fieldLon       = "lon"
	fieldZoom      = "zoom"
	fieldTileURL   = "tile_url"
)

var (
	reSetView      = regexp.MustCompile(`setView\(\s*\[\s*(-?[0-9.]+)\s*,\s*(-?[0-9.]+)\s*\]\s*,\s*([0-9]+)`)
	reLeafletMap   = regexp.MustCompile(`L\.map\([^)]*\)`)
	reCenterArr    = regexp.MustCompile(`center["']?\s*:\s*\[\s*(-?[0-9.]+)\s*,\s*(-?[0-9.]+)\s*\]`)
	reCenterLat    = regexp.MustCompile(`center_lat["']?\s*[:=]\s*["']?(-?[0-9.]+)`)
	reCenterLon    = regexp.MustCompile(`center_lon["']?\s*[:=]\s*["']?(-?[0-9.]+)`)
	reGoogleLatLng = regexp.MustCompile(`google\.maps\.LatLng\(\s*(-?[0-9.]+)\s*,\s*(-?[0-9.]+)\s*\)`)
	reLatPair      = regexp.MustCompile(`["']?lat["']?\s*[:=]\s*(-?[0-9.]+)\s*,\s*["']?ln?g["']?\s*[:=]\s*(-?[0-9.]+)`)
	reLngFirst     = regexp.MustCompile(`["']?lng["']?\s*[:=]\s*(-?[0-9.]+)\s*,\s*["']?lat["']?\s*[:=]\s*(-?[0-9.]+)`)
	reLatLon       = regexp.MustCompile(`"latitude"\s*:\s*(-?[0-9.]+)\s*,\s*"longitude"\s*:\s*(-?[0-9.]+)`)
	reZoom         = regexp.MustCompile(`["']?zoom["']?\s*[:=]\s*["']?([0-9]+)`)
	reOSMTile      = regexp.MustCompile(`https?://[^"'\s]*tile\.openstreetmap\.org[^"'\s]*\{z\}[^"'\s]*`)
	reTileTmpl     = regexp.MustCompile(`https?://[^"'\s]*\{z\}/\{x\}/\{y\}[^"'\s]*`)
)

// ParseBlocks scans the document for embedded data islands: JSON-LD scripts
// and inline map-widget initializers. One pass over the scripts keeps blocks
// in document order across both kinds. A malformed island is skipped and
// soft-logged; it never aborts extraction of the remaining islands. An empty
// result is the normal outcome for pages without structured data.
func (e *Extractor) ParseBlocks(doc *goquery.Document) []Block {
	var blocks []Block

	doc.Find("script").Each(func(i int, s *goquery.Selection) {
		typ, _ := s.Attr("type")
		if strings.EqualFold(strings.TrimSpace(typ), "application/ld+json") {
			raw := strings.TrimSpace(s.Text())
			if raw == "" {
				return
			}
			root, err := decodeJSON(raw)
			if err != nil {
				e.logger.Debug("Skipping malformed JSON-LD block",
					zap.Int("index", i), zap.Error(err))
				return
			}
			blocks = append(blocks, Block{Kind: BlockJSONLD, Root: root})
			return
		}
		if widget, ok := parseWidgetScript(s.Text()); ok {
			blocks = append(blocks, widget...)
		}
	})

	return blocks
}

// parseWidgetScript runs the initializer signatures over one script body and
// folds everything found into at most one block per map technology.
func parseWidgetScript(text string) ([]Block, bool) {
	if text == "" {
		return nil, false
	}

	osm := map[string]Value{}
	google := map[string]Value{}
	generic := map[string]Value{}

	if m := reSetView.FindStringSubmatch(text); m != nil {
		osm[fieldCenterLat] = Scalar(m[1])
		osm[fieldCenterLon] = Scalar(m[2])
		osm[fieldZoom] = Scalar(m[3])
	}
	if m := reCenterArr.FindStringSubmatch(text); m != nil {
		setIfAbsent(osm, fieldCenterLat, m[1])
		setIfAbsent(osm, fieldCenterLon, m[2])
	}
	if m := reCenterLat.FindStringSubmatch(text); m != nil {
		setIfAbsent(osm, fieldCenterLat, m[1])
	}
	if m := reCenterLon.FindStringSubmatch(text); m != nil {
		setIfAbsent(osm, fieldCenterLon, m[1])
	}
	if m := reOSMTile.FindString(text); m != "" {
		osm[fieldTileURL] = Scalar(m)
	} else if m := reTileTmpl.FindString(text); m != "" && len(osm) > 0 {
		osm[fieldTileURL] = Scalar(m)
	}
	if reLeafletMap.MatchString(text) && len(osm) == 0 {
		// A Leaflet init with no literal center still marks the script as an
		// OSM widget so the map resolver can record its presence.
		osm["present"] = Scalar("true")
	}

	if m := reGoogleLatLng.FindStringSubmatch(text); m != nil {
		google[fieldLat] = Scalar(m[1])
		google[fieldLon] = Scalar(m[2])
	}

	if len(osm) == 0 && len(google) == 0 {
		if m := reLatPair.FindStringSubmatch(text); m != nil {
			generic[fieldLat] = Scalar(m[1])
			generic[fieldLon] = Scalar(m[2])
		} else if m := reLngFirst.FindStringSubmatch(text); m != nil {
			generic[fieldLat] = Scalar(m[2])
			generic[fieldLon] = Scalar(m[1])
		} else if m := reLatLon.FindStringSubmatch(text); m != nil {
			generic[fieldLat] = Scalar(m[1])
			generic[fieldLon] = Scalar(m[2])
		}
	}

	if m := reZoom.FindStringSubmatch(text); m != nil {
		for _, fields := range []map[string]Value{osm, google, generic} {
			if len(fields) > 0 {
				setIfAbsent(fields, fieldZoom, m[1])
			}
		}
	}

	var blocks []Block
	if len(osm) > 0 {
		blocks = append(blocks, Block{Kind: BlockMapWidget, Tech: TechOSM, Root: Mapping(osm)})
	}
	if len(google) > 0 {
		blocks = append(blocks, Block{Kind: BlockMapWidget, Tech: TechGoogle, Root: Mapping(google)})
	}
	if len(generic) > 0 {
		blocks = append(blocks, Block{Kind: BlockMapWidget, Tech: TechGeneric, Root: Mapping(generic)})
	}
	return blocks, len(blocks) > 0
}

func setIfAbsent(m map[string]Value, key, val string) {
	if _, ok := m[key]; !ok {
		m[key] = Scalar(val)
	}
}
