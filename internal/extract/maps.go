package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// OSMMap describes an OpenStreetMap/Leaflet widget found on the page.
type OSMMap struct {
	Present   bool   `json:"present"`
	CenterLat string `json:"center_lat,omitempty"`
	CenterLon string `json:"center_lon,omitempty"`
	Zoom      string `json:"zoom,omitempty"`
	TileURL   string `json:"tile_url,omitempty"`
	IframeSrc string `json:"iframe_src,omitempty"`
}

// GoogleMap describes a Google Maps widget found on the page.
type GoogleMap struct {
	Present   bool   `json:"present"`
	Lat       string `json:"lat,omitempty"`
	Lon       string `json:"lon,omitempty"`
	Zoom      string `json:"zoom,omitempty"`
	IframeSrc string `json:"iframe_src,omitempty"`
}

// GenericMap describes coordinate-bearing script state with no recognizable
// widget around it.
type GenericMap struct {
	Present bool   `json:"present"`
	Lat     string `json:"lat,omitempty"`
	Lon     string `json:"lon,omitempty"`
	Zoom    string `json:"zoom,omitempty"`
}

// MapInfo aggregates every map widget detected on a page. Absent widgets
// carry Present=false and empty fields.
type MapInfo struct {
	OSM     OSMMap     `json:"openstreetmap"`
	Google  GoogleMap  `json:"google_maps"`
	Generic GenericMap `json:"map_data"`
}

// ResolveMaps folds the widget blocks into per-technology map records. Within
// one technology the first block to supply a field wins; later blocks only
// fill fields still empty. Embedded OSM iframes count as a present OSM map
// and contribute a center when their URL carries one.
func (e *Extractor) ResolveMaps(blocks []Block, doc *goquery.Document) MapInfo {
	var info MapInfo

	for _, block := range blocks {
		if block.Kind != BlockMapWidget {
			continue
		}
		switch block.Tech {
		case TechOSM:
			info.OSM.Present = true
			fillIfEmpty(&info.OSM.CenterLat, block.Root.FieldText(fieldCenterLat))
			fillIfEmpty(&info.OSM.CenterLon, block.Root.FieldText(fieldCenterLon))
			fillIfEmpty(&info.OSM.Zoom, block.Root.FieldText(fieldZoom))
			fillIfEmpty(&info.OSM.TileURL, block.Root.FieldText(fieldTileURL))
		case TechGoogle:
			info.Google.Present = true
			fillIfEmpty(&info.Google.Lat, block.Root.FieldText(fieldLat))
			fillIfEmpty(&info.Google.Lon, block.Root.FieldText(fieldLon))
			fillIfEmpty(&info.Google.Zoom, block.Root.FieldText(fieldZoom))
		case TechGeneric:
			info.Generic.Present = true
			fillIfEmpty(&info.Generic.Lat, block.Root.FieldText(fieldLat))
			fillIfEmpty(&info.Generic.Lon, block.Root.FieldText(fieldLon))
			fillIfEmpty(&info.Generic.Zoom, block.Root.FieldText(fieldZoom))
		}
	}

	doc.Find("iframe").Each(func(_ int, f *goquery.Selection) {
		src := f.AttrOr("src", "")
		lower := strings.ToLower(src)
		switch {
		case strings.Contains(lower, "openstreetmap.org"):
			info.OSM.Present = true
			fillIfEmpty(&info.OSM.IframeSrc, src)
			if lat, lon, ok := osmEmbedCenter(src); ok {
				fillIfEmpty(&info.OSM.CenterLat, lat)
				fillIfEmpty(&info.OSM.CenterLon, lon)
			}
		case strings.Contains(lower, "google.com/maps"):
			info.Google.Present = true
			fillIfEmpty(&info.Google.IframeSrc, src)
		}
	})

	return info
}

// osmEmbedCenter reads the marker coordinate out of an osm embed URL
// (marker=lat,lon query parameter).
func osmEmbedCenter(src string) (lat, lon string, ok bool) {
	idx := strings.Index(src, "marker=")
	if idx < 0 {
		return "", "", false
	}
	marker := src[idx+len("marker="):]
	if amp := strings.IndexByte(marker, '&'); amp >= 0 {
		marker = marker[:amp]
	}
	marker = strings.ReplaceAll(marker, "%2C", ",")
	return splitPair(marker, ",")
}

func fillIfEmpty(dst *string, val string) {
	if *dst == "" && val != "" {
		*dst = val
	}
}
