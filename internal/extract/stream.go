package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PrimaryStream is the video-provider descriptor taken from structured data:
// the embed endpoint, the watchable content URL and the poster thumbnail.
type PrimaryStream struct {
	EmbedURL     string `json:"embedUrl"`
	ContentURL   string `json:"contentUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Thumbnail is one candidate thumbnail with provenance. Type records which
// class of source yielded it (json_ld, meta, img_tag) and Source the
// originating field or tag name. Duplicates across provenance are kept.
type Thumbnail struct {
	Type   string `json:"type"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// OtherStream is a media URL found anywhere in the document, classified by
// the delivery pattern that matched it.
type OtherStream struct {
	URL     string `json:"url"`
	Pattern string `json:"pattern"`
}

// StreamInfo aggregates every live-stream signal found on a page.
type StreamInfo struct {
	Primary    *PrimaryStream `json:"primary,omitempty"`
	Thumbnails []Thumbnail    `json:"thumbnails"`
	Others     []OtherStream  `json:"other_streams"`
	EmbedCodes []string       `json:"embed_codes"`
}

// Other-stream pattern tags.
const (
	PatternHLSPlaylist = "hls_playlist"
	PatternVideoFile   = "video_file"
	PatternRealtime    = "realtime"
)

var (
	reHLSURL      = regexp.MustCompile(`https?://[^\s"'<>]+\.m3u8[^\s"'<>]*`)
	reVideoURL    = regexp.MustCompile(`https?://[^\s"'<>]+\.(?:mp4|flv|avi|mov)[^\s"'<>]*`)
	reRealtimeURL = regexp.MustCompile(`rt(?:m|s)p://[^\s"'<>]+`)
	reEmbedPath   = regexp.MustCompile(`/embed/([a-zA-Z0-9_-]+)`)
)

var streamProviderHosts = []string{
	"youtube.com", "youtu.be", "youtube-nocookie.com",
	"vimeo.com", "twitch.tv", "dailymotion.com",
}

// ResolveStreams extracts the primary descriptor, provenance-tagged
// thumbnails, secondary media URLs and verbatim embed snippets. It never
// fails: a page with no matching markup yields empty sequences and no
// primary descriptor.
func (e *Extractor) ResolveStreams(blocks []Block, doc *goquery.Document) StreamInfo {
	var info StreamInfo

	info.Primary = primaryFromBlocks(blocks)
	primaryFromMarkup(&info, doc)
	info.Thumbnails = collectThumbnails(blocks, doc)
	info.Others = collectOtherStreams(doc, info.Primary)
	info.EmbedCodes = collectEmbedCodes(doc)

	return info
}

// primaryFromBlocks takes the first structured block exposing the
// video-provider trio. A thumbnailUrl sequence contributes its first entry.
func primaryFromBlocks(blocks []Block) *PrimaryStream {
	var primary *PrimaryStream
	for _, block := range blocks {
		if block.Kind != BlockJSONLD {
			continue
		}
		walkMappings(block.Root, func(node Value) bool {
			embed := node.FieldText("embedUrl")
			content := node.FieldText("contentUrl")
			thumb := node.FieldText("thumbnailUrl")
			if embed == "" && content == "" && thumb == "" {
				return true
			}
			if primary == nil {
				primary = &PrimaryStream{}
			}
			if primary.EmbedURL == "" {
				primary.EmbedURL = embed
			}
			if primary.ContentURL == "" {
				primary.ContentURL = content
			}
			if primary.ThumbnailURL == "" {
				primary.ThumbnailURL = thumb
			}
			return primary.EmbedURL == "" || primary.ContentURL == "" || primary.ThumbnailURL == ""
		})
		if primary != nil && primary.EmbedURL != "" && primary.ContentURL != "" && primary.ThumbnailURL != "" {
			break
		}
	}
	return primary
}

// primaryFromMarkup fills gaps the structured data left: a provider iframe
// supplies the embed URL (and a derived watch URL), og:image/twitter:image
// supply a missing thumbnail.
func primaryFromMarkup(info *StreamInfo, doc *goquery.Document) {
	doc.Find("iframe").EachWithBreak(func(_ int, f *goquery.Selection) bool {
		src := f.AttrOr("src", "")
		if !isStreamProviderURL(src) {
			return true
		}
		if info.Primary == nil {
			info.Primary = &PrimaryStream{}
		}
		if info.Primary.EmbedURL == "" {
			info.Primary.EmbedURL = src
		}
		if info.Primary.ContentURL == "" {
			if m := reEmbedPath.FindStringSubmatch(src); m != nil {
				info.Primary.ContentURL = "https://www.youtube.com/watch?v=" + m[1]
			}
		}
		return false
	})

	if info.Primary != nil && info.Primary.ThumbnailURL == "" {
		if img := doc.Find(`meta[property="og:image"]`).AttrOr("content", ""); img != "" {
			info.Primary.ThumbnailURL = img
		} else if img := doc.Find(`meta[name="twitter:image"]`).AttrOr("content", ""); img != "" {
			info.Primary.ThumbnailURL = img
		}
	}
}

// collectThumbnails unions thumbnail candidates from structured blocks, meta
// tags and img markup, each tagged with its provenance. No deduplication:
// the same URL from two sources is two entries.
func collectThumbnails(blocks []Block, doc *goquery.Document) []Thumbnail {
	var thumbs []Thumbnail

	for _, block := range blocks {
		if block.Kind != BlockJSONLD {
			continue
		}
		walkMappings(block.Root, func(node Value) bool {
			if t := node.FieldText("thumbnailUrl"); t != "" {
				thumbs = append(thumbs, Thumbnail{Type: "json_ld", URL: t, Source: "thumbnailUrl"})
			}
			if image, ok := node.Field("image"); ok {
				thumbs = append(thumbs, imageThumbnails(image)...)
			}
			return true
		})
	}

	for _, meta := range []struct{ sel, attr, source string }{
		{`meta[property="og:image"]`, "content", "og:image"},
		{`meta[name="twitter:image"]`, "content", "twitter:image"},
		{`meta[name="thumbnail"]`, "content", "thumbnail"},
	} {
		if u := doc.Find(meta.sel).AttrOr(meta.attr, ""); strings.HasPrefix(u, "http") {
			thumbs = append(thumbs, Thumbnail{Type: "meta", URL: u, Source: meta.source})
		}
	}

	doc.Find(`img[class*="thumb"], img[class*="preview"]`).Each(func(_ int, img *goquery.Selection) {
		if src := img.AttrOr("src", ""); strings.HasPrefix(src, "http") {
			thumbs = append(thumbs, Thumbnail{Type: "img_tag", URL: src, Source: "img"})
		}
	})

	return thumbs
}

// imageThumbnails handles every shape a structured image field shows up in:
// bare string, object with url, or a list of either.
func imageThumbnails(image Value) []Thumbnail {
	switch image.Kind {
	case KindScalar:
		if image.Str != "" {
			return []Thumbnail{{Type: "json_ld", URL: image.Str, Source: "image"}}
		}
	case KindMapping:
		if u := image.FieldText("url"); u != "" {
			return []Thumbnail{{Type: "json_ld", URL: u, Source: "image.url"}}
		}
	case KindSequence:
		var thumbs []Thumbnail
		for _, item := range image.Seq {
			switch item.Kind {
			case KindScalar:
				if item.Str != "" {
					thumbs = append(thumbs, Thumbnail{Type: "json_ld", URL: item.Str, Source: "image[list]"})
				}
			case KindMapping:
				if u := item.FieldText("url"); u != "" {
					thumbs = append(thumbs, Thumbnail{Type: "json_ld", URL: u, Source: "image[list].url"})
				}
			}
		}
		return thumbs
	}
	return nil
}

// collectOtherStreams scans the whole document text for media-delivery URLs
// not already captured as the primary descriptor.
func collectOtherStreams(doc *goquery.Document, primary *PrimaryStream) []OtherStream {
	html, err := doc.Html()
	if err != nil {
		return nil
	}

	claimed := map[string]struct{}{}
	if primary != nil {
		for _, u := range []string{primary.EmbedURL, primary.ContentURL} {
			if u != "" {
				claimed[u] = struct{}{}
			}
		}
	}

	var others []OtherStream
	seen := map[string]struct{}{}
	add := func(urls []string, pattern string) {
		for _, u := range urls {
			if _, dup := seen[u]; dup {
				continue
			}
			if _, isPrimary := claimed[u]; isPrimary {
				continue
			}
			seen[u] = struct{}{}
			others = append(others, OtherStream{URL: u, Pattern: pattern})
		}
	}
	add(reHLSURL.FindAllString(html, -1), PatternHLSPlaylist)
	add(reVideoURL.FindAllString(html, -1), PatternVideoFile)
	add(reRealtimeURL.FindAllString(html, -1), PatternRealtime)
	return others
}

// collectEmbedCodes captures verbatim iframe/embed markup referencing a
// stream provider.
func collectEmbedCodes(doc *goquery.Document) []string {
	var codes []string
	doc.Find("iframe, embed").Each(func(_ int, el *goquery.Selection) {
		if !isStreamProviderURL(el.AttrOr("src", "")) {
			return
		}
		if snippet, err := goquery.OuterHtml(el); err == nil {
			codes = append(codes, strings.TrimSpace(snippet))
		}
	})
	return codes
}

func isStreamProviderURL(u string) bool {
	lower := strings.ToLower(u)
	for _, host := range streamProviderHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}
