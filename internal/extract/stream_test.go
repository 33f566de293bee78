package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveStreams_PrimaryFromStructuredData(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<html><head>
		<script type="application/ld+json">
			{"@type":"VideoObject",
			 "embedUrl":"https://www.youtube.com/embed/abc123",
			 "contentUrl":"https://www.youtube.com/watch?v=abc123",
			 "thumbnailUrl":"https://img.example/thumb.jpg"}
		</script>
	</head></html>`)

	e := New(nil)
	info := e.ResolveStreams(e.ParseBlocks(doc), doc)

	require.NotNil(t, info.Primary)
	require.Equal(t, "https://www.youtube.com/embed/abc123", info.Primary.EmbedURL)
	require.Equal(t, "https://www.youtube.com/watch?v=abc123", info.Primary.ContentURL)
	require.Equal(t, "https://img.example/thumb.jpg", info.Primary.ThumbnailURL)

	require.Len(t, info.Thumbnails, 1)
	require.Equal(t, "json_ld", info.Thumbnails[0].Type)
	require.Equal(t, "thumbnailUrl", info.Thumbnails[0].Source)
	require.Equal(t, "https://img.example/thumb.jpg", info.Thumbnails[0].URL)
}

func TestResolveStreams_IframeFallbackDerivesWatchURL(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<html><body>
		<iframe src="https://www.youtube.com/embed/xyz789?autoplay=1"></iframe>
	</body></html>`)

	e := New(nil)
	info := e.ResolveStreams(e.ParseBlocks(doc), doc)

	require.NotNil(t, info.Primary)
	require.Equal(t, "https://www.youtube.com/embed/xyz789?autoplay=1", info.Primary.EmbedURL)
	require.Equal(t, "https://www.youtube.com/watch?v=xyz789", info.Primary.ContentURL)

	require.Len(t, info.EmbedCodes, 1)
	require.Contains(t, info.EmbedCodes[0], `<iframe src="https://www.youtube.com/embed/xyz789?autoplay=1">`)
}

func TestResolveStreams_MetaImageFillsThumbnail(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<html><head>
		<meta property="og:image" content="https://img.example/og.jpg">
	</head><body>
		<iframe src="https://player.vimeo.com/video/1?host=vimeo.com"></iframe>
	</body></html>`)

	e := New(nil)
	info := e.ResolveStreams(e.ParseBlocks(doc), doc)

	require.NotNil(t, info.Primary)
	require.Equal(t, "https://img.example/og.jpg", info.Primary.ThumbnailURL)

	require.Len(t, info.Thumbnails, 1)
	require.Equal(t, Thumbnail{Type: "meta", URL: "https://img.example/og.jpg", Source: "og:image"}, info.Thumbnails[0])
}

func TestResolveStreams_ThumbnailProvenance(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<html><head>
		<script type="application/ld+json">
			{"image":[{"url":"https://img.example/a.jpg"},"https://img.example/b.jpg"]}
		</script>
		<meta name="twitter:image" content="https://img.example/tw.jpg">
	</head><body>
		<img class="cam-thumb" src="https://img.example/img.jpg">
	</body></html>`)

	e := New(nil)
	info := e.ResolveStreams(e.ParseBlocks(doc), doc)

	require.Equal(t, []Thumbnail{
		{Type: "json_ld", URL: "https://img.example/a.jpg", Source: "image[list].url"},
		{Type: "json_ld", URL: "https://img.example/b.jpg", Source: "image[list]"},
		{Type: "meta", URL: "https://img.example/tw.jpg", Source: "twitter:image"},
		{Type: "img_tag", URL: "https://img.example/img.jpg", Source: "img"},
	}, info.Thumbnails)
}

func TestResolveStreams_OtherStreamsExcludePrimary(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<html><head>
		<script type="application/ld+json">
			{"embedUrl":"https://www.youtube.com/embed/abc",
			 "contentUrl":"https://cdn.example/live/main.m3u8"}
		</script>
	</head><body>
		<script>
			var hls = "https://cdn.example/live/main.m3u8";
			var backup = "https://cdn.example/live/backup.m3u8";
			var clip = "https://cdn.example/clips/day.mp4";
			var rt = "rtsp://cam.example/stream1";
		</script>
	</body></html>`)

	e := New(nil)
	info := e.ResolveStreams(e.ParseBlocks(doc), doc)

	require.Equal(t, []OtherStream{
		{URL: "https://cdn.example/live/backup.m3u8", Pattern: PatternHLSPlaylist},
		{URL: "https://cdn.example/clips/day.mp4", Pattern: PatternVideoFile},
		{URL: "rtsp://cam.example/stream1", Pattern: PatternRealtime},
	}, info.Others)
}

func TestResolveStreams_EmptyPage(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<html><body><p>no video here</p></body></html>`)

	e := New(nil)
	info := e.ResolveStreams(e.ParseBlocks(doc), doc)

	require.Nil(t, info.Primary)
	require.Empty(t, info.Thumbnails)
	require.Empty(t, info.Others)
	require.Empty(t, info.EmbedCodes)
}
