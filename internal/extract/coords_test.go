package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveCoordinates_StructuredDataWins(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<html><head>
		<meta name="geo.position" content="1.0;2.0">
		<script type="application/ld+json">
			{"@type":"Place","geo":{"latitude":"16.0544","longitude":"108.2022"}}
		</script>
		<script>map.setView([99.9, 88.8], 10);</script>
	</head></html>`)

	e := New(nil)
	coords := e.ResolveCoordinates(e.ParseBlocks(doc), doc)

	require.Equal(t, SourceJSONLD, coords.Source)
	require.Equal(t, "16.0544", coords.Latitude)
	require.Equal(t, "108.2022", coords.Longitude)
	require.True(t, coords.Found())
}

func TestResolveCoordinates_OSMWidgetCenter(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<html><body>
		<script>var map = L.map('m').setView([16.0544, 108.2022], 15);</script>
	</body></html>`)

	e := New(nil)
	coords := e.ResolveCoordinates(e.ParseBlocks(doc), doc)

	require.Equal(t, SourceOSMCenter, coords.Source)
	require.Equal(t, "16.0544", coords.Latitude)
	require.Equal(t, "108.2022", coords.Longitude)
	require.Equal(t, "15", coords.Zoom)
}

func TestResolveCoordinates_GenericWidgetTag(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<script>var opts = {lat: 48.8584, lng: 2.2945, zoom: 17};</script>`)

	e := New(nil)
	coords := e.ResolveCoordinates(e.ParseBlocks(doc), doc)

	require.Equal(t, SourceMapWidget, coords.Source)
	require.Equal(t, "48.8584", coords.Latitude)
	require.Equal(t, "2.2945", coords.Longitude)
	require.Equal(t, "17", coords.Zoom)
}

func TestResolveCoordinates_MetaTags(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		html string
	}{
		{"geo.position", `<meta name="geo.position" content="40.7128; -74.0060">`},
		{"split pair", `<meta name="geo.position-latitude" content="40.7128">
			<meta name="geo.position-longitude" content="-74.0060">`},
		{"ICBM", `<meta name="ICBM" content="40.7128, -74.0060">`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := mustDoc(t, "<html><head>"+tc.html+"</head></html>")
			e := New(nil)
			coords := e.ResolveCoordinates(e.ParseBlocks(doc), doc)
			require.Equal(t, SourceMetaTags, coords.Source)
			require.Equal(t, "40.7128", coords.Latitude)
			require.Equal(t, "-74.0060", coords.Longitude)
		})
	}
}

func TestResolveCoordinates_NothingFound(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<html><body><p>no geo data</p></body></html>`)

	e := New(nil)
	coords := e.ResolveCoordinates(e.ParseBlocks(doc), doc)

	require.Equal(t, SourceNone, coords.Source)
	require.False(t, coords.Found())
	require.Empty(t, coords.Latitude)
	require.Empty(t, coords.Longitude)
}
