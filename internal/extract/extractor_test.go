package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestResolvePageInfo_PageHeadingWinsOverTitle(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<html><head>
		<title>Site Title</title>
		<meta name="description" content="A beach camera.">
	</head><body>
		<h1 class="page-heading">Da Nang Beach Cam</h1>
		<h1>Other Heading</h1>
	</body></html>`)

	info := New(nil).ResolvePageInfo(doc, 1234)

	require.Equal(t, "Da Nang Beach Cam", info.Title)
	require.Equal(t, "Da Nang Beach Cam", info.H1)
	require.Equal(t, "A beach camera.", info.MetaDescription)
	require.Equal(t, 1234, info.ContentLength)
}

func TestResolvePageInfo_FallsBackToTitleTag(t *testing.T) {
	t.Parallel()
	doc := mustDoc(t, `<html><head><title> Plain Title </title></head>
		<body><h1>Heading</h1></body></html>`)

	info := New(nil).ResolvePageInfo(doc, 0)

	require.Equal(t, "Plain Title", info.Title)
	require.Equal(t, "Heading", info.H1)
	require.Empty(t, info.MetaDescription)
}
