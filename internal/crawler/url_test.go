package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://example.com/en/camera/vietnam/", "https://example.com/en/camera/vietnam/"},
		{"leading at", "@https://example.com/cam/", "https://example.com/cam/"},
		{"double quotes", `"https://example.com/cam/"`, "https://example.com/cam/"},
		{"single quotes", "'https://example.com/cam/'", "https://example.com/cam/"},
		{"whitespace", "  https://example.com/cam/  ", "https://example.com/cam/"},
		{"vietnamese rewrite", "https://example.com/vi/camera/vietnam/", "https://example.com/en/camera/vietnam/"},
		{"at and quotes", `@"https://example.com/vi/cam/"`, "https://example.com/en/cam/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, NormalizeURL(tc.in))
		})
	}
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateURL("https://example.com/cam/"))
	require.NoError(t, ValidateURL("http://example.com"))

	for _, bad := range []string{
		"ftp://example.com/file",
		"example.com/no-scheme",
		"https://",
		"://broken",
	} {
		err := ValidateURL(bad)
		require.Error(t, err, bad)
		require.False(t, IsTransient(err), bad)
	}
}
