package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	markup := readParserFixture(t, "article.html")

	got, err := ExtractLinks(markup, "http://a.test/notes/")
	require.NoError(t, err)

	require.Equal(t, []string{
		"http://a.test/notes/monday",
		"http://a.test/notes/tuesday#evening",
		"http://a.test/notes/",
		"https://ext.test/",
		"http://a.test/notes/monday",
	}, got)
}

func TestExtractLinksWithoutAnchors(t *testing.T) {
	t.Parallel()

	got, err := ExtractLinks(readParserFixture(t, "bare.html"), "http://a.test/")
	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)
}

func TestExtractLinksInvalidBase(t *testing.T) {
	t.Parallel()

	got, err := ExtractLinks([]byte(`<a href="/x">x</a>`), "http://[::1")
	require.Error(t, err)
	require.Empty(t, got)
}

func TestParseContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		htmlFixture string
		want        Content
	}{
		{
			name:        "full article",
			htmlFixture: "article.html",
			want: Content{
				Title:               "Field Notes & Sketches",
				MetaDescription:     "  Weekly notes from\n     the field. ",
				H1:                  []string{"Field Notes"},
				H2:                  []string{"Monday", "Tuesday"},
				H3:                  []string{"Morning walk"},
				Paragraphs:          []string{"One", "Two", "Three", "Four", "Five"},
				TotalParagraphCount: 7,
			},
		},
		{
			name:        "missing structure",
			htmlFixture: "bare.html",
			want: Content{
				Title:               NoTitle,
				MetaDescription:     "",
				H1:                  []string{},
				H2:                  []string{},
				H3:                  []string{},
				Paragraphs:          []string{},
				TotalParagraphCount: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseContent(readParserFixture(t, tt.htmlFixture))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentFindAllFilter(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(`
		<meta name="robots" content="noindex">
		<meta name="DESCRIPTION" content="first">
		<meta name="description" content="second">
	`))
	require.NoError(t, err)

	all := doc.FindAll("meta", nil)
	require.Len(t, all, 3)

	described := doc.FindAll("meta", map[string]string{"name": "description"})
	require.Len(t, described, 1)

	content, ok := described[0].Attr("content")
	require.True(t, ok)
	require.Equal(t, "second", content)

	_, ok = described[0].Attr("missing")
	require.False(t, ok)

	_, ok = doc.First("link", nil)
	require.False(t, ok)
}

func TestParseContentKeepsInnerWhitespace(t *testing.T) {
	t.Parallel()

	got, err := ParseContent([]byte(`<html><head>
		<title> Two  words </title>
		<meta name="description" content=" raw  value ">
	</head><body>
		<h2>
			Spread
			out
		</h2>
		<p>  a	b  </p>
	</body></html>`))
	require.NoError(t, err)

	require.Equal(t, "Two  words", got.Title)
	require.Equal(t, " raw  value ", got.MetaDescription)
	require.Equal(t, []string{"Spread\n\t\t\tout"}, got.H2)
	require.Equal(t, []string{"a\tb"}, got.Paragraphs)
}

func readParserFixture(t *testing.T, filename string) []byte {
	t.Helper()

	path := filepath.Join("..", "..", "testdata", "parser", filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "read fixture %q", path)

	return data
}
