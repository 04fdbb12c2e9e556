package refhtml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/refscan/pkg/refscan"
)

func extractor() *refscan.Extractor {
	return refscan.New([]refscan.Book{
		{ID: "psa", Name: "Salmos", ShortName: "Salmos", Abbreviation: "Sl"},
		{ID: "mat", Name: "Mateus", ShortName: "Mateus", Abbreviation: "Mt"},
		{ID: "jhn", Name: "John", ShortName: "John", Abbreviation: "Jo"},
	})
}

func bookHref(ref refscan.BibleReference) string {
	return "/" + strings.ToLower(ref.Book)
}

func TestText(t *testing.T) {
	got, err := Text(strings.NewReader(`<p>John 3:16</p><script>Mt 5</script><p>and <i>Mt 5,3</i></p>`))
	require.NoError(t, err)
	assert.Equal(t, "John 3:16and Mt 5,3", got)
}

func TestExtract(t *testing.T) {
	fragment := `<p>John 3:16 <a href="#">Mt 5,3</a> <script>Sl 1,1</script>Sl 23,1</p>`
	refs, err := Extract(strings.NewReader(fragment), extractor(), refscan.Scope{})
	require.NoError(t, err)
	require.Len(t, refs, 2)

	assert.Equal(t, "John 3:16", refs[0].Match)
	assert.Equal(t, 0, refs[0].Index)
	assert.Equal(t, "Sl 23,1", refs[1].Match)
	assert.Equal(t, 17, refs[1].Index)

	text, err := Text(strings.NewReader(fragment))
	require.NoError(t, err)
	for _, ref := range refs {
		assert.Equal(t, ref.Match, text[ref.Index:ref.End()])
	}
}

func TestLinkify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		links int
	}{
		{
			name:  "nested text",
			input: `<p>See John 3:16 and <a href="x">Mt 5,3</a></p>`,
			want:  `<p>See <a class="bibleref" href="/john">John 3:16</a> and <a href="x">Mt 5,3</a></p>`,
			links: 1,
		},
		{
			name:  "top level text",
			input: `Read Mt 5,3 &amp; Sl 23,1-3.`,
			want:  `Read <a class="bibleref" href="/mt">Mt 5,3</a> &amp; <a class="bibleref" href="/sl">Sl 23,1-3</a>.`,
			links: 2,
		},
		{
			name:  "script untouched",
			input: `<script>var ref = "John 3:16";</script>`,
			want:  `<script>var ref = "John 3:16";</script>`,
			links: 0,
		},
		{
			name:  "no citations",
			input: `<p>Nothing here</p>`,
			want:  `<p>Nothing here</p>`,
			links: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			n, err := Linkify(strings.NewReader(tt.input), &out, extractor(), refscan.Scope{}, bookHref)
			require.NoError(t, err)
			assert.Equal(t, tt.links, n)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestLinkifyEmptyHref(t *testing.T) {
	href := func(ref refscan.BibleReference) string {
		if ref.Book == "Mt" {
			return ""
		}
		return bookHref(ref)
	}

	var out bytes.Buffer
	n, err := Linkify(strings.NewReader(`<p>Mt 5,3 and Sl 23,1</p>`), &out, extractor(), refscan.Scope{}, href)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, `<p>Mt 5,3 and <a class="bibleref" href="/sl">Sl 23,1</a></p>`, out.String())
}

func TestLinkifyScope(t *testing.T) {
	var out bytes.Buffer
	n, err := Linkify(strings.NewReader(`<p>v. 4</p>`), &out, extractor(), refscan.Scope{Book: "Mt", Chapter: 5}, bookHref)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, `<p><a class="bibleref" href="/mt">v. 4</a></p>`, out.String())
}
