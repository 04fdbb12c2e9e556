package refscan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	ex := New(testBooks())
	text := "See John 3:16 and Mt 5,3."

	spans := Segment(text, ex.Extract(text, Scope{}))
	require.Len(t, spans, 5)

	assert.Equal(t, "See ", spans[0].Text)
	assert.Nil(t, spans[0].Ref)
	assert.Equal(t, "John 3:16", spans[1].Text)
	require.NotNil(t, spans[1].Ref)
	assert.Equal(t, "John", spans[1].Ref.Book)
	assert.Equal(t, " and ", spans[2].Text)
	assert.Equal(t, "Mt 5,3", spans[3].Text)
	assert.Equal(t, ".", spans[4].Text)

	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	assert.Equal(t, text, b.String())
}

func TestSegmentEdges(t *testing.T) {
	ex := New(testBooks())

	spans := Segment("John 3:16", ex.Extract("John 3:16", Scope{}))
	require.Len(t, spans, 1)
	assert.NotNil(t, spans[0].Ref)

	spans = Segment("plain", nil)
	require.Len(t, spans, 1)
	assert.Nil(t, spans[0].Ref)

	assert.Empty(t, Segment("", nil))

	stale := []BibleReference{{Match: "John 3:16", Index: 2}}
	spans = Segment("short", stale)
	require.Len(t, spans, 1)
	assert.Equal(t, "short", spans[0].Text)
}
