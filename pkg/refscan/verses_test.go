package refscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerseSpec(t *testing.T) {
	tests := []struct {
		spec string
		want []VerseReference
	}{
		{"16", []VerseReference{Single(16, PartNone)}},
		{"7–8, 12", []VerseReference{Range(7, 8, PartNone, PartNone), Single(12, PartNone)}},
		{"1-3; 2,4", []VerseReference{Range(1, 3, PartNone, PartNone), Single(2, PartNone), Single(4, PartNone)}},
		{"18-19.23-26", []VerseReference{Range(18, 19, PartNone, PartNone), Range(23, 26, PartNone, PartNone)}},
		{"4B", []VerseReference{Single(4, PartB)}},
		{"5a-7c", []VerseReference{Range(5, 7, PartA, PartC)}},
		{" 3 - 5 ", []VerseReference{Range(3, 5, PartNone, PartNone)}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			verses, cross := ParseVerseSpec(tt.spec, 1)
			assert.Nil(t, cross)
			assert.Equal(t, tt.want, verses)
		})
	}
}

func TestParseVerseSpecReversedRange(t *testing.T) {
	verses, _ := ParseVerseSpec("10b-7a", 1)
	require.Len(t, verses, 1)
	assert.Equal(t, VerseReference{Kind: VerseRange, Start: 7, End: 10, StartPart: PartA, EndPart: PartB}, verses[0])
}

func TestParseVerseSpecCrossChapter(t *testing.T) {
	verses, cross := ParseVerseSpec("1-39,30", 38)
	assert.Nil(t, verses)
	require.NotNil(t, cross)
	assert.Equal(t, CrossChapterRange{StartChapter: 38, StartVerse: 1, EndChapter: 39, EndVerse: 30}, *cross)

	_, cross = ParseVerseSpec("16b – 4:2a", 3)
	require.NotNil(t, cross)
	assert.Equal(t, CrossChapterRange{StartChapter: 3, StartVerse: 16, StartPart: PartB, EndChapter: 4, EndVerse: 2, EndPart: PartA}, *cross)
}

func TestParseVerseSpecFallback(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []VerseReference
	}{
		{"not a number", "x", []VerseReference{Single(0, PartNone)}},
		{"unknown part letter", "7d", []VerseReference{Single(7, PartNone)}},
		{"overflow", "99999999999999999999", []VerseReference{Single(0, PartNone)}},
		{"dangling separator", "3,", []VerseReference{Single(3, PartNone)}},
		{"part kept on broken range", "12a-zz", []VerseReference{Single(12, PartA)}},
		{"upper-case part", "4B x", []VerseReference{Single(4, PartB)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verses, cross := ParseVerseSpec(tt.spec, 1)
			assert.Nil(t, cross)
			assert.Equal(t, tt.want, verses)
		})
	}

	verses, cross := ParseVerseSpec("", 1)
	assert.Nil(t, cross)
	assert.Empty(t, verses)
}

func TestFirstVerse(t *testing.T) {
	start, end, ok := BibleReference{Verses: []VerseReference{Range(3, 12, PartNone, PartNone), Single(20, PartNone)}}.FirstVerse()
	assert.True(t, ok)
	assert.Equal(t, 3, start)
	assert.Equal(t, 12, end)

	start, end, ok = BibleReference{Verses: []VerseReference{Single(16, PartA)}}.FirstVerse()
	assert.True(t, ok)
	assert.Equal(t, 16, start)
	assert.Equal(t, 16, end)

	start, _, ok = BibleReference{CrossChapter: &CrossChapterRange{StartChapter: 38, StartVerse: 1, EndChapter: 39, EndVerse: 30}}.FirstVerse()
	assert.True(t, ok)
	assert.Equal(t, 1, start)

	_, _, ok = BibleReference{Chapter: 7}.FirstVerse()
	assert.False(t, ok)
}
