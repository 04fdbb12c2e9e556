package catalog

import (
	"testing"

	"github.com/julianstephens/canonref/bibleref"
	"github.com/julianstephens/canonref/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/refscan/pkg/refscan"
)

func ptrInt(i int) *int {
	return &i
}

func TestResolve(t *testing.T) {
	c := sample(t)
	ex := refscan.New(c.ScanBooks())

	tests := []struct {
		name string
		text string
		want []bibleref.BibleRef
	}{
		{
			name: "single verse",
			text: "Mt 5,3",
			want: []bibleref.BibleRef{
				{OSIS: "Matt", Chapter: 5, Verse: &util.VerseRange{StartVerse: 3}},
			},
		},
		{
			name: "range and single",
			text: "Sl 23,1-3.6",
			want: []bibleref.BibleRef{
				{OSIS: "Ps", Chapter: 23, Verse: &util.VerseRange{StartVerse: 1, EndVerse: ptrInt(3)}},
				{OSIS: "Ps", Chapter: 23, Verse: &util.VerseRange{StartVerse: 6}},
			},
		},
		{
			name: "whole chapter",
			text: "Jb 38-39",
			want: []bibleref.BibleRef{
				{OSIS: "Job", Chapter: 38},
			},
		},
		{
			name: "cross chapter",
			text: "Jb 38,4-41,2",
			want: []bibleref.BibleRef{
				{OSIS: "Job", Chapter: 38, Verse: &util.VerseRange{StartVerse: 4, EndVerse: ptrInt(ThroughEnd)}},
				{OSIS: "Job", Chapter: 39},
				{OSIS: "Job", Chapter: 40},
				{OSIS: "Job", Chapter: 41, Verse: &util.VerseRange{StartVerse: 1, EndVerse: ptrInt(2)}},
			},
		},
		{
			name: "numbered book",
			text: "1 Jo 4,8",
			want: []bibleref.BibleRef{
				{OSIS: "1John", Chapter: 4, Verse: &util.VerseRange{StartVerse: 8}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := ex.Extract(tt.text, refscan.Scope{})
			require.NotEmpty(t, refs)
			got, err := c.Resolve(refs[0])
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	c := sample(t)

	_, err := c.Resolve(refscan.BibleReference{Book: "Apoc", Chapter: 1})
	assert.ErrorIs(t, err, ErrUnknownBook)

	_, err = c.Resolve(refscan.BibleReference{
		Book:         "Jb",
		Chapter:      39,
		CrossChapter: &refscan.CrossChapterRange{StartChapter: 39, StartVerse: 1, EndChapter: 38, EndVerse: 2},
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestResolveSameChapterCross(t *testing.T) {
	c := sample(t)

	got, err := c.Resolve(refscan.BibleReference{
		Book:         "Mt",
		Chapter:      5,
		CrossChapter: &refscan.CrossChapterRange{StartChapter: 5, StartVerse: 3, EndChapter: 5, EndVerse: 12},
	})
	require.NoError(t, err)
	assert.Equal(t, []bibleref.BibleRef{
		{OSIS: "Matt", Chapter: 5, Verse: &util.VerseRange{StartVerse: 3, EndVerse: ptrInt(12)}},
	}, got)
}

func TestAliasesOf(t *testing.T) {
	b := Book{Name: "1 João", ShortName: "1 João", Abbr: "1 Jo", Aliases: []string{"I João", "1 Jo"}}
	assert.Equal(t, []string{"1 Jo", "I João"}, aliasesOf(b))
	assert.Equal(t, "1jn", osisOf(Book{ID: "1jn"}))
	assert.Empty(t, aliasesOf(Book{OSIS: "Gen", Name: "Genesis", ShortName: "Genesis", Abbr: "Gen"}))
}
