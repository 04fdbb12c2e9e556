package refscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpellings(t *testing.T) {
	tests := []struct {
		name  string
		books []Book
		want  []string
	}{
		{
			name:  "volume digit stripped",
			books: []Book{{ShortName: "1 John", Abbreviation: "1Jo"}},
			want:  []string{"John", "Jo"},
		},
		{
			name:  "singular variant",
			books: []Book{{ShortName: "Salmos", Abbreviation: "Sl"}},
			want:  []string{"Salmos", "Salmo", "Sl"},
		},
		{
			name:  "diacritics stripped",
			books: []Book{{ShortName: "Êxodo", Abbreviation: "Ex"}},
			want:  []string{"Exodo", "Êxodo", "Ex"},
		},
		{
			name:  "singular of stripped spelling",
			books: []Book{{ShortName: "Atós"}},
			want:  []string{"Atos", "Atós", "Ato", "Ató"},
		},
		{
			name:  "consonant before s kept",
			books: []Book{{ShortName: "Acts", Aliases: []string{"Psalms"}}},
			want:  []string{"Psalms", "Acts"},
		},
		{
			name:  "short spellings keep their s",
			books: []Book{{Abbreviation: "Os"}},
			want:  []string{"Os"},
		},
		{
			name:  "duplicates and blanks dropped",
			books: []Book{{ShortName: "John", Abbreviation: "Jo"}, {ShortName: " John ", Abbreviation: ""}},
			want:  []string{"John", "Jo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, spellings(tt.books))
		})
	}
}

func TestSpellingsLongestFirst(t *testing.T) {
	list := spellings(testBooks())
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, len([]rune(list[i-1])), len([]rune(list[i])), "%q before %q", list[i-1], list[i])
	}
}

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "Exodo", StripDiacritics("Êxodo"))
	assert.Equal(t, "Genese", StripDiacritics("Génèse"))
	assert.Equal(t, "John", StripDiacritics("John"))
}

func TestBuildAlphabet(t *testing.T) {
	empty := buildAlphabet(nil)
	assert.Nil(t, empty.explicit)
	assert.NotEmpty(t, empty.fingerprint)

	a := buildAlphabet([]Book{{ShortName: "Mt.", Abbreviation: "(x)"}})
	require.NotNil(t, a.explicit)
	assert.True(t, a.explicit.MatchString("Mt. 5"))
	assert.True(t, a.explicit.MatchString("(x) 5"))
	assert.False(t, a.explicit.MatchString("Mtx 5"))

	assert.Equal(t, buildAlphabet(testBooks()).fingerprint, buildAlphabet(testBooks()).fingerprint)
}

func TestStartsCitation(t *testing.T) {
	a := buildAlphabet(testBooks())
	assert.True(t, a.startsCitation("1 John 4:7"))
	assert.True(t, a.startsCitation("1Jo 4"))
	assert.False(t, a.startsCitation("1, 2"))
	assert.False(t, a.startsCitation("12 John 4"))
	assert.False(t, a.startsCitation("John 4"))
	assert.False(t, buildAlphabet(nil).startsCitation("1 John 4"))
}
