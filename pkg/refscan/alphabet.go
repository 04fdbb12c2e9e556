package refscan

import (
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zeebo/blake3"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// alphabet is a compiled, immutable snapshot of every book spelling the
// scanner recognises.
type alphabet struct {
	spellings   []string
	fingerprint string
	explicit    *regexp.Regexp // nil when the catalog yields no spellings
	volume      *regexp.Regexp // anchored "1 John 4" form; nil with explicit
}

var volumePrefix = regexp.MustCompile(`^[1-3]\s*`)

// StripDiacritics removes combining marks, so "Êxodo" becomes "Exodo".
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// singular drops the trailing "s" of spellings like "Salmos" or "Atos".
func singular(s string) (string, bool) {
	if utf8.RuneCountInString(s) < 3 || !strings.HasSuffix(s, "s") {
		return "", false
	}
	rest := s[:len(s)-1]
	last, _ := utf8.DecodeLastRuneInString(StripDiacritics(rest))
	if !strings.ContainsRune("aeiouAEIOU", last) {
		return "", false
	}
	return rest, true
}

// spellings expands the catalog into the de-duplicated, longest-first list
// of alternatives the explicit pattern is built from.
func spellings(books []Book) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(volumePrefix.ReplaceAllString(strings.TrimSpace(s), ""))
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	for _, b := range books {
		names := append([]string{b.Abbreviation, b.ShortName}, b.Aliases...)
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			variants := []string{name, StripDiacritics(name)}
			for _, v := range variants[:2] {
				if s, ok := singular(v); ok {
					variants = append(variants, s)
				}
			}
			for _, v := range variants {
				add(v)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(out[i]), utf8.RuneCountInString(out[j])
		if li != lj {
			return li > lj
		}
		return out[i] < out[j]
	})
	return out
}

func fingerprint(spellings []string) string {
	sum := blake3.Sum256([]byte(strings.Join(spellings, "\x00")))
	return hex.EncodeToString(sum[:])
}

func buildAlphabet(books []Book) *alphabet {
	list := spellings(books)
	return compileAlphabet(list, fingerprint(list))
}

func compileAlphabet(list []string, fp string) *alphabet {
	a := &alphabet{spellings: list, fingerprint: fp}
	if len(list) == 0 {
		return a
	}

	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = regexp.QuoteMeta(s)
	}
	alt := strings.Join(quoted, "|")
	a.explicit = regexp.MustCompile(`(?:([1-3])\s*)?(` + alt + `)\.?\s*(\d+)`)
	a.volume = regexp.MustCompile(`^[1-3]\s*(?:` + alt + `)\.?\s*\d`)
	return a
}

// startsCitation reports whether s opens with a numbered-book citation
// such as "1 John 4:7".
func (a *alphabet) startsCitation(s string) bool {
	return a.volume != nil && a.volume.MatchString(s)
}
