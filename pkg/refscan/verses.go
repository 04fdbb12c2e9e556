package refscan

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// verseSpec is the grammar for same-chapter verse lists such as
// "3-12", "7–8, 12" or "1-3; 2,4".
//
//nolint:govet // participle grammar tags
type verseSpec struct {
	Groups []*verseGroup `@@ ( Sep @@ )*`
}

//nolint:govet
type verseGroup struct {
	Start *verseNumber `@@`
	End   *verseNumber `( Dash @@ )?`
}

//nolint:govet
type verseNumber struct {
	Number string `@Int`
	Part   string `@Part?`
}

var verseLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Part", Pattern: `[a-cA-C]`},
	{Name: "Dash", Pattern: `[-\x{2013}]`},
	{Name: "Sep", Pattern: `[,.;]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var verseParser = participle.MustBuild[verseSpec](
	participle.Lexer(verseLexer),
	participle.Elide("Whitespace"),
)

var (
	crossShape   = regexp.MustCompile(`^(\d+)([a-cA-C])?\s*[-\x{2013}]\s*(\d+)[:.,](\d+)([a-cA-C])?$`)
	groupSplit   = regexp.MustCompile(`\s*[,.;]\s*`)
	leadingVerse = regexp.MustCompile(`^(\d+)([a-cA-C])?`)
)

// ParseVerseSpec interprets the verse portion of a citation. A cross-chapter
// shape such as "1-39,30" yields a range starting in chapter; anything else
// yields a list of singles and ranges. Numbers that cannot be read become 0.
func ParseVerseSpec(spec string, chapter int) ([]VerseReference, *CrossChapterRange) {
	spec = strings.TrimSpace(spec)
	if cross := parseCrossChapter(spec, chapter); cross != nil {
		return nil, cross
	}
	return parseVerseList(spec), nil
}

// parseVerses is used by the scanner, which already knows which form it
// matched.
func parseVerses(spec string, chapter int, cross bool) ([]VerseReference, *CrossChapterRange) {
	if cross {
		if r := parseCrossChapter(spec, chapter); r != nil {
			return nil, r
		}
	}
	return parseVerseList(spec), nil
}

func parseCrossChapter(spec string, chapter int) *CrossChapterRange {
	m := crossShape.FindStringSubmatch(spec)
	if m == nil {
		return nil
	}
	return &CrossChapterRange{
		StartChapter: chapter,
		StartVerse:   atoi(m[1]),
		StartPart:    toPart(m[2]),
		EndChapter:   atoi(m[3]),
		EndVerse:     atoi(m[4]),
		EndPart:      toPart(m[5]),
	}
}

func parseVerseList(spec string) []VerseReference {
	parsed, err := verseParser.ParseString("", spec)
	if err != nil {
		return lenientVerses(spec)
	}

	verses := make([]VerseReference, 0, len(parsed.Groups))
	for _, g := range parsed.Groups {
		if g.End == nil {
			verses = append(verses, Single(atoi(g.Start.Number), toPart(g.Start.Part)))
			continue
		}
		verses = append(verses, Range(
			atoi(g.Start.Number), atoi(g.End.Number),
			toPart(g.Start.Part), toPart(g.End.Part),
		))
	}
	return verses
}

// lenientVerses handles text the grammar rejects: every group becomes a
// single verse holding its leading number and part letter, or 0.
func lenientVerses(spec string) []VerseReference {
	var verses []VerseReference
	for _, group := range groupSplit.Split(spec, -1) {
		if group == "" {
			continue
		}
		m := leadingVerse.FindStringSubmatch(group)
		if m == nil {
			verses = append(verses, Single(0, PartNone))
			continue
		}
		verses = append(verses, Single(atoi(m[1]), toPart(m[2])))
	}
	return verses
}

func toPart(s string) Part {
	return Part(strings.ToLower(s))
}

// atoi reads a chapter or verse number, falling back to 0.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
