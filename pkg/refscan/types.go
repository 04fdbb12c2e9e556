// Package refscan finds scripture citations such as "John 3:16" or
// "Mt 5,3-12" in free text and returns them as structured references.
package refscan

// Book is one catalog entry the scanner matches citations against.
type Book struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ShortName    string   `json:"short_name"`
	Abbreviation string   `json:"abbr"`
	Aliases      []string `json:"aliases,omitempty"` // extra spellings matched verbatim
}

// Part is a sub-verse marker ("a", "b" or "c"). The zero value means no part.
type Part string

const (
	PartNone Part = ""
	PartA    Part = "a"
	PartB    Part = "b"
	PartC    Part = "c"
)

type VerseKind string

const (
	VerseSingle VerseKind = "single"
	VerseRange  VerseKind = "range"
)

// VerseReference is either a single verse or a verse range within one chapter.
type VerseReference struct {
	Kind      VerseKind `json:"type"`
	Verse     int       `json:"verse,omitempty"`
	Part      Part      `json:"part,omitempty"`
	Start     int       `json:"start,omitempty"`
	End       int       `json:"end,omitempty"`
	StartPart Part      `json:"start_part,omitempty"`
	EndPart   Part      `json:"end_part,omitempty"`
}

// Single returns a single-verse reference.
func Single(verse int, part Part) VerseReference {
	return VerseReference{Kind: VerseSingle, Verse: verse, Part: part}
}

// Range returns a verse range with Start <= End. Reversed bounds are
// swapped together with their parts.
func Range(start, end int, startPart, endPart Part) VerseReference {
	if start > end {
		start, end = end, start
		startPart, endPart = endPart, startPart
	}
	return VerseReference{Kind: VerseRange, Start: start, End: end, StartPart: startPart, EndPart: endPart}
}

// CrossChapterRange is a passage running from one chapter into a later one,
// e.g. 38,1-39,30.
type CrossChapterRange struct {
	StartChapter int  `json:"start_chapter"`
	StartVerse   int  `json:"start_verse"`
	StartPart    Part `json:"start_part,omitempty"`
	EndChapter   int  `json:"end_chapter"`
	EndVerse     int  `json:"end_verse"`
	EndPart      Part `json:"end_part,omitempty"`
}

// BibleReference is one citation found in a text. Index is the byte offset
// of Match in the scanned string.
type BibleReference struct {
	Match        string             `json:"match"`
	Index        int                `json:"index"`
	Book         string             `json:"book"`
	Chapter      int                `json:"chapter"`
	Verses       []VerseReference   `json:"verses,omitempty"`
	CrossChapter *CrossChapterRange `json:"cross_chapter,omitempty"`
}

// End returns the byte offset just past the match.
func (r BibleReference) End() int {
	return r.Index + len(r.Match)
}

// FirstVerse reports the verse span a reader should be taken to: the first
// verse entry, or the start verse of a cross-chapter range.
func (r BibleReference) FirstVerse() (start, end int, ok bool) {
	if r.CrossChapter != nil {
		return r.CrossChapter.StartVerse, r.CrossChapter.StartVerse, true
	}
	if len(r.Verses) == 0 {
		return 0, 0, false
	}
	v := r.Verses[0]
	if v.Kind == VerseRange {
		return v.Start, v.End, true
	}
	return v.Verse, v.Verse, true
}

// Scope is the reading context a text appears in. Book is used for
// implicit citations; Book and Chapter together enable "v. 12" style
// citations. The zero value means no context.
type Scope struct {
	Book    string
	Chapter int
}
