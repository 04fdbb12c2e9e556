package refscan

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	verseItem      = `\d+[a-c]?(?:[-\x{2013}]\d+[a-c]?)?`
	verseSeparator = `(?:\s*:\s*|\.|,)`
)

var (
	separatorRe    = regexp.MustCompile(`^` + verseSeparator)
	separatorDigit = regexp.MustCompile(`^` + verseSeparator + `\d`)
	crossVersesRe  = regexp.MustCompile(`^\d+[a-c]?\s*[-\x{2013}]\s*\d+([:.,])\d+[a-c]?`)
	sameVersesRe   = regexp.MustCompile(`^` + verseItem + `(?:(?:\s*,\s*|\.)` + verseItem + `)*`)
	rangeDashRe    = regexp.MustCompile(`^[-\x{2013}]\d`)
	additionRe     = regexp.MustCompile(`^\s*;\s*` + verseItem + `(?:\s*,\s*` + verseItem + `)+`)
	nextChapterRe  = regexp.MustCompile(`^\s*[-\x{2013}]\s*(\d+)`)
	tailChapterRe  = regexp.MustCompile(`^\s*;\s*(\d+)`)
	lastItemRe     = regexp.MustCompile(`(?:\s*,\s*|\.)(` + verseItem + `)$`)
	implicitRe     = regexp.MustCompile(`(\d+)` + verseSeparator + `\d`)
	verseMarkerRe  = regexp.MustCompile(`vv?\.?\s*\d`)
	markerSuffixRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])vv?\.?\s*$`)
)

// crossStyle selects which cross-chapter form a citation may use: it must
// repeat the citation's own separator, so "3:16-4:2" and "38,1-39,30" are
// ranges while "23,1-3.6" is a verse list.
type crossStyle int

const (
	noCross crossStyle = iota
	colonCross
	commaCross
	dotCross
)

func styleOf(sep string) crossStyle {
	switch {
	case strings.Contains(sep, ":"):
		return colonCross
	case strings.Contains(sep, ","):
		return commaCross
	}
	return dotCross
}

// scan holds the state of one Extract call.
type scan struct {
	text    string
	scope   Scope
	alpha   *alphabet
	claimed claims
	anchors anchors
	refs    []BibleReference
}

func (s *scan) run() []BibleReference {
	s.explicit()
	s.tailChapters()
	s.implicit()
	s.verseMarkers()

	sort.SliceStable(s.refs, func(i, j int) bool {
		return s.refs[i].Index < s.refs[j].Index
	})
	return s.refs
}

func (s *scan) accept(ref BibleReference) {
	s.claimed.claim(ref.Index, ref.End())
	s.refs = append(s.refs, ref)
}

// explicit finds citations that name their book, e.g. "1 John 4:7-8".
func (s *scan) explicit() {
	if s.alpha.explicit == nil {
		return
	}
	text := s.text
	pos := 0
	for pos < len(text) {
		loc := s.alpha.explicit.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			return
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		start, chapterEnd := loc[0], loc[7]

		if !boundaryBefore(text, start) {
			pos = start + runeLen(text, start)
			continue
		}

		book := text[loc[4]:loc[5]]
		if loc[2] >= 0 {
			book = text[loc[2]:loc[3]] + " " + book
		}
		ref := BibleReference{
			Index:   start,
			Book:    book,
			Chapter: atoi(text[loc[6]:loc[7]]),
		}

		end, ok := s.explicitVerses(&ref, chapterEnd)
		if !ok {
			end, ok = s.chapterRange(&ref, chapterEnd)
		}
		if !ok {
			pos = chapterEnd
			continue
		}
		pos = end
	}
}

// explicitVerses reads the separator and verse list after an explicit
// chapter. After a colon, "; 2, 4" lists extend the same chapter.
func (s *scan) explicitVerses(ref *BibleReference, chapterEnd int) (int, bool) {
	text := s.text
	sep := separatorRe.FindStringIndex(text[chapterEnd:])
	if sep == nil {
		return 0, false
	}
	verseStart := chapterEnd + sep[1]
	style := styleOf(text[chapterEnd:verseStart])
	end, cross, ok := s.versesAt(verseStart, style)
	if !ok {
		return 0, false
	}

	if !cross && style == colonCross {
		for {
			m := additionRe.FindStringIndex(text[end:])
			if m == nil {
				break
			}
			next := end + m[1]
			if !boundaryAfter(text, next) || separatorDigit.MatchString(text[next:]) {
				break
			}
			end = next
		}
	}
	if s.claimed.overlaps(ref.Index, end) {
		return 0, false
	}

	ref.Match = text[ref.Index:end]
	ref.Verses, ref.CrossChapter = parseVerses(text[verseStart:end], ref.Chapter, cross)
	s.accept(*ref)
	s.anchors = append(s.anchors, anchor{pos: ref.Index, end: end, book: ref.Book})
	return end, true
}

// chapterRange handles "Jb 38-39": a bare chapter is only a citation when
// followed by a dash and a second chapter, which is reported separately.
// When the second chapter carries verses ("Jb 38-39,5") only the first
// chapter is taken here; the implicit pass picks up "39,5".
func (s *scan) chapterRange(ref *BibleReference, chapterEnd int) (int, bool) {
	text := s.text
	m := nextChapterRe.FindStringSubmatchIndex(text[chapterEnd:])
	if m == nil {
		return 0, false
	}
	end := chapterEnd + m[1]
	if !boundaryAfter(text, end) {
		return 0, false
	}
	withVerses := separatorDigit.MatchString(text[end:])
	if withVerses {
		end = chapterEnd
	}
	if s.claimed.overlaps(ref.Index, end) {
		return 0, false
	}

	ref.Match = text[ref.Index:chapterEnd]
	s.accept(*ref)
	s.anchors = append(s.anchors, anchor{pos: ref.Index, end: end, book: ref.Book})
	if withVerses {
		return end, true
	}

	digits := chapterEnd + m[2]
	s.accept(BibleReference{
		Match:   text[digits:end],
		Index:   digits,
		Book:    ref.Book,
		Chapter: atoi(text[digits:end]),
	})
	return end, true
}

// tailChapters follows each explicit citation through a chain of "; 7"
// continuations naming whole chapters of the same book. "; 24,9" links in
// the chain are left to the implicit pass but do not break it.
func (s *scan) tailChapters() {
	text := s.text
	for _, a := range s.anchors {
		pos := a.end
		for {
			loc := tailChapterRe.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				break
			}
			start, end := pos+loc[2], pos+loc[3]
			if !boundaryAfter(text, end) {
				break
			}
			if separatorDigit.MatchString(text[end:]) {
				verseStart := end + separatorRe.FindStringIndex(text[end:])[1]
				next, _, ok := s.versesAt(verseStart, styleOf(text[end:verseStart]))
				if !ok {
					break
				}
				pos = next
				continue
			}
			if s.claimed.overlaps(start, end) {
				break
			}
			s.accept(BibleReference{
				Match:   text[start:end],
				Index:   start,
				Book:    a.book,
				Chapter: atoi(text[start:end]),
			})
			pos = end
		}
	}
}

// implicit finds "24,9-14" style citations whose book comes from the
// nearest explicit citation or from the scope.
func (s *scan) implicit() {
	fallback := strings.TrimSpace(s.scope.Book)
	if len(s.anchors) == 0 && fallback == "" {
		return
	}
	text := s.text
	pos := 0
	for pos < len(text) {
		loc := implicitRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			return
		}
		start, chapterEnd, verseStart := pos+loc[0], pos+loc[3], pos+loc[1]-1
		pos = chapterEnd

		if !boundaryBefore(text, start) || markerSuffixRe.MatchString(text[:start]) {
			continue
		}
		end, cross, ok := s.versesAt(verseStart, styleOf(text[chapterEnd:verseStart]))
		if !ok || s.claimed.overlaps(start, end) {
			continue
		}
		book, found := s.anchors.before(start)
		if !found {
			book = fallback
		}
		if book == "" {
			continue
		}

		ref := BibleReference{
			Match:   text[start:end],
			Index:   start,
			Book:    book,
			Chapter: atoi(text[start:chapterEnd]),
		}
		ref.Verses, ref.CrossChapter = parseVerses(text[verseStart:end], ref.Chapter, cross)
		s.accept(ref)
		pos = end
	}
}

// verseMarkers finds "v. 12-13" citations inside the scoped chapter.
func (s *scan) verseMarkers() {
	book := strings.TrimSpace(s.scope.Book)
	if book == "" || s.scope.Chapter <= 0 {
		return
	}
	text := s.text
	pos := 0
	for pos < len(text) {
		loc := verseMarkerRe.FindStringIndex(text[pos:])
		if loc == nil {
			return
		}
		start, verseStart := pos+loc[0], pos+loc[1]-1
		pos = verseStart

		if !boundaryBefore(text, start) {
			continue
		}
		end, _, ok := s.versesAt(verseStart, noCross)
		if !ok || s.claimed.overlaps(start, end) {
			continue
		}
		s.accept(BibleReference{
			Match:   text[start:end],
			Index:   start,
			Book:    book,
			Chapter: s.scope.Chapter,
			Verses:  parseVerseList(text[verseStart:end]),
		})
		pos = end
	}
}

// versesAt matches a verse specification starting at byte at. A
// cross-chapter form of the given style wins unless another range dash
// follows it. A trailing list item that is really the volume number of
// the next citation ("John 3:16, 1 John 4:7") is given back.
func (s *scan) versesAt(at int, style crossStyle) (end int, cross, ok bool) {
	text := s.text
	rest := text[at:]
	if style != noCross {
		if m := crossVersesRe.FindStringSubmatchIndex(rest); m != nil &&
			styleOf(rest[m[2]:m[3]]) == style &&
			boundaryAfter(text, at+m[1]) && !rangeDashRe.MatchString(rest[m[1]:]) {
			return at + m[1], true, true
		}
	}
	m := sameVersesRe.FindStringIndex(rest)
	if m == nil || !boundaryAfter(text, at+m[1]) {
		return 0, false, false
	}
	end = at + m[1]
	for {
		last := lastItemRe.FindStringSubmatchIndex(text[at:end])
		if last == nil || !s.alpha.startsCitation(text[at+last[2]:]) {
			break
		}
		end = at + last[0]
	}
	return end, false, true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func runeLen(text string, i int) int {
	_, n := utf8.DecodeRuneInString(text[i:])
	if n == 0 {
		return 1
	}
	return n
}
