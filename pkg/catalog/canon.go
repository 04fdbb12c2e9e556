package catalog

import (
	"fmt"
	"math"

	"github.com/julianstephens/canonref/bibleref"
	"github.com/julianstephens/canonref/util"

	"github.com/julianstephens/refscan/pkg/refscan"
)

// ThroughEnd as an EndVerse means "to the end of the chapter".
const ThroughEnd = math.MaxInt32

// Table builds a canonref table from the catalog.
func (c *Catalog) Table() (*bibleref.Table, error) {
	books := make([]bibleref.Book, len(c.Books))
	for i, b := range c.Books {
		books[i] = bibleref.Book{
			OSIS:      osisOf(b),
			Name:      b.Name,
			Aliases:   aliasesOf(b),
			Testament: b.Testament,
			Order:     b.Order,
			Chapters:  b.Chapters,
		}
	}

	table, err := bibleref.NewTable(books)
	if err != nil {
		return nil, &Error{
			Kind:  ValidationError,
			Err:   fmt.Errorf("failed to create bibleref table: %w", err),
			Cause: err,
		}
	}
	return table, nil
}

func osisOf(b Book) string {
	if b.OSIS != "" {
		return b.OSIS
	}
	return b.ID
}

func aliasesOf(b Book) []string {
	seen := map[string]bool{osisOf(b): true}
	var aliases []string
	for _, a := range append([]string{b.Abbr, b.ShortName}, b.Aliases...) {
		if a != "" && a != b.Name && !seen[a] {
			seen[a] = true
			aliases = append(aliases, a)
		}
	}
	return aliases
}

// Resolve converts a scanned reference into canonref references, one per
// verse entry. A reference without verses covers the whole chapter. A
// cross-chapter range becomes the tail of its first chapter, any whole
// chapters in between, and the head of its last chapter.
func (c *Catalog) Resolve(ref refscan.BibleReference) ([]bibleref.BibleRef, error) {
	b, err := c.BookFor(ref)
	if err != nil {
		return nil, err
	}
	osis := osisOf(b)

	if x := ref.CrossChapter; x != nil {
		if x.EndChapter < x.StartChapter {
			msg := fmt.Sprintf("range ends in chapter %d before it starts in %d", x.EndChapter, x.StartChapter)
			return nil, &Error{Kind: LookupError, Book: b.ID, Message: &msg, Err: ErrInvalidRange}
		}
		if x.EndChapter == x.StartChapter {
			return []bibleref.BibleRef{verseRef(osis, x.StartChapter, x.StartVerse, x.EndVerse)}, nil
		}
		refs := []bibleref.BibleRef{verseRef(osis, x.StartChapter, x.StartVerse, ThroughEnd)}
		for ch := x.StartChapter + 1; ch < x.EndChapter; ch++ {
			refs = append(refs, bibleref.BibleRef{OSIS: osis, Chapter: ch})
		}
		refs = append(refs, verseRef(osis, x.EndChapter, 1, x.EndVerse))
		return refs, nil
	}

	if len(ref.Verses) == 0 {
		return []bibleref.BibleRef{{OSIS: osis, Chapter: ref.Chapter}}, nil
	}

	refs := make([]bibleref.BibleRef, 0, len(ref.Verses))
	for _, v := range ref.Verses {
		if v.Kind == refscan.VerseRange {
			refs = append(refs, verseRef(osis, ref.Chapter, v.Start, v.End))
			continue
		}
		refs = append(refs, bibleref.BibleRef{
			OSIS:    osis,
			Chapter: ref.Chapter,
			Verse:   &util.VerseRange{StartVerse: v.Verse},
		})
	}
	return refs, nil
}

func verseRef(osis string, chapter, start, end int) bibleref.BibleRef {
	return bibleref.BibleRef{
		OSIS:    osis,
		Chapter: chapter,
		Verse:   &util.VerseRange{StartVerse: start, EndVerse: &end},
	}
}
