package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/refscan/pkg/catalog"
	"github.com/julianstephens/refscan/pkg/refhtml"
	"github.com/julianstephens/refscan/pkg/refscan"
)

type ExtractCmd struct {
	ScopeFlags `embed:""`

	File   string `arg:"" optional:"" type:"existingfile" help:"Input file; stdin when omitted"`
	HTML   bool   `help:"Treat the input as an HTML fragment; index is then an offset into its visible text"`
	Format string `help:"Output format" enum:"json,text" default:"json"`
}

// Match is one reference as printed by extract and watch.
type Match struct {
	refscan.BibleReference
	BookID string `json:"book_id,omitempty"`
	Route  string `json:"route,omitempty"`
}

func (c *ExtractCmd) Run(cat *catalog.Catalog, ex *refscan.Extractor) error {
	in, err := openInput(c.File)
	if err != nil {
		return err
	}
	defer in.Close() // nolint: errcheck

	refs, err := extract(in, ex, c.Scope(), c.HTML)
	if err != nil {
		return err
	}
	return writeMatches(os.Stdout, c.Format, annotate(cat, refs))
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path) // nolint: gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

func extract(r io.Reader, ex *refscan.Extractor, scope refscan.Scope, isHTML bool) ([]refscan.BibleReference, error) {
	if isHTML {
		return refhtml.Extract(r, ex, scope)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return ex.Extract(string(data), scope), nil
}

// annotate attaches catalog ids and routes. References the catalog cannot
// place are kept without them.
func annotate(cat *catalog.Catalog, refs []refscan.BibleReference) []Match {
	out := make([]Match, len(refs))
	for i, ref := range refs {
		out[i] = Match{BibleReference: ref}
		if b, err := cat.BookFor(ref); err == nil {
			out[i].BookID = b.ID
		}
		if route, err := cat.Route(ref); err == nil {
			out[i].Route = route
		}
	}
	return out
}

func writeMatches(w io.Writer, format string, matches []Match) error {
	if format == "text" {
		for _, m := range matches {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", m.Index, m.Match, describe(m)); err != nil {
				return err
			}
		}
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(matches)
}

// describe renders a reference as "Book chapter:verses".
func describe(m Match) string {
	var b strings.Builder
	b.WriteString(m.Book)
	if cc := m.CrossChapter; cc != nil {
		fmt.Fprintf(&b, " %d:%d%s-%d:%d%s", cc.StartChapter, cc.StartVerse, cc.StartPart, cc.EndChapter, cc.EndVerse, cc.EndPart)
		return b.String()
	}
	fmt.Fprintf(&b, " %d", m.Chapter)
	for i, v := range m.Verses {
		if i == 0 {
			b.WriteByte(':')
		} else {
			b.WriteByte(',')
		}
		switch v.Kind {
		case refscan.VerseRange:
			fmt.Fprintf(&b, "%d%s-%d%s", v.Start, v.StartPart, v.End, v.EndPart)
		default:
			fmt.Fprintf(&b, "%d%s", v.Verse, v.Part)
		}
	}
	return b.String()
}
