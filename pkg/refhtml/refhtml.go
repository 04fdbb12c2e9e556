// Package refhtml finds and links scripture citations inside HTML
// fragments such as footnotes.
package refhtml

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/julianstephens/refscan/pkg/refscan"
)

// LinkClass is the class attribute put on generated links.
const LinkClass = "bibleref"

// HrefFunc returns the link target for a reference. An empty result
// leaves the citation as plain text.
type HrefFunc func(ref refscan.BibleReference) string

func parseFragment(r io.Reader) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return nodes, nil
}

// hidden reports elements whose content is not visible text.
func hidden(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style)
}

// skipped reports elements whose text is never scanned.
func skipped(n *html.Node) bool {
	return hidden(n) || (n.Type == html.ElementNode && n.DataAtom == atom.A)
}

func getTextContent(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	if hidden(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContent(c, b)
	}
}

// Text returns the visible text of an HTML fragment.
func Text(r io.Reader) (string, error) {
	nodes, err := parseFragment(r)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, n := range nodes {
		getTextContent(n, &b)
	}
	return b.String(), nil
}

// Extract returns the citations found in the fragment, in document order.
// Each text node is scanned on its own, but Index is an offset into the
// visible text that Text returns for the same fragment. Link text counts
// towards offsets without being scanned.
func Extract(r io.Reader, ex *refscan.Extractor, scope refscan.Scope) ([]refscan.BibleReference, error) {
	nodes, err := parseFragment(r)
	if err != nil {
		return nil, err
	}
	var refs []refscan.BibleReference
	offset := 0
	var walk func(n *html.Node, scan bool)
	walk = func(n *html.Node, scan bool) {
		if hidden(n) {
			return
		}
		if n.Type == html.TextNode {
			if scan {
				for _, ref := range ex.Extract(n.Data, scope) {
					ref.Index += offset
					refs = append(refs, ref)
				}
			}
			offset += len(n.Data)
			return
		}
		if skipped(n) {
			scan = false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, scan)
		}
	}
	for _, n := range nodes {
		walk(n, true)
	}
	return refs, nil
}

// Linkify rewrites the fragment read from r, wrapping each citation in an
// <a class="bibleref"> element, and writes it to w. Text already inside
// links, scripts and styles is left alone. It returns the number of links
// created.
func Linkify(r io.Reader, w io.Writer, ex *refscan.Extractor, scope refscan.Scope, href HrefFunc) (int, error) {
	nodes, err := parseFragment(r)
	if err != nil {
		return 0, err
	}

	var texts []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skipped(n) {
			return
		}
		if n.Type == html.TextNode {
			texts = append(texts, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	links := 0
	for _, n := range texts {
		replacement := linkifyText(n.Data, ex.Extract(n.Data, scope), href)
		if replacement == nil {
			continue
		}
		for _, m := range replacement {
			if m.Type == html.ElementNode {
				links++
			}
		}
		if n.Parent == nil {
			nodes = spliceTop(nodes, n, replacement)
			continue
		}
		for _, m := range replacement {
			n.Parent.InsertBefore(m, n)
		}
		n.Parent.RemoveChild(n)
	}

	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return links, fmt.Errorf("failed to render HTML: %w", err)
		}
	}
	return links, nil
}

// linkifyText splits text into text and link nodes. It returns nil when
// nothing would change.
func linkifyText(text string, refs []refscan.BibleReference, href HrefFunc) []*html.Node {
	var out []*html.Node
	changed := false
	for _, span := range refscan.Segment(text, refs) {
		target := ""
		if span.Ref != nil {
			target = href(*span.Ref)
		}
		if target == "" {
			if k := len(out); k > 0 && out[k-1].Type == html.TextNode {
				out[k-1].Data += span.Text
			} else {
				out = append(out, &html.Node{Type: html.TextNode, Data: span.Text})
			}
			continue
		}
		a := &html.Node{
			Type:     html.ElementNode,
			Data:     "a",
			DataAtom: atom.A,
			Attr: []html.Attribute{
				{Key: "class", Val: LinkClass},
				{Key: "href", Val: target},
			},
		}
		a.AppendChild(&html.Node{Type: html.TextNode, Data: span.Text})
		out = append(out, a)
		changed = true
	}
	if !changed {
		return nil
	}
	return out
}

func spliceTop(nodes []*html.Node, old *html.Node, with []*html.Node) []*html.Node {
	out := make([]*html.Node, 0, len(nodes)+len(with))
	for _, n := range nodes {
		if n == old {
			out = append(out, with...)
			continue
		}
		out = append(out, n)
	}
	return out
}
