package refscan

import "sort"

type span struct {
	start, end int
}

// claims records the byte spans already taken by accepted references.
type claims struct {
	spans []span
}

func (c *claims) overlaps(start, end int) bool {
	for _, s := range c.spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

func (c *claims) claim(start, end int) {
	c.spans = append(c.spans, span{start, end})
}

// anchor is an explicit citation: where it starts, where the text it
// consumed ends, and its book.
type anchor struct {
	pos, end int
	book     string
}

// anchors are the explicit references seen so far, in text order.
type anchors []anchor

// before returns the book of the closest anchor starting before pos.
func (a anchors) before(pos int) (string, bool) {
	i := sort.Search(len(a), func(i int) bool { return a[i].pos >= pos })
	if i == 0 {
		return "", false
	}
	return a[i-1].book, true
}
