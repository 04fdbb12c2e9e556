package refscan

// Span is a piece of scanned text: plain text when Ref is nil, otherwise
// the Match of Ref.
type Span struct {
	Text string
	Ref  *BibleReference
}

// Segment splits text around refs, which must come from Extract on the
// same text. Concatenating the Text of every span yields the input.
func Segment(text string, refs []BibleReference) []Span {
	var spans []Span
	last := 0
	for i := range refs {
		ref := &refs[i]
		if ref.Index < last || ref.End() > len(text) {
			continue
		}
		if ref.Index > last {
			spans = append(spans, Span{Text: text[last:ref.Index]})
		}
		spans = append(spans, Span{Text: ref.Match, Ref: ref})
		last = ref.End()
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}
