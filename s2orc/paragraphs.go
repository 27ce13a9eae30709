package s2orc

import "strings"

// buildParagraphs implements C6: build a Paragraph for every not-yet-done
// "paragraph" content annotation, bind every reference marker contained in
// its span, and then dedupe near-duplicate consecutive paragraphs.
func buildParagraphs(anns []contentAnnotation, rawText string, markers []*ReferenceMarker, done map[int]bool) []*Paragraph {
	var paragraphs []*Paragraph
	for i, ann := range anns {
		if done[i] || ann.key != "paragraph" {
			continue
		}

		span := Span{Start: ann.Start, End: ann.End}
		p := &Paragraph{
			TextSpan: TextSpan{
				Text:         rawText[ann.Start:ann.End],
				OriginalSpan: &span,
			},
			contentID: ContentID{i},
		}

		for _, m := range markers {
			if m.OriginalSpan == nil {
				continue
			}
			if span.Start <= m.OriginalSpan.Start && m.OriginalSpan.End <= span.End {
				m.RelativeSpan = &Span{
					Start: m.OriginalSpan.Start - span.Start,
					End:   m.OriginalSpan.End - span.Start,
				}
				p.ReferenceMarkers = append(p.ReferenceMarkers, m)
			}
		}

		paragraphs = append(paragraphs, p)
		done[i] = true
	}

	return dedupeParagraphs(paragraphs)
}

// dedupeParagraphs folds each paragraph into the previous one when it is a
// strict text extension of it, or an exact duplicate with strictly more
// reference markers. The list is already in start order, so this is a
// single left-to-right pass; note the rule is asymmetric and always keeps
// the *later*, longer/richer paragraph when both conditions are met for a
// chain of progressively extending paragraphs.
func dedupeParagraphs(paragraphs []*Paragraph) []*Paragraph {
	if len(paragraphs) < 2 {
		return paragraphs
	}
	out := make([]*Paragraph, 0, len(paragraphs))
	out = append(out, paragraphs[0])
	for _, curr := range paragraphs[1:] {
		prev := out[len(out)-1]
		if (len(curr.Text) > len(prev.Text) && strings.HasPrefix(curr.Text, prev.Text)) ||
			(curr.Text == prev.Text && len(curr.ReferenceMarkers) > len(prev.ReferenceMarkers)) {
			out[len(out)-1] = curr
		} else {
			out = append(out, curr)
		}
	}
	return out
}
