package s2orc

import "go.uber.org/zap"

const (
	dummySectionTitle = "[[Dummy First Section]]"
	miscSectionTitle  = "[[Miscellaneous Infographics]]"
)

// leafContent is the common shape assignLeaves needs from paragraphs
// and formulas: an original span to order by, and a way to add it to a
// section's contents.
type leafContent interface {
	Content
}

// assignLeaves implements C8: place paragraphs/formulas under their most
// recent preceding section (or a synthesized dummy first section), then
// insert each infographic immediately before the next paragraph following
// its first citing paragraph (or into a trailing miscellaneous section if
// nothing cites it).
func assignLeaves(sections []*Section, leaves []leafContent, infographics []*Infographic, titles sectionTitles, log *zap.Logger) []*Section {
	dummy := &Section{
		contentID:    ContentID{-1},
		SectionLevel: []string{""},
		Header:       TextSpan{Text: titles.dummy(), OriginalSpan: &Span{Start: 0, End: 0}},
	}

	for _, leaf := range leaves {
		span := leafSpan(leaf)
		start, end := span.Start, span.End

		if len(sections) == 0 || end < sections[0].Header.Start() {
			// OrphanLeaf: recovered locally into the dummy first section.
			dummy.Contents = append(dummy.Contents, leaf)
			continue
		}

		var parent *Section
		for _, s := range sections {
			if s.Header.End() < start {
				parent = s
			} else {
				break
			}
		}
		if parent != nil {
			parent.Contents = append(parent.Contents, leaf)
		}
		// else: defensive, should not occur after the branch above.
	}

	if len(dummy.Contents) > 0 {
		start := dummy.Contents[0].anchor()
		dummy.Header.OriginalSpan = &Span{Start: start, End: start}
		sections = append([]*Section{dummy}, sections...)
	}

	var misc []Content
	for _, ig := range infographics {
		if !placeInfographic(sections, ig) {
			// OrphanInfographic: recovered locally into the misc bucket.
			log.Debug("infographic has no citing paragraph, deferring to misc bucket",
				zap.String("original_id", ig.OriginalID))
			misc = append(misc, ig)
		}
	}

	if len(misc) > 0 {
		start := misc[0].anchor()
		sections = append(sections, &Section{
			contentID:    ContentID{len(sections)},
			SectionLevel: []string{""},
			Header:       TextSpan{Text: titles.misc(), OriginalSpan: &Span{Start: start, End: start}},
			Contents:     misc,
		})
	}

	return sections
}

// placeInfographic scans sections in order, looking inside each for the
// first Paragraph whose reference markers cite ig by its provisional id. If
// found, ig is inserted immediately before the next Paragraph following the
// citing one (or appended to the section if the citer is its last
// paragraph). Returns false if no paragraph anywhere cites ig.
func placeInfographic(sections []*Section, ig *Infographic) bool {
	for _, s := range sections {
		for i, content := range s.Contents {
			p, ok := content.(*Paragraph)
			if !ok {
				continue
			}
			if !citesInfographic(p, ig.contentID) {
				continue
			}

			insertAt := -1
			for j := i + 1; j < len(s.Contents); j++ {
				if _, ok := s.Contents[j].(*Paragraph); ok {
					insertAt = j
					break
				}
			}
			if insertAt >= 0 {
				s.Contents = insertContent(s.Contents, insertAt, ig)
			} else {
				s.Contents = append(s.Contents, ig)
			}
			return true
		}
	}
	return false
}

// leafSpan returns the original span of a paragraph or formula leaf.
func leafSpan(leaf leafContent) *Span {
	switch v := leaf.(type) {
	case *Paragraph:
		return v.OriginalSpan
	case *Formula:
		return v.OriginalSpan
	default:
		return &Span{}
	}
}

func citesInfographic(p *Paragraph, id ContentID) bool {
	for _, m := range p.ReferenceMarkers {
		if cid, ok := m.ReferencedID.(ContentID); ok && cid.Equal(id) {
			return true
		}
	}
	return false
}

func insertContent(contents []Content, at int, c Content) []Content {
	out := make([]Content, 0, len(contents)+1)
	out = append(out, contents[:at]...)
	out = append(out, c)
	out = append(out, contents[at:]...)
	return out
}

// sectionTitles lets the host customize the cosmetic labels C8 synthesizes
// for the dummy first section and the miscellaneous-infographics section.
// Overriding these never changes placement semantics.
type sectionTitles struct {
	Dummy string
	Misc  string
}

func (t sectionTitles) dummy() string {
	if t.Dummy == "" {
		return dummySectionTitle
	}
	return t.Dummy
}

func (t sectionTitles) misc() string {
	if t.Misc == "" {
		return miscSectionTitle
	}
	return t.Misc
}
