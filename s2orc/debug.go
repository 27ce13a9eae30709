package s2orc

import (
	"s2orc/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns a readable tree of the reconstructed paper, for manual
// inspection during debugging. It exists solely for that purpose; nothing
// in the pipeline reads it back.
func (p *Paper) String() string {
	if p == nil {
		return "<nil Paper>"
	}
	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "Paper corpusid=%d", p.CorpusID)
	tw.Line(1, "Bibliography: %d", len(p.Bibliography))
	for _, b := range p.Bibliography {
		tw.Line(2, "[%d] original_id=%q corpusid=%v", b.BibliographyID, b.OriginalID, corpusIDOrNil(b.CorpusID))
	}
	tw.Line(1, "Contents: %d", len(p.Contents))
	for _, c := range p.Contents {
		tw.content(2, c)
	}
	return tw.String()
}

func (tw treeWriter) content(depth int, c Content) {
	switch v := c.(type) {
	case *Section:
		tw.Line(depth, "Section id=%v level=%v", v.ID(), v.SectionLevel)
		tw.TextBlock(depth+1, "Header", v.Header.Text)
		for _, child := range v.Contents {
			tw.content(depth+1, child)
		}
	case *Paragraph:
		tw.Line(depth, "Paragraph id=%v markers=%d", v.ID(), len(v.ReferenceMarkers))
		tw.TextBlock(depth+1, "Text", v.Text)
		for _, m := range v.ReferenceMarkers {
			tw.Line(depth+1, "%s -> %v", m.Type, m.ReferencedID)
		}
	case *Formula:
		tw.Line(depth, "Formula id=%v", v.ID())
		tw.TextBlock(depth+1, "Text", v.Text)
	case *Infographic:
		tw.Line(depth, "%s id=%v", v.Kind, v.ID())
		tw.LineIf(v.Header.Text != "", depth+1, "Header: %q", v.Header.Text)
		tw.LineIf(v.Caption.Text != "", depth+1, "Caption: %q", v.Caption.Text)
	default:
		tw.Line(depth, "<unknown content %T>", c)
	}
}

func corpusIDOrNil(id *int) any {
	if id == nil {
		return nil
	}
	return *id
}
