package s2orc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildParagraphs(t *testing.T) {
	t.Run("binds a marker fully contained in the paragraph span", func(t *testing.T) {
		text := "Some text [1] more text"
		anns := []contentAnnotation{
			{rawAnnotation: rawAnnotation{Start: 0, End: len(text)}, key: "paragraph"},
		}
		marker := &ReferenceMarker{
			TextSpan: TextSpan{Text: "[1]", OriginalSpan: &Span{Start: 10, End: 13}},
			Type:     ReferenceMarkerBibref,
		}
		done := map[int]bool{}
		paragraphs := buildParagraphs(anns, text, []*ReferenceMarker{marker}, done)

		if assert.Len(t, paragraphs, 1) {
			assert.Len(t, paragraphs[0].ReferenceMarkers, 1)
			assert.Equal(t, &Span{Start: 10, End: 13}, marker.RelativeSpan)
		}
	})

	t.Run("marker straddling a paragraph boundary is left unattached", func(t *testing.T) {
		anns := []contentAnnotation{
			{rawAnnotation: rawAnnotation{Start: 0, End: 10}, key: "paragraph"},
			{rawAnnotation: rawAnnotation{Start: 10, End: 20}, key: "paragraph"},
		}
		marker := &ReferenceMarker{
			TextSpan: TextSpan{Text: "straddle", OriginalSpan: &Span{Start: 8, End: 12}},
		}
		done := map[int]bool{}
		paragraphs := buildParagraphs(anns, "0123456789ABCDEFGHIJ", []*ReferenceMarker{marker}, done)

		for _, p := range paragraphs {
			assert.Empty(t, p.ReferenceMarkers, "a marker spanning two paragraphs must not be attached to either")
		}
	})

	t.Run("already-done annotations and non-paragraph keys are skipped", func(t *testing.T) {
		anns := []contentAnnotation{
			{rawAnnotation: rawAnnotation{Start: 0, End: 5}, key: "paragraph"},
			{rawAnnotation: rawAnnotation{Start: 6, End: 10}, key: "formula"},
		}
		done := map[int]bool{0: true}
		paragraphs := buildParagraphs(anns, "0123456789", nil, done)
		assert.Empty(t, paragraphs)
	})
}

func TestDedupeParagraphs(t *testing.T) {
	mk := func(text string, markers int) *Paragraph {
		p := &Paragraph{TextSpan: TextSpan{Text: text}}
		for i := 0; i < markers; i++ {
			p.ReferenceMarkers = append(p.ReferenceMarkers, &ReferenceMarker{})
		}
		return p
	}

	t.Run("prefix extension folds into the later, longer paragraph", func(t *testing.T) {
		out := dedupeParagraphs([]*Paragraph{mk("Hello", 0), mk("Hello world", 0)})
		if assert.Len(t, out, 1) {
			assert.Equal(t, "Hello world", out[0].Text)
		}
	})

	t.Run("exact duplicate keeps the one with more markers", func(t *testing.T) {
		out := dedupeParagraphs([]*Paragraph{mk("Same", 0), mk("Same", 2)})
		if assert.Len(t, out, 1) {
			assert.Len(t, out[0].ReferenceMarkers, 2)
		}
	})

	t.Run("exact duplicate with fewer markers does not replace the richer one", func(t *testing.T) {
		out := dedupeParagraphs([]*Paragraph{mk("Same", 2), mk("Same", 0)})
		if assert.Len(t, out, 1) {
			assert.Len(t, out[0].ReferenceMarkers, 2, "rule is asymmetric: a later duplicate only wins if it is strictly richer")
		}
	})

	t.Run("unrelated paragraphs are both kept", func(t *testing.T) {
		out := dedupeParagraphs([]*Paragraph{mk("Alpha", 0), mk("Beta", 0)})
		assert.Len(t, out, 2)
	})

	t.Run("fewer than two paragraphs returned unchanged", func(t *testing.T) {
		single := []*Paragraph{mk("Only", 0)}
		assert.Equal(t, single, dedupeParagraphs(single))
		assert.Empty(t, dedupeParagraphs(nil))
	})
}
