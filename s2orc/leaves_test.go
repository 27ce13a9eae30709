package s2orc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLeafContent(t *testing.T) {
	t.Run("figure recovers header and caption from overlaps", func(t *testing.T) {
		text := "HEADERCAPTIONfigurebody"
		anns := []contentAnnotation{
			{rawAnnotation: rawAnnotation{Start: 0, End: 6}, key: "sectionheader"},
			{rawAnnotation: rawAnnotation{Start: 0, End: 23, Attributes: map[string]any{"id": "f1"}}, key: "figure"},
			{rawAnnotation: rawAnnotation{Start: 6, End: 13}, key: "figurecaption"},
		}
		ids := idMap{}
		infographics, formulas, done := buildLeafContent(anns, text, ids)

		assert.Empty(t, formulas)
		if assert.Len(t, infographics, 1) {
			ig := infographics[0]
			assert.Equal(t, ContentTypeFigure, ig.Kind)
			assert.Equal(t, "HEADER", ig.Header.Text)
			assert.Equal(t, "CAPTION", ig.Caption.Text)
			assert.Equal(t, "f1", ig.OriginalID)
		}
		assert.True(t, done[0], "overlapping sectionheader must be marked consumed")
		assert.True(t, done[2], "overlapping figurecaption must be marked consumed")
		assert.True(t, done[1])

		cid, ok := ids.contentID("f1")
		assert.True(t, ok)
		assert.Equal(t, ContentID{1}, cid)
	})

	t.Run("table-tagged figure produces Kind table", func(t *testing.T) {
		anns := []contentAnnotation{
			{rawAnnotation: rawAnnotation{Start: 0, End: 5}, key: "table"},
		}
		infographics, _, _ := buildLeafContent(anns, "tabletext", idMap{})
		if assert.Len(t, infographics, 1) {
			assert.Equal(t, ContentTypeTable, infographics[0].Kind)
		}
	})

	t.Run("formula produces no header/caption lookups", func(t *testing.T) {
		anns := []contentAnnotation{
			{rawAnnotation: rawAnnotation{Start: 0, End: 4, Attributes: map[string]any{"id": "eq1"}}, key: "formula"},
		}
		ids := idMap{}
		_, formulas, done := buildLeafContent(anns, "x=y+", ids)
		if assert.Len(t, formulas, 1) {
			assert.Equal(t, "x=y+", formulas[0].Text)
		}
		assert.True(t, done[0])
		cid, ok := ids.contentID("eq1")
		assert.True(t, ok)
		assert.Equal(t, ContentID{0}, cid)
	})

	t.Run("first occurrence wins when original id repeats", func(t *testing.T) {
		ids := idMap{}
		registerFirstOccurrence(ids, "dup", ContentID{0})
		registerFirstOccurrence(ids, "dup", ContentID{5})
		cid, _ := ids.contentID("dup")
		assert.Equal(t, ContentID{0}, cid)
	})

	t.Run("empty original id is never registered", func(t *testing.T) {
		ids := idMap{}
		registerFirstOccurrence(ids, "", ContentID{1})
		_, ok := ids.contentID("")
		assert.False(t, ok)
	})
}

func TestFindOverlaps(t *testing.T) {
	anns := []contentAnnotation{
		{rawAnnotation: rawAnnotation{Start: 0, End: 10}},
		{rawAnnotation: rawAnnotation{Start: 2, End: 5}},
		{rawAnnotation: rawAnnotation{Start: 20, End: 25}},
	}
	idx := findOverlaps(anns)
	assert.ElementsMatch(t, []int{1}, idx[0])
	assert.ElementsMatch(t, []int{0}, idx[1])
	assert.Empty(t, idx[2])
}
