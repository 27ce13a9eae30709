package s2orc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNestSections(t *testing.T) {
	t.Run("flat levels are left untouched", func(t *testing.T) {
		sections := []*Section{
			{SectionLevel: []string{""}},
			{SectionLevel: []string{""}},
		}
		out := nestSections(sections)
		assert.Equal(t, sections, out)
	})

	t.Run("dotted numbering nests via a level stack", func(t *testing.T) {
		s1 := &Section{SectionLevel: []string{"1"}}
		s11 := &Section{SectionLevel: []string{"1", "1"}}
		s12 := &Section{SectionLevel: []string{"1", "2"}}
		s2 := &Section{SectionLevel: []string{"2"}}

		out := nestSections([]*Section{s1, s11, s12, s2})

		if assert.Len(t, out, 2) {
			assert.Same(t, s1, out[0])
			assert.Same(t, s2, out[1])
		}
		if assert.Len(t, s1.Contents, 2) {
			assert.Same(t, Content(s11), s1.Contents[0])
			assert.Same(t, Content(s12), s1.Contents[1])
		}
		assert.Empty(t, s2.Contents)
	})

	t.Run("popping the stack finds the correct ancestor at any depth", func(t *testing.T) {
		s1 := &Section{SectionLevel: []string{"1"}}
		s11 := &Section{SectionLevel: []string{"1", "1"}}
		s111 := &Section{SectionLevel: []string{"1", "1", "1"}}
		s2 := &Section{SectionLevel: []string{"2"}}

		out := nestSections([]*Section{s1, s11, s111, s2})

		assert.Len(t, out, 2)
		assert.Same(t, Content(s111), s11.Contents[0])
		assert.Empty(t, s2.Contents)
	})
}

func TestAnyHasLevel(t *testing.T) {
	assert.False(t, anyHasLevel([]*Section{{SectionLevel: []string{""}}}))
	assert.False(t, anyHasLevel(nil))
	assert.True(t, anyHasLevel([]*Section{{SectionLevel: []string{"1"}}}))
}
