package s2orc

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func ptr(i int) *int { return &i }

func rawRecord(t *testing.T, corpusID int, text string, annotations map[string]string) *RawRecord {
	t.Helper()
	raw := &RawRecord{CorpusID: ptr(corpusID)}
	raw.Content.Text = &text
	raw.Content.Annotations = make(map[string]json.RawMessage, len(annotations))
	for k, v := range annotations {
		raw.Content.Annotations[k] = json.RawMessage(v)
	}
	return raw
}

// TestBuildPaper_S1_EmptyText covers spec scenario S1: empty text and no
// annotations yields an empty, non-nil tree and bibliography.
func TestBuildPaper_S1_EmptyText(t *testing.T) {
	raw := rawRecord(t, 1, "", nil)
	paper, err := BuildPaper(raw, Config{}, testLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 1, paper.CorpusID)
	assert.Empty(t, paper.Contents)
	assert.Empty(t, paper.Bibliography)
}

// TestBuildPaper_S2_OneParagraphNoSections covers S2: a lone paragraph with
// no section headers is recovered into the synthesized dummy first section.
func TestBuildPaper_S2_OneParagraphNoSections(t *testing.T) {
	text := "Hello world."
	raw := rawRecord(t, 2, text, map[string]string{
		"paragraph": `[{"start":0,"end":12}]`,
	})
	paper, err := BuildPaper(raw, Config{}, testLogger(t))
	require.NoError(t, err)

	if assert.Len(t, paper.Contents, 1) {
		sec, ok := paper.Contents[0].(*Section)
		require.True(t, ok)
		assert.Equal(t, dummySectionTitle, sec.Header.Text)
		if assert.Len(t, sec.Contents, 1) {
			p, ok := sec.Contents[0].(*Paragraph)
			require.True(t, ok)
			assert.Equal(t, text, p.Text)
			assert.Equal(t, ContentID{0, 0}, p.ID())
		}
	}
}

// TestBuildPaper_S3_BibrefResolution covers S3: a bibref marker resolves to
// its bibliography entry's zero-based index.
func TestBuildPaper_S3_BibrefResolution(t *testing.T) {
	text := "…see [1]."
	start := len("…see ")
	end := start + len("[1]")
	raw := rawRecord(t, 3, text, map[string]string{
		"paragraph": `[{"start":0,"end":` + strconv.Itoa(len(text)) + `}]`,
		"bibref":    `[{"start":` + strconv.Itoa(start) + `,"end":` + strconv.Itoa(end) + `,"attributes":{"ref_id":"b1"}}]`,
		"bibentry":  `[{"start":0,"end":3,"attributes":{"id":"b1"}}]`,
	})
	paper, err := BuildPaper(raw, Config{}, testLogger(t))
	require.NoError(t, err)

	require.Len(t, paper.Bibliography, 1)
	assert.Equal(t, "b1", paper.Bibliography[0].OriginalID)

	sec := paper.Contents[0].(*Section)
	p := sec.Contents[0].(*Paragraph)
	require.Len(t, p.ReferenceMarkers, 1)
	assert.Equal(t, 0, p.ReferenceMarkers[0].ReferencedID)
}

// TestBuildPaper_S4_NestedSections covers S4: an explicit parent/child
// numbering nests the child under the parent.
func TestBuildPaper_S4_NestedSections(t *testing.T) {
	text := "1 Introduction1.1 Background"
	raw := rawRecord(t, 4, text, map[string]string{
		"sectionheader": `[{"start":0,"end":14,"attributes":{"n":"1"}},{"start":14,"end":28,"attributes":{"n":"1.1"}}]`,
	})
	paper, err := BuildPaper(raw, Config{}, testLogger(t))
	require.NoError(t, err)

	require.Len(t, paper.Contents, 1)
	top := paper.Contents[0].(*Section)
	assert.Equal(t, ContentID{0}, top.ID())
	require.Len(t, top.Contents, 1)
	child := top.Contents[0].(*Section)
	assert.Equal(t, ContentID{0, 0}, child.ID())
}

// TestBuildPaper_S5_MissingAncestor covers S5: a child at depth 3 whose
// depth-2 parent was never emitted gets a synthesized, empty-header
// ancestor with a zero-width span anchored at the child's start.
func TestBuildPaper_S5_MissingAncestor(t *testing.T) {
	text := "Methods0123456789Details"
	raw := rawRecord(t, 5, text, map[string]string{
		"sectionheader": `[{"start":0,"end":7,"attributes":{"n":"2"}},{"start":17,"end":24,"attributes":{"n":"2.1.1"}}]`,
	})
	paper, err := BuildPaper(raw, Config{}, testLogger(t))
	require.NoError(t, err)

	require.Len(t, paper.Contents, 1)
	top := paper.Contents[0].(*Section) // "2"
	require.Len(t, top.Contents, 1)
	synthesized := top.Contents[0].(*Section) // "2.1"
	assert.Equal(t, []string{"2", "1"}, synthesized.SectionLevel)
	assert.Equal(t, "", synthesized.Header.Text)
	require.NotNil(t, synthesized.Header.OriginalSpan)
	assert.Equal(t, 17, synthesized.Header.OriginalSpan.Start)
	assert.Equal(t, 17, synthesized.Header.OriginalSpan.End)

	require.Len(t, synthesized.Contents, 1)
	leaf := synthesized.Contents[0].(*Section) // "2.1.1"
	assert.Equal(t, []string{"2", "1", "1"}, leaf.SectionLevel)
}

// TestBuildPaper_S6_FigurePlacedAfterFirstCiter covers S6: a figure is
// inserted immediately before the next paragraph following the first
// paragraph that cites it, and the citing marker's referenced_id is
// rewritten to the figure's final content id.
func TestBuildPaper_S6_FigurePlacedAfterFirstCiter(t *testing.T) {
	text := "P1 cites fig1     P2 after     FIGUREBODY"
	p1End := 14
	p2Start := 18
	p2End := 28
	figStart := 31
	figEnd := len(text)
	figurerefStart := 9
	figurerefEnd := 13

	raw := rawRecord(t, 6, text, map[string]string{
		"paragraph": `[{"start":0,"end":` + strconv.Itoa(p1End) + `},{"start":` + strconv.Itoa(p2Start) + `,"end":` + strconv.Itoa(p2End) + `}]`,
		"figureref": `[{"start":` + strconv.Itoa(figurerefStart) + `,"end":` + strconv.Itoa(figurerefEnd) + `,"attributes":{"ref_id":"f1"}}]`,
		"figure":    `[{"start":` + strconv.Itoa(figStart) + `,"end":` + strconv.Itoa(figEnd) + `,"attributes":{"id":"f1"}}]`,
	})
	paper, err := BuildPaper(raw, Config{}, testLogger(t))
	require.NoError(t, err)

	sec := paper.Contents[0].(*Section)
	require.Len(t, sec.Contents, 3)

	p1, ok := sec.Contents[0].(*Paragraph)
	require.True(t, ok)
	fig, ok := sec.Contents[1].(*Infographic)
	require.True(t, ok)
	p2, ok := sec.Contents[2].(*Paragraph)
	require.True(t, ok)

	assert.Equal(t, ContentID{0, 1}, fig.ID())
	assert.Equal(t, ContentID{0, 2}, p2.ID())
	require.Len(t, p1.ReferenceMarkers, 1)
	assert.Equal(t, ContentID{0, 1}, p1.ReferenceMarkers[0].ReferencedID)
}

func TestBuildPaper_RejectsMissingCorpusID(t *testing.T) {
	_, err := BuildPaper(&RawRecord{}, Config{}, testLogger(t))
	require.Error(t, err)
	var buildErr *BuildError
	assert.ErrorAs(t, err, &buildErr)
}

func TestBuildPaper_NilLoggerDefaultsToNop(t *testing.T) {
	raw := rawRecord(t, 9, "", nil)
	_, err := BuildPaper(raw, Config{}, nil)
	require.NoError(t, err)
}

func TestBuildPaper_CustomTitles(t *testing.T) {
	text := "orphan paragraph"
	raw := rawRecord(t, 10, text, map[string]string{
		"paragraph": `[{"start":0,"end":16}]`,
	})
	cfg := Config{DummySectionTitle: "No Header Found"}
	paper, err := BuildPaper(raw, cfg, testLogger(t))
	require.NoError(t, err)

	require.Len(t, paper.Contents, 1)
	assert.Equal(t, "No Header Found", paper.Contents[0].(*Section).Header.Text)
}
