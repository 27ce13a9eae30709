package s2orc

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RawRecord is the upstream per-paper record: a corpusid, the flat text,
// and the parallel annotation streams keyed by annotation kind. Annotations
// may be JSON null, a JSON array of objects, or a JSON string containing a
// Python-literal-encoded list (see decodeAnnotationsValue).
type RawRecord struct {
	CorpusID *int `json:"corpusid"`
	Content  struct {
		Text        *string                    `json:"text"`
		Annotations map[string]json.RawMessage `json:"annotations"`
	} `json:"content"`
}

// BuildError is returned for CorruptRecord conditions (spec.md §7): the
// whole paper is dropped by the host, never partially built.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string { return "corrupt record: " + e.Reason }

// Config customizes cosmetic, non-semantic aspects of BuildPaper: display
// labels for synthesized sections. A zero Config reproduces the literal
// defaults spec.md hardcodes.
type Config struct {
	DummySectionTitle string
	MiscSectionTitle  string

	// ReferenceMarkerKinds overrides which annotation keys C5 treats as
	// reference markers. Defaults to AllReferenceMarkerTypes.
	ReferenceMarkerKinds []ReferenceMarkerType
}

func (c Config) titles() sectionTitles {
	return sectionTitles{Dummy: c.DummySectionTitle, Misc: c.MiscSectionTitle}
}

func (c Config) referenceMarkerKinds() []ReferenceMarkerType {
	if len(c.ReferenceMarkerKinds) == 0 {
		return AllReferenceMarkerTypes
	}
	return c.ReferenceMarkerKinds
}

// BuildPaper runs the full reconstruction pipeline (C1-C10) over one raw
// record and returns the structured Paper. It is a pure, reentrant
// function: it allocates its own id-map and holds no state across calls, so
// callers may invoke it concurrently from multiple goroutines, one paper
// per worker.
func BuildPaper(raw *RawRecord, cfg Config, log *zap.Logger) (*Paper, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if raw == nil || raw.CorpusID == nil {
		return nil, &BuildError{Reason: "missing or non-integer corpusid"}
	}

	buildID := uuid.NewString()
	log = log.With(zap.String("build_id", buildID), zap.Int("corpusid", *raw.CorpusID))

	rawText := ""
	if raw.Content.Text != nil {
		rawText = *raw.Content.Text
	}

	annotations := sanitizeAnnotations(raw.Content.Annotations, len(rawText), log)

	ids := idMap{}
	bibliography := buildBibliography(annotations, rawText, ids)

	contentAnns := collectContentAnnotations(annotations)
	infographics, formulas, done := buildLeafContent(contentAnns, rawText, ids)
	markers := buildReferenceMarkers(annotations, rawText, ids, cfg.referenceMarkerKinds(), log)
	paragraphs := buildParagraphs(contentAnns, rawText, markers, done)

	leaves := make([]leafContent, 0, len(paragraphs)+len(formulas))
	for _, p := range paragraphs {
		leaves = append(leaves, p)
	}
	for _, f := range formulas {
		leaves = append(leaves, f)
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		return leafSpan(leaves[i]).Start < leafSpan(leaves[j]).Start
	})

	sections := buildSections(contentAnns, rawText, done)
	sections = assignLeaves(sections, leaves, infographics, cfg.titles(), log)
	top := nestSections(sections)

	reassignContentIDs(top)

	contents := make([]Content, len(top))
	for i, s := range top {
		contents[i] = s
	}

	return &Paper{
		CorpusID:     *raw.CorpusID,
		Contents:     contents,
		Bibliography: bibliography,
	}, nil
}
