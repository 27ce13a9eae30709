// Package s2orc reconstructs a hierarchical section tree, paragraphs,
// reference markers, infographics and bibliography from a raw paper record
// and its parallel annotation streams, following the approach the upstream
// S2ORC parser uses to turn flat extractor output into nested documents.
//
// The whole package is a sequence of pure transformations over in-memory
// data: BuildPaper is reentrant and keeps no state between calls, so callers
// are free to invoke it concurrently, one goroutine per paper.
package s2orc

// Span is an inclusive-start, exclusive-end character offset pair into the
// raw paper text. Invariant: 0 <= Start < End <= len(text).
type Span struct {
	Start int
	End   int
}

// TextSpan pairs a Span with the raw-text substring it covers. OriginalSpan
// is nil when the span was synthesized rather than copied from an upstream
// annotation (e.g. a missing figure header or caption). A synthesized
// ancestor section header is not such a case: it carries a zero-width span.
type TextSpan struct {
	Text         string
	OriginalSpan *Span
}

// Start reports the text span's original start offset, or -1 if the span
// was never anchored to the raw text.
func (t TextSpan) Start() int {
	if t.OriginalSpan == nil {
		return -1
	}
	return t.OriginalSpan.Start
}

// End reports the text span's original end offset, or -1 if the span was
// never anchored to the raw text.
func (t TextSpan) End() int {
	if t.OriginalSpan == nil {
		return -1
	}
	return t.OriginalSpan.End
}

// ContentID is a root-to-node path in the final section tree. Ordering is
// lexicographic; shorter prefixes are ancestors. A nil ContentID means the
// content has not yet been placed in the tree.
type ContentID []int

// Equal reports whether two content ids name the same path.
func (c ContentID) Equal(o ContentID) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// IsAncestorOf reports whether c is a strict prefix of o.
func (c ContentID) IsAncestorOf(o ContentID) bool {
	if len(c) >= len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

func (c ContentID) clone() ContentID {
	if c == nil {
		return nil
	}
	out := make(ContentID, len(c))
	copy(out, c)
	return out
}

// appended returns a new ContentID equal to c with i appended; c is never
// mutated in place, matching the value semantics the pipeline relies on
// when the same provisional id is read from multiple places before C10
// rewrites it.
func (c ContentID) appended(i int) ContentID {
	out := make(ContentID, len(c)+1)
	copy(out, c)
	out[len(c)] = i
	return out
}

// ContentType tags the kind of a Content entity. Values mirror the upstream
// annotation "key" vocabulary plus "section".
type ContentType string

const (
	ContentTypeSection   ContentType = "section"
	ContentTypeParagraph ContentType = "paragraph"
	ContentTypeFormula   ContentType = "formula"
	ContentTypeFigure    ContentType = "figure"
	ContentTypeTable     ContentType = "table"
)

// ReferenceMarkerType enumerates the in-text reference marker kinds the
// core recognizes. Any other upstream annotation key is ignored by C5.
type ReferenceMarkerType string

const (
	ReferenceMarkerBibref    ReferenceMarkerType = "bibref"
	ReferenceMarkerFigureref ReferenceMarkerType = "figureref"
	ReferenceMarkerTableref  ReferenceMarkerType = "tableref"
)

// AllReferenceMarkerTypes lists the marker kinds C5 builds, in the order
// they are processed. Exposed so callers building a custom Config
// can see (and override) the default.
var AllReferenceMarkerTypes = []ReferenceMarkerType{
	ReferenceMarkerBibref,
	ReferenceMarkerFigureref,
	ReferenceMarkerTableref,
}

// ReferencedID holds a reference marker's resolved target: either an int
// (bibliography index), a ContentID (figure/table path), or nil
// (unresolved). It is deliberately an `any` rather than a tagged struct so
// that JSON encoding naturally produces an int, an array, or null.
type ReferencedID = any

// BibliographyEntry is one resolved bibliography item.
type BibliographyEntry struct {
	TextSpan
	BibliographyID int
	CorpusID       *int
	OriginalID     string
}

// ReferenceMarker is an in-text citation or cross-reference.
type ReferenceMarker struct {
	TextSpan
	Type         ReferenceMarkerType
	ReferencedID ReferencedID
	RelativeSpan *Span
}

// Content is implemented by every node of the section tree: Section,
// Paragraph, Formula and Infographic. Reference markers hold ContentID
// values, never pointers, so the tree can never contain cycles.
type Content interface {
	Type() ContentType
	ID() ContentID
	setID(ContentID)
	anchor() int // original_span.start used for ordering; -1 if unanchored
}

// Paragraph is a leaf Content holding text and the reference markers bound
// to it.
type Paragraph struct {
	TextSpan
	contentID        ContentID
	ReferenceMarkers []*ReferenceMarker
}

func (p *Paragraph) Type() ContentType { return ContentTypeParagraph }
func (p *Paragraph) ID() ContentID { return p.contentID }
func (p *Paragraph) setID(id ContentID) { p.contentID = id }
func (p *Paragraph) anchor() int { return p.Start() }

// Formula is a leaf Content with no further structure.
type Formula struct {
	TextSpan
	contentID ContentID
}

func (f *Formula) Type() ContentType { return ContentTypeFormula }
func (f *Formula) ID() ContentID { return f.contentID }
func (f *Formula) setID(id ContentID) { f.contentID = id }
func (f *Formula) anchor() int { return f.Start() }

// Infographic is a figure or table, uniformly represented with a header and
// caption recovered from overlapping annotations.
type Infographic struct {
	TextSpan
	contentID  ContentID
	Kind       ContentType // ContentTypeFigure or ContentTypeTable
	Header     TextSpan
	Caption    TextSpan
	OriginalID string
}

func (i *Infographic) Type() ContentType { return i.Kind }
func (i *Infographic) ID() ContentID { return i.contentID }
func (i *Infographic) setID(id ContentID) { i.contentID = id }
func (i *Infographic) anchor() int { return i.Start() }

// Section is an internal Content node: a header plus an ordered list of
// child Content (which may themselves be Sections).
type Section struct {
	contentID    ContentID
	SectionLevel []string
	Header       TextSpan
	Contents     []Content
}

func (s *Section) Type() ContentType { return ContentTypeSection }
func (s *Section) ID() ContentID { return s.contentID }
func (s *Section) setID(id ContentID) { s.contentID = id }
func (s *Section) anchor() int { return s.Header.Start() }

// Paper is the root of a fully reconstructed document.
type Paper struct {
	CorpusID     int
	Contents     []Content
	Bibliography []BibliographyEntry
}
