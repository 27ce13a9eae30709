package s2orc

import "encoding/json"

// MarshalJSON renders a ContentID as a JSON array of ints, or null when
// unset, matching the "tuples as arrays, nulls as nulls" encoding spec.md
// §6 requires.
func (c ContentID) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	return json.Marshal([]int(c))
}

func (s Span) marshalPair() [2]int { return [2]int{s.Start, s.End} }

type textSpanJSON struct {
	Text         string `json:"text"`
	OriginalSpan *[2]int `json:"original_span"`
}

// MarshalJSON renders a TextSpan as {"text": ..., "original_span": [s,e]}
// or with a null original_span when it was synthesized.
func (t TextSpan) MarshalJSON() ([]byte, error) {
	out := textSpanJSON{Text: t.Text}
	if t.OriginalSpan != nil {
		pair := t.OriginalSpan.marshalPair()
		out.OriginalSpan = &pair
	}
	return json.Marshal(out)
}

type bibliographyEntryJSON struct {
	Text           string  `json:"text"`
	OriginalSpan   *[2]int `json:"original_span"`
	BibliographyID int     `json:"bibliography_id"`
	CorpusID       *int    `json:"corpusid"`
	OriginalID     string  `json:"original_id"`
}

func (b BibliographyEntry) MarshalJSON() ([]byte, error) {
	out := bibliographyEntryJSON{
		Text:           b.Text,
		BibliographyID: b.BibliographyID,
		CorpusID:       b.CorpusID,
		OriginalID:     b.OriginalID,
	}
	if b.OriginalSpan != nil {
		pair := b.OriginalSpan.marshalPair()
		out.OriginalSpan = &pair
	}
	return json.Marshal(out)
}

type referenceMarkerJSON struct {
	Text                string              `json:"text"`
	OriginalSpan        *[2]int             `json:"original_span"`
	ReferenceMarkerType ReferenceMarkerType `json:"reference_marker_type"`
	ReferencedID        any                 `json:"referenced_id"`
	RelativeSpan        *[2]int             `json:"relative_span"`
}

func (m ReferenceMarker) MarshalJSON() ([]byte, error) {
	out := referenceMarkerJSON{
		Text:                m.Text,
		ReferenceMarkerType: m.Type,
		ReferencedID:        m.ReferencedID,
	}
	if m.OriginalSpan != nil {
		pair := m.OriginalSpan.marshalPair()
		out.OriginalSpan = &pair
	}
	if m.RelativeSpan != nil {
		pair := m.RelativeSpan.marshalPair()
		out.RelativeSpan = &pair
	}
	return json.Marshal(out)
}

func (p *Paragraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ContentType      ContentType        `json:"content_type"`
		ContentID        ContentID          `json:"content_id"`
		Text             string             `json:"text"`
		OriginalSpan     *[2]int            `json:"original_span"`
		ReferenceMarkers []*ReferenceMarker `json:"reference_markers"`
	}{
		ContentType:      ContentTypeParagraph,
		ContentID:        p.contentID,
		Text:             p.Text,
		OriginalSpan:     optPair(p.OriginalSpan),
		ReferenceMarkers: p.ReferenceMarkers,
	})
}

func (f *Formula) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ContentType  ContentType `json:"content_type"`
		ContentID    ContentID   `json:"content_id"`
		Text         string      `json:"text"`
		OriginalSpan *[2]int     `json:"original_span"`
	}{
		ContentType:  ContentTypeFormula,
		ContentID:    f.contentID,
		Text:         f.Text,
		OriginalSpan: optPair(f.OriginalSpan),
	})
}

func (i *Infographic) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ContentType  ContentType `json:"content_type"`
		ContentID    ContentID   `json:"content_id"`
		Text         string      `json:"text"`
		OriginalSpan *[2]int     `json:"original_span"`
		Header       TextSpan    `json:"header"`
		Caption      TextSpan    `json:"caption"`
		OriginalID   string      `json:"original_id"`
	}{
		ContentType:  i.Kind,
		ContentID:    i.contentID,
		Text:         i.Text,
		OriginalSpan: optPair(i.OriginalSpan),
		Header:       i.Header,
		Caption:      i.Caption,
		OriginalID:   i.OriginalID,
	})
}

func (s *Section) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ContentType  ContentType `json:"content_type"`
		ContentID    ContentID   `json:"content_id"`
		SectionLevel []string    `json:"section_level"`
		Header       TextSpan    `json:"header"`
		Contents     []Content   `json:"contents"`
	}{
		ContentType:  ContentTypeSection,
		ContentID:    s.contentID,
		SectionLevel: s.SectionLevel,
		Header:       s.Header,
		Contents:     s.Contents,
	})
}

func (p *Paper) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CorpusID     int                 `json:"corpusid"`
		Contents     []Content           `json:"contents"`
		Bibliography []BibliographyEntry `json:"bibliography"`
	}{
		CorpusID:     p.CorpusID,
		Contents:     p.Contents,
		Bibliography: p.Bibliography,
	})
}

func optPair(s *Span) *[2]int {
	if s == nil {
		return nil
	}
	pair := s.marshalPair()
	return &pair
}
