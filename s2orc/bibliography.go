package s2orc

import "sort"

// idMap is the transient original-id -> local-id dictionary used during one
// paper's pass. Bibliography entries map to an int (bibliography index);
// figures/tables/formulas map to a provisional one-tuple ContentID.
type idMap map[string]any

func (m idMap) bibIndex(originalID string) (int, bool) {
	v, ok := m[originalID]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

func (m idMap) contentID(originalID string) (ContentID, bool) {
	v, ok := m[originalID]
	if !ok {
		return nil, false
	}
	c, ok := v.(ContentID)
	return c, ok
}

// buildBibliography implements C2: order bibentry annotations by start,
// assign zero-based bibliography ids, and register original->new ids in the
// shared id-map for later reference-marker resolution.
func buildBibliography(annotations annotationSet, rawText string, ids idMap) []BibliographyEntry {
	entries := annotations.get("bibentry")
	sorted := make([]rawAnnotation, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	bibliography := make([]BibliographyEntry, 0, len(sorted))
	for i, ann := range sorted {
		span := Span{Start: ann.Start, End: ann.End}
		originalID, _ := ann.Attributes["id"].(string)

		var corpusID *int
		if v, ok := coerceInt(ann.Attributes["matched_paper_id"]); ok {
			corpusID = &v
		}

		bibliography = append(bibliography, BibliographyEntry{
			TextSpan: TextSpan{
				Text:         rawText[ann.Start:ann.End],
				OriginalSpan: &span,
			},
			BibliographyID: i,
			CorpusID:       corpusID,
			OriginalID:     originalID,
		})
		ids[originalID] = i
	}
	return bibliography
}
