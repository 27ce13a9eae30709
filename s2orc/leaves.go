package s2orc

// overlapIndex records, for each content annotation index, the indices of
// every other annotation whose span overlaps it.
type overlapIndex map[int][]int

// findOverlaps implements the O(A*k) overlap scan from spec.md: for each
// ordered pair (i, j) with i < j, annotations[j] overlaps annotations[i] iff
// annotations[j].Start < annotations[i].End. The inner scan stops at the
// first j that doesn't overlap, since the list is sorted by start.
func findOverlaps(anns []contentAnnotation) overlapIndex {
	idx := make(overlapIndex)
	for i := range anns {
		for j := i + 1; j < len(anns); j++ {
			if anns[j].Start >= anns[i].End {
				break
			}
			idx[i] = append(idx[i], j)
			idx[j] = append(idx[j], i)
		}
	}
	return idx
}

// buildLeafContent implements C4: construct Infographics (figures/tables,
// with header/caption recovered from overlapping annotations) and Formulas.
// Paragraphs are left for C6. Returns the infographics and formulas in
// annotation order, plus the set of content-annotation indices it consumed.
func buildLeafContent(anns []contentAnnotation, rawText string, ids idMap) (infographics []*Infographic, formulas []*Formula, done map[int]bool) {
	overlaps := findOverlaps(anns)
	done = make(map[int]bool)

	for i, ann := range anns {
		switch ann.key {
		case "figure", "table":
			header := findOverlapText(anns, overlaps[i], "sectionheader", rawText, done)
			caption := findOverlapText(anns, overlaps[i], "figurecaption", rawText, done)

			span := Span{Start: ann.Start, End: ann.End}
			kind := ContentTypeFigure
			if ann.key == "table" {
				kind = ContentTypeTable
			}
			originalID, _ := ann.Attributes["id"].(string)
			ig := &Infographic{
				TextSpan: TextSpan{
					Text:         rawText[ann.Start:ann.End],
					OriginalSpan: &span,
				},
				contentID:  ContentID{i},
				Kind:       kind,
				Header:     header,
				Caption:    caption,
				OriginalID: originalID,
			}
			infographics = append(infographics, ig)
			done[i] = true
			registerFirstOccurrence(ids, originalID, ContentID{i})

		case "formula":
			span := Span{Start: ann.Start, End: ann.End}
			originalID, _ := ann.Attributes["id"].(string)
			f := &Formula{
				TextSpan: TextSpan{
					Text:         rawText[ann.Start:ann.End],
					OriginalSpan: &span,
				},
				contentID: ContentID{i},
			}
			formulas = append(formulas, f)
			done[i] = true
			registerFirstOccurrence(ids, originalID, ContentID{i})
		}
	}

	return infographics, formulas, done
}

// findOverlapText finds the first annotation in overlapSet tagged as
// wantKey, marks it done, and returns it as a TextSpan. If none exists, it
// returns an empty, unanchored TextSpan.
func findOverlapText(anns []contentAnnotation, overlapSet []int, wantKey, rawText string, done map[int]bool) TextSpan {
	for _, j := range overlapSet {
		if anns[j].key != wantKey {
			continue
		}
		span := Span{Start: anns[j].Start, End: anns[j].End}
		done[j] = true
		return TextSpan{Text: rawText[anns[j].Start:anns[j].End], OriginalSpan: &span}
	}
	return TextSpan{}
}

// registerFirstOccurrence records original->provisional id only the first
// time a non-empty original id is seen, matching C4's "first occurrence
// wins" rule.
func registerFirstOccurrence(ids idMap, originalID string, id ContentID) {
	if originalID == "" {
		return
	}
	if _, exists := ids[originalID]; exists {
		return
	}
	ids[originalID] = id
}
