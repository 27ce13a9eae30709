package s2orc

import "sort"

// contentAnnotation is one annotation tagged with the content key it will
// become (sectionheader, paragraph, figure, table, figurecaption, formula).
type contentAnnotation struct {
	rawAnnotation
	key string
}

// contentAnnotationKeys lists the annotation streams C3 merges, in the
// order the upstream collector walks them. Equal starts keep this order
// (Go's sort.SliceStable preserves the order annotations were appended in).
var contentAnnotationKeys = []string{
	"sectionheader", "paragraph", "figure", "figurecaption", "formula",
}

// collectContentAnnotations implements C3: merge the content-bearing
// annotation streams into one time-ordered list, retagging figures of type
// "table" as "table" and ignoring the upstream "table" key outright (it is
// strictly inferior to the retagged figures, which also carry header/
// caption overlap information).
func collectContentAnnotations(annotations annotationSet) []contentAnnotation {
	var out []contentAnnotation
	for _, key := range contentAnnotationKeys {
		for _, ann := range annotations.get(key) {
			tagged := key
			if key == "figure" {
				if t, _ := ann.Attributes["type"].(string); t == "table" {
					tagged = "table"
				}
			}
			out = append(out, contentAnnotation{rawAnnotation: ann, key: tagged})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
