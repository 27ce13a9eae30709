package s2orc

import "go.uber.org/zap"

// buildReferenceMarkers implements C5: build a ReferenceMarker for every
// sanitized bibref/figureref/tableref annotation, resolving its upstream
// ref_id through the id-map where possible. Resolution failure is
// MissingReference (spec.md §7): recovered locally, ReferencedID stays nil.
func buildReferenceMarkers(annotations annotationSet, rawText string, ids idMap, kinds []ReferenceMarkerType, log *zap.Logger) []*ReferenceMarker {
	var markers []*ReferenceMarker
	for _, kind := range kinds {
		for _, ann := range annotations.get(string(kind)) {
			span := Span{Start: ann.Start, End: ann.End}
			marker := &ReferenceMarker{
				TextSpan: TextSpan{
					Text:         rawText[ann.Start:ann.End],
					OriginalSpan: &span,
				},
				Type: kind,
			}

			refOriginalID, _ := ann.Attributes["ref_id"].(string)
			switch kind {
			case ReferenceMarkerBibref:
				if idx, ok := ids.bibIndex(refOriginalID); ok {
					marker.ReferencedID = idx
				} else {
					log.Debug("reference marker target not resolved",
						zap.String("kind", string(kind)), zap.String("ref_id", refOriginalID))
				}
			case ReferenceMarkerFigureref, ReferenceMarkerTableref:
				if cid, ok := ids.contentID(refOriginalID); ok {
					marker.ReferencedID = cid
				} else {
					log.Debug("reference marker target not resolved",
						zap.String("kind", string(kind)), zap.String("ref_id", refOriginalID))
				}
			}

			markers = append(markers, marker)
		}
	}
	return markers
}
