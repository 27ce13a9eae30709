package s2orc

import "strconv"

// reassignContentIDs implements C10's two depth-first passes: assign final
// ids that match each content's root-to-node path, then rewrite every
// figureref/tableref marker's referenced_id through the old->new map built
// during the first pass. bibref markers are untouched: their referenced_id
// is already a bibliography index assigned by C2.
func reassignContentIDs(sections []*Section) {
	old2new := map[string]ContentID{}

	var assign func(contents []Content, parent ContentID)
	assign = func(contents []Content, parent ContentID) {
		for i, c := range contents {
			newID := parent.appended(i)
			old2new[contentIDKey(c.ID())] = newID
			c.setID(newID)

			if s, ok := c.(*Section); ok {
				assign(s.Contents, newID)
			}
		}
	}

	top := make([]Content, len(sections))
	for i, s := range sections {
		top[i] = s
	}
	assign(top, ContentID{})

	var rewrite func(contents []Content)
	rewrite = func(contents []Content) {
		for _, c := range contents {
			switch v := c.(type) {
			case *Paragraph:
				for _, m := range v.ReferenceMarkers {
					if m.Type == ReferenceMarkerFigureref || m.Type == ReferenceMarkerTableref {
						if cid, ok := m.ReferencedID.(ContentID); ok {
							if newID, found := old2new[contentIDKey(cid)]; found {
								m.ReferencedID = newID
							} else {
								m.ReferencedID = nil
							}
						}
					}
				}
			case *Section:
				rewrite(v.Contents)
			}
		}
	}
	rewrite(top)
}

// contentIDKey turns a provisional or final ContentID into a map key. nil
// and empty ids never collide with a real provisional id (those are always
// non-empty single-element tuples from C4/C6/C7).
func contentIDKey(id ContentID) string {
	if id == nil {
		return ""
	}
	b := make([]byte, 0, len(id)*4)
	for i, v := range id {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return string(b)
}
