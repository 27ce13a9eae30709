package s2orc

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// rawAnnotation is one decoded annotation object: an inclusive-exclusive
// span plus whatever attributes the upstream extractor attached.
type rawAnnotation struct {
	Start      int
	End        int
	Attributes map[string]any
}

// annotationSet is the sanitized, per-key view the rest of the pipeline
// reads from.
type annotationSet map[string][]rawAnnotation

func (a annotationSet) get(key string) []rawAnnotation { return a[key] }

// sanitizeAnnotations implements C1: decode, filter, dedupe, sort and merge
// each annotation key independently. A failure in one sub-step for one key
// never discards the result of an earlier sub-step for that key, and never
// affects any other key.
func sanitizeAnnotations(raw map[string]json.RawMessage, textLen int, log *zap.Logger) annotationSet {
	out := make(annotationSet, len(raw))
	for key, msg := range raw {
		out[key] = sanitizeKey(key, msg, textLen, log)
	}
	return out
}

func sanitizeKey(key string, msg json.RawMessage, textLen int, log *zap.Logger) []rawAnnotation {
	decoded := safeStep(log, key, "decode", nil, func() ([]rawAnnotation, error) {
		return decodeAnnotationsValue(msg)
	})

	filtered := safeStep(log, key, "filter+dedupe", decoded, func() ([]rawAnnotation, error) {
		return filterAndDedupe(decoded, textLen)
	})

	sorted := safeStep(log, key, "sort", filtered, func() ([]rawAnnotation, error) {
		out := make([]rawAnnotation, len(filtered))
		copy(out, filtered)
		sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
		return out, nil
	})

	merged := safeStep(log, key, "merge overlap", sorted, func() ([]rawAnnotation, error) {
		return mergeOverlapping(sorted), nil
	})

	return merged
}

// safeStep runs fn, recovering from any panic the way the upstream
// implementation guards each sub-step with a bare try/except: on error or
// panic the previous sub-step's result is kept and a warning is logged.
func safeStep(log *zap.Logger, key, step string, prev []rawAnnotation, fn func() ([]rawAnnotation, error)) (result []rawAnnotation) {
	result = prev
	defer func() {
		if r := recover(); r != nil {
			log.Warn("malformed annotation, keeping prior value",
				zap.String("key", key), zap.String("step", step), zap.Any("recovered", r))
			result = prev
		}
	}()
	next, err := fn()
	if err != nil {
		log.Warn("malformed annotation, keeping prior value",
			zap.String("key", key), zap.String("step", step), zap.Error(err))
		return prev
	}
	return next
}

func decodeAnnotationsValue(msg json.RawMessage) ([]rawAnnotation, error) {
	if len(msg) == 0 || string(msg) == "null" {
		return nil, nil
	}

	var generic any
	if err := json.Unmarshal(msg, &generic); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	switch v := generic.(type) {
	case nil:
		return nil, nil
	case []any:
		return annotationsFromList(v)
	case string:
		lit, err := decodeLiteral(v)
		if err != nil {
			return nil, fmt.Errorf("literal decode: %w", err)
		}
		list, ok := lit.([]any)
		if !ok {
			return nil, fmt.Errorf("literal decoded to %T, want list", lit)
		}
		return annotationsFromList(list)
	default:
		return nil, fmt.Errorf("unsupported annotation value type %T", generic)
	}
}

func annotationsFromList(list []any) ([]rawAnnotation, error) {
	out := make([]rawAnnotation, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("annotation entry is %T, want object", item)
		}
		ann, err := annotationFromMap(m)
		if err != nil {
			return nil, err
		}
		out = append(out, ann)
	}
	return out, nil
}

func annotationFromMap(m map[string]any) (rawAnnotation, error) {
	start, ok := coerceInt(m["start"])
	if !ok {
		return rawAnnotation{}, fmt.Errorf("start is not coercible to int: %v", m["start"])
	}
	end, ok := coerceInt(m["end"])
	if !ok {
		return rawAnnotation{}, fmt.Errorf("end is not coercible to int: %v", m["end"])
	}
	var attrs map[string]any
	if raw, ok := m["attributes"].(map[string]any); ok {
		attrs = raw
	}
	return rawAnnotation{Start: start, End: end, Attributes: attrs}, nil
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// filterAndDedupe drops entries with invalid or out-of-range spans, then
// deduplicates by (start, end), keeping the first occurrence.
func filterAndDedupe(in []rawAnnotation, textLen int) ([]rawAnnotation, error) {
	seen := make(map[[2]int]bool, len(in))
	out := make([]rawAnnotation, 0, len(in))
	for _, a := range in {
		if !(0 <= a.Start && a.Start < a.End && a.End <= textLen) {
			continue
		}
		key := [2]int{a.Start, a.End}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out, nil
}

// mergeOverlapping walks the sorted list and folds any annotation whose
// start precedes the previous annotation's end into that previous entry,
// extending its end and copying over any attribute keys not already
// present.
func mergeOverlapping(in []rawAnnotation) []rawAnnotation {
	if len(in) < 2 {
		out := make([]rawAnnotation, len(in))
		copy(out, in)
		return out
	}
	out := make([]rawAnnotation, 0, len(in))
	out = append(out, in[0])
	for _, curr := range in[1:] {
		prev := &out[len(out)-1]
		if curr.Start < prev.End {
			if curr.End > prev.End {
				prev.End = curr.End
			}
			for k, v := range curr.Attributes {
				if prev.Attributes == nil {
					prev.Attributes = map[string]any{}
				}
				if _, exists := prev.Attributes[k]; !exists {
					prev.Attributes[k] = v
				}
			}
		} else {
			out = append(out, curr)
		}
	}
	return out
}
