package s2orc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestSanitizeAnnotations(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	cases := []struct {
		name    string
		raw     json.RawMessage
		textLen int
		want    []rawAnnotation
	}{
		{
			name:    "null value decodes to nothing",
			raw:     json.RawMessage(`null`),
			textLen: 10,
			want:    []rawAnnotation{},
		},
		{
			name:    "json array of objects",
			raw:     json.RawMessage(`[{"start":0,"end":3},{"start":5,"end":8}]`),
			textLen: 10,
			want: []rawAnnotation{
				{Start: 0, End: 3},
				{Start: 5, End: 8},
			},
		},
		{
			name:    "python-literal-encoded string",
			raw:     json.RawMessage(`"[{'start': 0, 'end': 3}]"`),
			textLen: 10,
			want: []rawAnnotation{
				{Start: 0, End: 3},
			},
		},
		{
			name:    "out of range span is dropped",
			raw:     json.RawMessage(`[{"start":0,"end":3},{"start":8,"end":20}]`),
			textLen: 10,
			want: []rawAnnotation{
				{Start: 0, End: 3},
			},
		},
		{
			name:    "inverted span is dropped",
			raw:     json.RawMessage(`[{"start":5,"end":2}]`),
			textLen: 10,
			want:    []rawAnnotation{},
		},
		{
			name:    "exact duplicate spans dedupe, keeping the first",
			raw:     json.RawMessage(`[{"start":0,"end":3,"attributes":{"id":"a"}},{"start":0,"end":3,"attributes":{"id":"b"}}]`),
			textLen: 10,
			want: []rawAnnotation{
				{Start: 0, End: 3, Attributes: map[string]any{"id": "a"}},
			},
		},
		{
			name:    "overlapping spans merge into one, widening the end",
			raw:     json.RawMessage(`[{"start":0,"end":5,"attributes":{"id":"a"}},{"start":2,"end":8,"attributes":{"extra":"x"}}]`),
			textLen: 10,
			want: []rawAnnotation{
				{Start: 0, End: 8, Attributes: map[string]any{"id": "a", "extra": "x"}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := sanitizeAnnotations(map[string]json.RawMessage{"k": tc.raw}, tc.textLen, log)
			assert.Equal(t, tc.want, out.get("k"))
		})
	}
}

func TestSanitizeAnnotations_MalformedKeyFallsBackButOthersUnaffected(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	raw := map[string]json.RawMessage{
		"good": json.RawMessage(`[{"start":0,"end":3}]`),
		"bad":  json.RawMessage(`{"not":"a list"}`),
	}
	out := sanitizeAnnotations(raw, 10, log)

	assert.Equal(t, []rawAnnotation{{Start: 0, End: 3}}, out.get("good"))
	assert.Equal(t, []rawAnnotation{}, out.get("bad"), "malformed key should fall back to an empty result, not poison the whole sanitize pass")
}

func TestDecodeAnnotationsValue(t *testing.T) {
	t.Run("string must decode to a list", func(t *testing.T) {
		_, err := decodeAnnotationsValue(json.RawMessage(`"42"`))
		require.Error(t, err)
	})

	t.Run("unsupported type errors", func(t *testing.T) {
		_, err := decodeAnnotationsValue(json.RawMessage(`42`))
		require.Error(t, err)
	})

	t.Run("entry that is not an object errors", func(t *testing.T) {
		_, err := decodeAnnotationsValue(json.RawMessage(`[1,2,3]`))
		require.Error(t, err)
	})
}

func TestCoerceInt(t *testing.T) {
	cases := []struct {
		in     any
		want   int
		wantOK bool
	}{
		{in: 3, want: 3, wantOK: true},
		{in: int64(7), want: 7, wantOK: true},
		{in: float64(4.0), want: 4, wantOK: true},
		{in: "nope", want: 0, wantOK: false},
		{in: nil, want: 0, wantOK: false},
	}
	for _, tc := range cases {
		got, ok := coerceInt(tc.in)
		assert.Equal(t, tc.wantOK, ok)
		if tc.wantOK {
			assert.Equal(t, tc.want, got)
		}
	}
}
