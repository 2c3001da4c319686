package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindJSONSpan(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"array after prose", "Summary.\n[{\"task\":\"Do X\"}]", `[{"task":"Do X"}]`, true},
		{"object", `Here: {"tasks": [], "summary": "s"} done`, `{"tasks": [], "summary": "s"}`, true},
		{"balanced ignores trailing braces", `{"a":1} and later }`, `{"a":1}`, true},
		{"brackets inside strings", `[{"task":"fix ] and }"}] tail`, `[{"task":"fix ] and }"}]`, true},
		{"escaped quote in string", `{"task":"say \"hi]\""}`, `{"task":"say \"hi]\""}`, true},
		{"unterminated falls back to last closer", `{"tasks": [1, 2} trailing`, `{"tasks": [1, 2}`, true},
		{"opener without closer skipped", `{ never closed [ "x" ]`, `[ "x" ]`, true},
		{"plain prose", "Nothing structured here.", "", false},
		{"lone closer", "oops } ]", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindJSONSpan(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
