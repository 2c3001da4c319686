package reconcile

import (
	"testing"

	"mailtriage/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		span     string
		shape    Shape
		tasks    int
		summary  string
		haveSumm bool
	}{
		{"array", `[{"task":"A","priority":"Low","due":null}]`, ShapeArray, 1, "", false},
		{"empty array", `[]`, ShapeArray, 0, "", false},
		{"object with summary", `{"summary":"S","tasks":[{"task":"A"}]}`, ShapeObject, 1, "S", true},
		{"object without summary", `{"tasks":[{"task":"A"},{"task":"B"}]}`, ShapeObject, 2, "", false},
		{"object non-string summary", `{"summary":null,"tasks":[]}`, ShapeObject, 0, "", false},
		{"object tasks not array", `{"summary":"S","tasks":"none"}`, ShapeObject, 0, "S", true},
		{"object without tasks", `{"summary":"S"}`, ShapeOther, 0, "", false},
		{"scalar", `42`, ShapeOther, 0, "", false},
		{"malformed", `{"tasks": [}`, ShapeMalformed, 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.span)
			assert.Equal(t, tt.shape, d.Shape)
			assert.Len(t, d.Tasks, tt.tasks)
			if tt.haveSumm {
				require.NotNil(t, d.Summary)
				assert.Equal(t, tt.summary, *d.Summary)
			} else {
				assert.Nil(t, d.Summary)
			}
		})
	}
}

func TestDecode_MalformedOuterSpanIsFinal(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		span  string
	}{
		{
			name:  "trailing comma in object holding a valid array",
			reply: "Summary line.\n{\"summary\": \"S\", \"tasks\": [{\"task\":\"A\",\"priority\":\"High\"}],}",
			span:  "{\"summary\": \"S\", \"tasks\": [{\"task\":\"A\",\"priority\":\"High\"}],}",
		},
		{
			name:  "prose braces ahead of the task array",
			reply: "See {draft} below\n[{\"task\":\"B\",\"priority\":\"Low\"}]",
			span:  "{draft}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decode(tt.reply)
			assert.Equal(t, ShapeMalformed, d.Shape)
			assert.Equal(t, tt.span, d.Span)
			assert.Empty(t, d.Tasks)
		})
	}
}

func TestDecode_FirstSpan(t *testing.T) {
	d := Decode("Summary.\n[{\"task\":\"Do X\",\"priority\":\"Low\"}] and later {\"x\":1}")
	require.Equal(t, ShapeArray, d.Shape)
	require.Len(t, d.Tasks, 1)
	assert.Equal(t, "Do X", d.Tasks[0].Task)
	assert.Equal(t, types.PriorityLow, d.Tasks[0].Priority)
}

func TestDecode_NoneAndMalformed(t *testing.T) {
	assert.Equal(t, ShapeNone, Decode("just words").Shape)

	d := Decode("Summary.\n{tasks: [oops}")
	assert.Equal(t, ShapeMalformed, d.Shape)
	assert.Equal(t, "{tasks: [oops}", d.Span)
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "array", ShapeArray.String())
	assert.Equal(t, "malformed", ShapeMalformed.String())
	assert.Equal(t, "unknown", Shape(99).String())
}
