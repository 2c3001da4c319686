package reconcile

import (
	"encoding/json"

	"mailtriage/internal/types"
)

// Shape classifies the JSON recovered from a model reply.
type Shape int

const (
	// ShapeNone means the reply held no JSON-looking span at all.
	ShapeNone Shape = iota
	// ShapeArray is a bare task array.
	ShapeArray
	// ShapeObject is an object with a "tasks" member.
	ShapeObject
	// ShapeOther is valid JSON of any other form.
	ShapeOther
	// ShapeMalformed means the first span found did not parse.
	ShapeMalformed
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeArray:
		return "array"
	case ShapeObject:
		return "object"
	case ShapeOther:
		return "other"
	case ShapeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Decoded is the tagged result of classifying a reply.
// Tasks is set for ShapeArray and ShapeObject. Summary is set only when
// a ShapeObject carried a string "summary" member.
type Decoded struct {
	Shape   Shape
	Span    string
	Tasks   []types.TaskItem
	Summary *string
}

// Classify parses one span and tags its shape.
func Classify(span string) Decoded {
	var v interface{}
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return Decoded{Shape: ShapeMalformed, Span: span}
	}

	if arr, ok := types.ExtractArray(v); ok {
		return Decoded{Shape: ShapeArray, Span: span, Tasks: types.TasksFromValues(arr)}
	}

	if obj, ok := types.ExtractObject(v); ok {
		if raw, has := obj["tasks"]; has {
			// A "tasks" member that is not an array yields no tasks.
			arr, _ := types.ExtractArray(raw)
			d := Decoded{Shape: ShapeObject, Span: span, Tasks: types.TasksFromValues(arr)}
			if s, ok := types.ExtractString(obj["summary"]); ok {
				d.Summary = &s
			}
			return d
		}
	}

	return Decoded{Shape: ShapeOther, Span: span}
}

// Decode classifies the first JSON-looking span of a raw reply. That span is
// final: if it does not parse the reply is ShapeMalformed, and nothing nested
// in it or after it is tried. A reply with no span at all is ShapeNone.
func Decode(reply string) Decoded {
	span, ok := FindJSONSpan(reply)
	if !ok {
		return Decoded{Shape: ShapeNone}
	}
	return Classify(span)
}
