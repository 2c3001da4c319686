package types

import (
	"strings"
)

// =============================================================================
// DECODED JSON VALUE EXTRACTION
// =============================================================================
//
// Model replies are decoded into interface{} trees before they are checked
// against the TaskItem schema. These helpers read fields from those trees
// without panicking on unexpected types.
//
// Values can be any of the types produced by encoding/json:
//   - string, float64, bool, nil
//   - []interface{}
//   - map[string]interface{}

// ExtractString returns the value as a string when it is one.
// Returns ("", false) for every other type, including nil.
func ExtractString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// ExtractObject returns the value as a JSON object when it is one.
func ExtractObject(v interface{}) (map[string]interface{}, bool) {
	obj, ok := v.(map[string]interface{})
	return obj, ok
}

// ExtractArray returns the value as a JSON array when it is one.
func ExtractArray(v interface{}) ([]interface{}, bool) {
	arr, ok := v.([]interface{})
	return arr, ok
}

// TaskFromValue converts one decoded element of a model's task array into a TaskItem.
// Elements that are not objects or lack a non-blank "task" string are rejected.
// Unknown or missing priorities become Medium. A "due" that is not a
// non-blank string becomes nil.
func TaskFromValue(v interface{}) (TaskItem, bool) {
	obj, ok := ExtractObject(v)
	if !ok {
		return TaskItem{}, false
	}

	task, ok := ExtractString(obj["task"])
	if !ok || strings.TrimSpace(task) == "" {
		return TaskItem{}, false
	}

	item := TaskItem{Task: task, Priority: PriorityMedium}
	if p, ok := ExtractString(obj["priority"]); ok {
		if prio, ok := ParsePriority(p); ok {
			item.Priority = prio
		}
	}
	if due, ok := ExtractString(obj["due"]); ok && strings.TrimSpace(due) != "" {
		item.Due = DueOn(due)
	}
	return item, true
}

// TasksFromValues converts a decoded task array, dropping invalid elements.
// The result is never nil.
func TasksFromValues(values []interface{}) []TaskItem {
	tasks := make([]TaskItem, 0, len(values))
	for _, v := range values {
		if item, ok := TaskFromValue(v); ok {
			tasks = append(tasks, item)
		}
	}
	return tasks
}
