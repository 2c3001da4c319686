// Package types provides shared type definitions used across mailtriage packages.
// This package exists to break import cycles between extract, reconcile, and batch.
// Types in this package should be foundational data structures with no complex dependencies.
package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// =============================================================================
// INPUT RECORDS
// =============================================================================

// EmailRecord is one received email as read from the input table.
// Records are immutable once read.
type EmailRecord struct {
	ID      int    `csv:"id"`
	From    string `csv:"from"`
	Subject string `csv:"subject"`
	Date    string `csv:"date"`
	Body    string `csv:"body"`
}

// =============================================================================
// TASK ITEMS
// =============================================================================

// Priority is the urgency of an extracted task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority maps a case-insensitive priority name to a Priority.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	default:
		return "", false
	}
}

// TaskItem is one actionable item extracted from an email.
// Due is either an ISO 8601 date, an unparsed date phrase, or nil.
type TaskItem struct {
	Task     string   `json:"task"`
	Priority Priority `json:"priority"`
	Due      *string  `json:"due"`
}

// DueOn returns a pointer suitable for TaskItem.Due.
func DueOn(s string) *string {
	return &s
}

// DueString renders a due value for display; nil renders as "-".
func DueString(due *string) string {
	if due == nil {
		return "-"
	}
	return *due
}

// EncodeTasks renders tasks as the JSON array stored in the output table.
// A nil slice encodes as [] so consumers never see null.
func EncodeTasks(tasks []TaskItem) (string, error) {
	if tasks == nil {
		tasks = []TaskItem{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tasks); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodeTasks parses a tasks column produced by EncodeTasks.
func DecodeTasks(s string) ([]TaskItem, error) {
	tasks := []TaskItem{}
	if err := json.Unmarshal([]byte(s), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// =============================================================================
// RESULTS
// =============================================================================

// Extraction is the summary and task list produced for a single email,
// either by the rule extractor or by reconciling a model reply.
type Extraction struct {
	Summary string
	Tasks   []TaskItem
}

// EmailResult is one output row. ID always matches the source EmailRecord.
type EmailResult struct {
	ID      int
	Summary string
	Tasks   []TaskItem
}

// NewEmailResult pairs an extraction with its source record.
func NewEmailResult(email EmailRecord, ex Extraction) EmailResult {
	tasks := ex.Tasks
	if tasks == nil {
		tasks = []TaskItem{}
	}
	return EmailResult{ID: email.ID, Summary: ex.Summary, Tasks: tasks}
}

// =============================================================================
// MODEL REPLIES
// =============================================================================

// Reply carries the outcome of a remote generation call.
// Present is false when the call failed or was never made.
type Reply struct {
	Text    string
	Present bool
}

// ReplyText wraps a successful model reply.
func ReplyText(text string) Reply {
	return Reply{Text: text, Present: true}
}

// NoReply is the absence signal for a failed or unavailable call.
func NoReply() Reply {
	return Reply{}
}
