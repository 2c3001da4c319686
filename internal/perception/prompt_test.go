package perception

import (
	"testing"

	"mailtriage/internal/types"
)

func TestBuildPrompt(t *testing.T) {
	email := types.EmailRecord{ID: 1, Subject: "Please prepare Q3 report", Body: "Hi, prepare it by next Friday."}

	want := "You are a concise assistant that: 1) Summarizes the email in one sentence; " +
		"2) Extracts action items as JSON array with fields: task, priority (Low/Medium/High), " +
		"due (YYYY-MM-DD or null). Provide only valid JSON for the 'tasks' field.\n\n" +
		"Email:\nSubject: Please prepare Q3 report\nBody: Hi, prepare it by next Friday.\n\n"

	if got := BuildPrompt(email); got != want {
		t.Errorf("BuildPrompt mismatch\n got: %q\nwant: %q", got, want)
	}
}
