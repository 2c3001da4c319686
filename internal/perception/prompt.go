package perception

import (
	"strings"

	"mailtriage/internal/types"
)

// instructionBlock asks for a one-sentence summary and a JSON task array.
const instructionBlock = "You are a concise assistant that: 1) Summarizes the email in one sentence; " +
	"2) Extracts action items as JSON array with fields: task, priority (Low/Medium/High), " +
	"due (YYYY-MM-DD or null). Provide only valid JSON for the 'tasks' field."

// BuildPrompt renders the single user message sent for one email.
func BuildPrompt(email types.EmailRecord) string {
	var sb strings.Builder
	sb.WriteString(instructionBlock)
	sb.WriteString("\n\nEmail:\nSubject: ")
	sb.WriteString(email.Subject)
	sb.WriteString("\nBody: ")
	sb.WriteString(email.Body)
	sb.WriteString("\n\n")
	return sb.String()
}
