// Package extract implements the deterministic keyword rules that turn an
// email into a summary and a list of tasks. It is the fallback whenever a
// model reply is missing or carries no usable JSON.
package extract

import (
	"strings"
	"time"

	"mailtriage/internal/dates"
	"mailtriage/internal/types"

	"go.uber.org/zap"
)

// SummaryLimit is the number of characters kept in a rule-based summary.
const SummaryLimit = 200

// Ellipsis marks a truncated summary.
const Ellipsis = "..."

// DueFunc resolves the due date for a matched rule. A nil result means no due date.
type DueFunc func(text string, inf *dates.Inferrer) *string

// Rule maps a trigger keyword to a task. Rules are independent; each one that
// matches contributes exactly one task, in table order.
type Rule struct {
	Name     string
	Keyword  string
	Task     string
	Priority types.Priority
	Due      DueFunc
}

// Matches reports whether the normalized text triggers the rule.
func (r Rule) Matches(text string) bool {
	return r.Keyword != "" && strings.Contains(text, r.Keyword)
}

// DefaultRules returns the built-in rule table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "report",
			Keyword:  "report",
			Task:     "Prepare report",
			Priority: types.PriorityHigh,
			Due:      DueNextFriday,
		},
		{
			Name:     "training",
			Keyword:  "training",
			Task:     "Complete mandatory training",
			Priority: types.PriorityHigh,
			Due:      DueDeadline,
		},
	}
}

// DueNextFriday resolves "next friday" when the phrase is present.
func DueNextFriday(text string, inf *dates.Inferrer) *string {
	if !strings.Contains(text, dates.NextFridayPhrase) {
		return nil
	}
	return types.DueOn(inf.NextFriday())
}

// DueDeadline resolves a "by/before <word> <day>" phrase when present.
func DueDeadline(text string, inf *dates.Inferrer) *string {
	due, ok := inf.Deadline(text)
	if !ok {
		return nil
	}
	return types.DueOn(due)
}

// Extractor applies a rule table to emails.
type Extractor struct {
	rules  []Rule
	dates  *dates.Inferrer
	logger *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock fixes the reference date used for relative due dates.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.dates = dates.NewInferrer(now)
	}
}

// WithRules appends rules after the existing table.
func WithRules(rules ...Rule) Option {
	return func(e *Extractor) {
		e.rules = append(e.rules, rules...)
	}
}

// WithLogger sets the logger used for rule failures.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Extractor with the default rules and the system clock.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		rules:  DefaultRules(),
		dates:  dates.NewInferrer(nil),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract summarizes the email and collects the tasks of every matching rule.
// It never fails; the task list is empty, not nil, when nothing matches.
func (e *Extractor) Extract(email types.EmailRecord) types.Extraction {
	text := Normalize(email)

	tasks := make([]types.TaskItem, 0, len(e.rules))
	for _, rule := range e.rules {
		if !rule.Matches(text) {
			continue
		}
		tasks = append(tasks, types.TaskItem{
			Task:     rule.Task,
			Priority: rule.Priority,
			Due:      e.resolveDue(email, rule, text),
		})
	}

	return types.Extraction{
		Summary: Summarize(text),
		Tasks:   tasks,
	}
}

// resolveDue runs the rule's due resolver, isolating any panic to this task.
func (e *Extractor) resolveDue(email types.EmailRecord, rule Rule, text string) (due *string) {
	if rule.Due == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("due date resolution failed",
				zap.Int("email_id", email.ID),
				zap.String("rule", rule.Name),
				zap.Any("panic", r))
			due = nil
		}
	}()
	return rule.Due(text, e.dates)
}

// Normalize joins subject and body with a space and lower-cases the result.
// HTML bodies are reduced to text first.
func Normalize(email types.EmailRecord) string {
	return strings.ToLower(email.Subject + " " + PlainBody(email.Body))
}

// Summarize keeps the first SummaryLimit characters of text, appending
// Ellipsis when anything was cut.
func Summarize(text string) string {
	runes := []rune(text)
	if len(runes) <= SummaryLimit {
		return text
	}
	return string(runes[:SummaryLimit]) + Ellipsis
}
