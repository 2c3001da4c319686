// Package reconcile turns a free-form model reply into the task schema,
// falling back to rule extraction when the reply is missing or has no JSON.
package reconcile

import (
	"strings"

	"mailtriage/internal/types"

	"go.uber.org/zap"
)

// Reconciler merges model replies with the rule-based fallback.
type Reconciler struct {
	fallback types.Extractor
	logger   *zap.Logger
}

// New creates a Reconciler. fallback is required.
func New(fallback types.Extractor, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{fallback: fallback, logger: logger}
}

// Outcome is a reconciled extraction plus how it was reached.
type Outcome struct {
	types.Extraction
	Shape    Shape
	Fallback bool
}

// Reconcile resolves one email. It never fails.
func (r *Reconciler) Reconcile(email types.EmailRecord, reply types.Reply) types.Extraction {
	return r.ReconcileOutcome(email, reply).Extraction
}

// ReconcileOutcome is Reconcile with the decision exposed for logging and metrics.
func (r *Reconciler) ReconcileOutcome(email types.EmailRecord, reply types.Reply) Outcome {
	if !reply.Present {
		r.logger.Debug("no model reply, using rules", zap.Int("email_id", email.ID))
		return Outcome{Extraction: r.fallback.Extract(email), Shape: ShapeNone, Fallback: true}
	}

	d := Decode(reply.Text)
	log := r.logger.With(zap.Int("email_id", email.ID), zap.Stringer("shape", d.Shape))

	switch d.Shape {
	case ShapeNone:
		log.Debug("model reply has no JSON, using rules")
		return Outcome{Extraction: r.fallback.Extract(email), Shape: d.Shape, Fallback: true}

	case ShapeArray:
		log.Debug("model reply carried a task array", zap.Int("tasks", len(d.Tasks)))
		return Outcome{
			Extraction: types.Extraction{Summary: FirstLine(reply.Text), Tasks: d.Tasks},
			Shape:      d.Shape,
		}

	case ShapeObject:
		summary := FirstLine(reply.Text)
		if d.Summary != nil {
			summary = *d.Summary
		}
		log.Debug("model reply carried a task object", zap.Int("tasks", len(d.Tasks)))
		return Outcome{
			Extraction: types.Extraction{Summary: summary, Tasks: d.Tasks},
			Shape:      d.Shape,
		}

	default:
		// ShapeOther and ShapeMalformed keep the model's prose.
		log.Debug("model reply JSON unusable, keeping prose")
		return Outcome{
			Extraction: types.Extraction{Summary: reply.Text, Tasks: []types.TaskItem{}},
			Shape:      d.Shape,
		}
	}
}

// FirstLine returns text up to the first newline.
func FirstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}
