// Package batch drives one pass over the email table.
package batch

import (
	"context"
	"time"

	"mailtriage/internal/extract"
	"mailtriage/internal/metrics"
	"mailtriage/internal/perception"
	"mailtriage/internal/reconcile"
	"mailtriage/internal/types"

	"go.uber.org/zap"
)

// Options is fixed for the lifetime of a Runner.
type Options struct {
	// RemoteAvailable selects the model path. It is decided once at startup.
	RemoteAvailable bool
	// CallTimeout bounds each remote call. Zero leaves the client's own timeout.
	CallTimeout time.Duration
}

// Runner processes emails sequentially, one blocking remote call at a time.
type Runner struct {
	opts       Options
	client     types.LLMClient
	rules      types.Extractor
	reconciler *reconcile.Reconciler
	recorder   *metrics.Recorder
	logger     *zap.Logger
}

// New creates a Runner. client may be nil when RemoteAvailable is false;
// reconciler, recorder and logger default when nil.
func New(opts Options, client types.LLMClient, rules types.Extractor, reconciler *reconcile.Reconciler, recorder *metrics.Recorder, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RemoteAvailable && client == nil {
		logger.Warn("remote path requested without a client, using rules only")
		opts.RemoteAvailable = false
	}
	if rules == nil {
		rules = extract.New(extract.WithLogger(logger))
	}
	if reconciler == nil {
		reconciler = reconcile.New(rules, logger)
	}
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	return &Runner{
		opts:       opts,
		client:     client,
		rules:      rules,
		reconciler: reconciler,
		recorder:   recorder,
		logger:     logger,
	}
}

// Run processes every email in input order. Cancellation is checked between
// emails; on cancellation the results so far are returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, emails []types.EmailRecord) ([]types.EmailResult, error) {
	start := time.Now()
	results := make([]types.EmailResult, 0, len(emails))

	r.logger.Info("batch started",
		zap.Int("emails", len(emails)),
		zap.Bool("remote", r.opts.RemoteAvailable))

	for _, email := range emails {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("batch cancelled",
				zap.Int("processed", len(results)),
				zap.Int("remaining", len(emails)-len(results)),
				zap.Error(err))
			return results, err
		}
		results = append(results, r.Process(ctx, email))
	}

	s := r.recorder.Snapshot()
	r.logger.Info("batch finished",
		zap.Int("emails", s.Emails),
		zap.Int("remote_replies", s.RemoteReplies),
		zap.Int("absent_replies", s.AbsentReplies),
		zap.Int("rule_fallbacks", s.RuleFallbacks),
		zap.Int("tasks", s.Tasks),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}

// Process resolves a single email. It never fails.
func (r *Runner) Process(ctx context.Context, email types.EmailRecord) types.EmailResult {
	var (
		ex   types.Extraction
		path = metrics.PathRules
	)

	if r.opts.RemoteAvailable {
		reply := r.ask(ctx, email)
		out := r.reconciler.ReconcileOutcome(email, reply)
		if reply.Present {
			r.recorder.ObserveShape(out.Shape.String())
		}
		ex = out.Extraction
		if !out.Fallback {
			path = metrics.PathRemote
		}
	} else {
		ex = r.rules.Extract(email)
	}

	res := types.NewEmailResult(email, ex)
	r.recorder.ObserveEmail(path, priorities(res.Tasks))
	r.logger.Debug("email processed",
		zap.Int("email_id", email.ID),
		zap.String("path", path),
		zap.Int("tasks", len(res.Tasks)))
	return res
}

// ask performs the remote call and maps any failure to the absence signal.
func (r *Runner) ask(ctx context.Context, email types.EmailRecord) types.Reply {
	if r.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.CallTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := r.client.Complete(ctx, perception.BuildPrompt(email))
	r.recorder.ObserveCall(time.Since(start), err)
	if err != nil {
		r.logger.Warn("remote call failed, falling back to rules",
			zap.Int("email_id", email.ID),
			zap.Error(err))
		return types.NoReply()
	}

	return types.ReplyText(text)
}

// Stats returns the run totals so far.
func (r *Runner) Stats() metrics.Stats {
	return r.recorder.Snapshot()
}

func priorities(tasks []types.TaskItem) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = string(t.Priority)
	}
	return out
}
