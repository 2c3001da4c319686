// Package metrics counts what happened during a batch run.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Path labels for how an email was resolved.
const (
	PathRemote = "remote"
	PathRules  = "rules"
)

// Stats is a plain snapshot of one run.
type Stats struct {
	Emails        int
	RemoteReplies int
	AbsentReplies int
	RuleFallbacks int
	Tasks         int
	Shapes        map[string]int
}

// Recorder holds the Prometheus collectors for one run. Each Recorder owns
// its registry, so tests and repeated runs never collide on registration.
type Recorder struct {
	registry *prometheus.Registry

	EmailsTotal        prometheus.Counter
	RemoteCallsTotal   *prometheus.CounterVec
	RemoteCallDuration prometheus.Histogram
	ReplyShapesTotal   *prometheus.CounterVec
	EmailsByPathTotal  *prometheus.CounterVec
	TasksTotal         *prometheus.CounterVec

	mu    sync.Mutex
	stats Stats
}

// NewRecorder creates and registers the mailtriage collectors.
//
// Metrics:
//   - mailtriage_emails_total - Emails processed
//   - mailtriage_remote_calls_total{outcome} - Remote calls by outcome (reply, error)
//   - mailtriage_remote_call_duration_seconds - Remote call latency
//   - mailtriage_reply_shapes_total{shape} - Model replies by recovered JSON shape
//   - mailtriage_emails_by_path_total{path} - Emails resolved by remote or rules
//   - mailtriage_tasks_total{priority} - Tasks emitted
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		EmailsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "mailtriage_emails_total",
			Help: "Total number of emails processed",
		}),
		RemoteCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mailtriage_remote_calls_total",
			Help: "Total number of remote generation calls",
		}, []string{"outcome"}),
		RemoteCallDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mailtriage_remote_call_duration_seconds",
			Help:    "Remote generation call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}),
		ReplyShapesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mailtriage_reply_shapes_total",
			Help: "Model replies by the shape of their JSON content",
		}, []string{"shape"}),
		EmailsByPathTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mailtriage_emails_by_path_total",
			Help: "Emails resolved by remote reply or rule extraction",
		}, []string{"path"}),
		TasksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mailtriage_tasks_total",
			Help: "Total number of tasks emitted",
		}, []string{"priority"}),
		stats: Stats{Shapes: map[string]int{}},
	}
}

// Registry exposes the recorder's registry as a Gatherer.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveCall records one remote call.
func (r *Recorder) ObserveCall(elapsed time.Duration, err error) {
	outcome := "reply"
	if err != nil {
		outcome = "error"
	}
	r.RemoteCallsTotal.WithLabelValues(outcome).Inc()
	r.RemoteCallDuration.Observe(elapsed.Seconds())

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.stats.AbsentReplies++
	} else {
		r.stats.RemoteReplies++
	}
}

// ObserveShape records the JSON shape found in a present reply.
func (r *Recorder) ObserveShape(shape string) {
	r.ReplyShapesTotal.WithLabelValues(shape).Inc()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Shapes[shape]++
}

// ObserveEmail records one finished email.
func (r *Recorder) ObserveEmail(path string, priorities []string) {
	r.EmailsTotal.Inc()
	r.EmailsByPathTotal.WithLabelValues(path).Inc()
	for _, p := range priorities {
		r.TasksTotal.WithLabelValues(p).Inc()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Emails++
	r.stats.Tasks += len(priorities)
	if path == PathRules {
		r.stats.RuleFallbacks++
	}
}

// Snapshot returns a copy of the run totals.
func (r *Recorder) Snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.stats
	s.Shapes = make(map[string]int, len(r.stats.Shapes))
	for k, v := range r.stats.Shapes {
		s.Shapes[k] = v
	}
	return s
}

// WriteTextfile dumps the registry in the text exposition format, for
// node_exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
