package reconcile

import (
	"testing"
	"time"

	"mailtriage/internal/extract"
	"mailtriage/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingExtractor records fallback calls.
type countingExtractor struct {
	calls int
	out   types.Extraction
}

func (c *countingExtractor) Extract(types.EmailRecord) types.Extraction {
	c.calls++
	return c.out
}

func newCounting() *countingExtractor {
	return &countingExtractor{out: types.Extraction{
		Summary: "rules summary",
		Tasks:   []types.TaskItem{{Task: "Rule task", Priority: types.PriorityHigh}},
	}}
}

var email = types.EmailRecord{ID: 1, Subject: "Please prepare Q3 report", Body: "by next Friday"}

func TestReconcile_ArrayReply(t *testing.T) {
	fb := newCounting()
	r := New(fb, nil)

	got := r.Reconcile(email, types.ReplyText("Summary.\n[{\"task\":\"Do X\",\"priority\":\"Low\",\"due\":null}]"))

	want := types.Extraction{
		Summary: "Summary.",
		Tasks:   []types.TaskItem{{Task: "Do X", Priority: types.PriorityLow, Due: nil}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("extraction mismatch (-want +got):\n%s", diff)
	}
	assert.Zero(t, fb.calls)
}

func TestReconcile_PlainProse(t *testing.T) {
	fb := newCounting()
	r := New(fb, nil)

	prose := "The sender asks for the Q3 report.\nNo structured output available."
	out := r.ReconcileOutcome(email, types.ReplyText(prose))

	// No JSON-like span at all: rules take over.
	assert.True(t, out.Fallback)
	assert.Equal(t, ShapeNone, out.Shape)
	assert.Equal(t, 1, fb.calls)
	assert.Equal(t, "rules summary", out.Summary)
}

func TestReconcile_ObjectReply(t *testing.T) {
	r := New(newCounting(), nil)

	got := r.Reconcile(email, types.ReplyText(`{"summary":"Prepare the Q3 report.","tasks":[{"task":"Prepare report","priority":"High","due":"2025-11-07"}]}`))

	assert.Equal(t, "Prepare the Q3 report.", got.Summary)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "2025-11-07", types.DueString(got.Tasks[0].Due))
}

func TestReconcile_ObjectWithoutSummaryUsesFirstLine(t *testing.T) {
	r := New(newCounting(), nil)

	got := r.Reconcile(email, types.ReplyText("Manager wants a report.\n{\"tasks\":[{\"task\":\"Prepare report\",\"priority\":\"High\"}]}"))

	assert.Equal(t, "Manager wants a report.", got.Summary)
	require.Len(t, got.Tasks, 1)
}

func TestReconcile_OtherJSONKeepsProse(t *testing.T) {
	fb := newCounting()
	r := New(fb, nil)

	reply := "Summary line.\n{\"note\":\"nothing to do\"}"
	out := r.ReconcileOutcome(email, types.ReplyText(reply))

	assert.Equal(t, ShapeOther, out.Shape)
	assert.Equal(t, reply, out.Summary)
	assert.NotNil(t, out.Tasks)
	assert.Empty(t, out.Tasks)
	assert.Zero(t, fb.calls)
}

func TestReconcile_MalformedKeepsProse(t *testing.T) {
	fb := newCounting()
	r := New(fb, nil)

	reply := "Summary line.\n[{\"task\": \"Do X\", }"
	out := r.ReconcileOutcome(email, types.ReplyText(reply))

	assert.Equal(t, ShapeMalformed, out.Shape)
	assert.Equal(t, reply, out.Summary)
	assert.Empty(t, out.Tasks)
	assert.Zero(t, fb.calls)
}

func TestReconcile_BrokenObjectDoesNotLeakInnerTasks(t *testing.T) {
	fb := newCounting()
	r := New(fb, nil)

	reply := "Summary line.\n{\"summary\": \"S\", \"tasks\": [{\"task\":\"A\",\"priority\":\"High\"}],}"
	out := r.ReconcileOutcome(email, types.ReplyText(reply))

	assert.Equal(t, ShapeMalformed, out.Shape)
	assert.Equal(t, reply, out.Summary)
	assert.NotNil(t, out.Tasks)
	assert.Empty(t, out.Tasks)
	assert.Zero(t, fb.calls)
}

func TestReconcile_ObjectWithNonArrayTasksKeepsSummary(t *testing.T) {
	r := New(newCounting(), nil)

	out := r.ReconcileOutcome(email, types.ReplyText("Intro.\n{\"summary\":\"Nothing to do.\",\"tasks\":null}"))

	assert.Equal(t, ShapeObject, out.Shape)
	assert.Equal(t, "Nothing to do.", out.Summary)
	assert.NotNil(t, out.Tasks)
	assert.Empty(t, out.Tasks)
}

func TestReconcile_NoReplyEqualsRules(t *testing.T) {
	wed := time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)
	rules := extract.New(extract.WithClock(func() time.Time { return wed }))
	r := New(rules, nil)

	got := r.Reconcile(email, types.NoReply())

	if diff := cmp.Diff(rules.Extract(email), got); diff != "" {
		t.Errorf("no-reply result differs from rules (-rules +got):\n%s", diff)
	}
}

func TestReconcile_InvalidTaskEntriesDropped(t *testing.T) {
	r := New(newCounting(), nil)

	got := r.Reconcile(email, types.ReplyText(`Sum.
[{"task":"Keep","priority":"bogus"}, "string item", {"priority":"High"}]`))

	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "Keep", got.Tasks[0].Task)
	assert.Equal(t, types.PriorityMedium, got.Tasks[0].Priority)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "a", FirstLine("a\nb\nc"))
	assert.Equal(t, "single", FirstLine("single"))
	assert.Equal(t, "", FirstLine("\nlead"))
}
