package mailio

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mailtriage/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmails(t *testing.T) {
	in := "id,from,subject,date,body\n" +
		"7,a@example.com,Status,2025-11-04,\"Line one, with comma\nline two\"\n"

	emails, err := DecodeEmails(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, 7, emails[0].ID)
	assert.Equal(t, "Line one, with comma\nline two", emails[0].Body)
}

func TestDecodeEmails_BadID(t *testing.T) {
	_, err := DecodeEmails(strings.NewReader("id,from,subject,date,body\nseven,a,b,c,d\n"))
	assert.Error(t, err)
}

func TestEncodeResults_DoubleEncodesTasks(t *testing.T) {
	results := []types.EmailResult{
		{ID: 1, Summary: "Summary.", Tasks: []types.TaskItem{{Task: "Do X", Priority: types.PriorityLow}}},
		{ID: 2, Summary: "nothing", Tasks: []types.TaskItem{}},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeResults(&buf, results))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "summary", "tasks"}, records[0])
	assert.Equal(t, []string{"1", "Summary.", `[{"task":"Do X","priority":"Low","due":null}]`}, records[1])
	assert.Equal(t, []string{"2", "nothing", "[]"}, records[2])
}

func TestWriteAndReadResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	due := types.DueOn("2025-11-20")
	want := []types.EmailResult{
		{ID: 2, Summary: "complete mandatory training", Tasks: []types.TaskItem{
			{Task: "Complete mandatory training", Priority: types.PriorityHigh, Due: due},
		}},
		{ID: 3, Summary: "weekend plans", Tasks: []types.TaskItem{}},
	}

	require.NoError(t, WriteResults(path, want))

	got, err := ReadResults(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureInput_CreatesSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.csv")

	created, err := EnsureInput(path, nil)
	require.NoError(t, err)
	assert.True(t, created)

	emails, err := ReadEmails(path)
	require.NoError(t, err)
	if diff := cmp.Diff(SampleEmails(), emails); diff != "" {
		t.Errorf("sample mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureInput_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.csv")
	content := "id,from,subject,date,body\n9,x@example.com,Hi,2025-01-01,hello\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	created, err := EnsureInput(path, nil)
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestReadEmails_Missing(t *testing.T) {
	_, err := ReadEmails(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
