// Package mailio reads the email table and writes the results table.
package mailio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mailtriage/internal/types"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

// OutputRow is one line of the results table. Tasks holds the task list as
// a JSON string inside the CSV cell.
type OutputRow struct {
	ID      int    `csv:"id"`
	Summary string `csv:"summary"`
	Tasks   string `csv:"tasks"`
}

// DecodeEmails parses an email table with header id,from,subject,date,body.
func DecodeEmails(r io.Reader) ([]types.EmailRecord, error) {
	var rows []*types.EmailRecord
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse email table: %w", err)
	}

	emails := make([]types.EmailRecord, 0, len(rows))
	for _, row := range rows {
		emails = append(emails, *row)
	}
	return emails, nil
}

// ReadEmails loads the email table from path.
func ReadEmails(path string) ([]types.EmailRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	emails, err := DecodeEmails(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return emails, nil
}

// Rows converts results to output rows, encoding each task list as JSON.
func Rows(results []types.EmailResult) ([]*OutputRow, error) {
	rows := make([]*OutputRow, 0, len(results))
	for _, res := range results {
		tasks, err := types.EncodeTasks(res.Tasks)
		if err != nil {
			return nil, fmt.Errorf("email %d: failed to encode tasks: %w", res.ID, err)
		}
		rows = append(rows, &OutputRow{ID: res.ID, Summary: res.Summary, Tasks: tasks})
	}
	return rows, nil
}

// EncodeResults writes the results table with header id,summary,tasks.
func EncodeResults(w io.Writer, results []types.EmailResult) error {
	rows, err := Rows(results)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write results table: %w", err)
	}
	return nil
}

// WriteResults writes the results table to path, replacing any existing file.
func WriteResults(path string, results []types.EmailResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := EncodeResults(f, results); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

// ReadResults loads a results table, decoding the tasks column.
func ReadResults(path string) ([]types.EmailResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results: %w", err)
	}
	defer f.Close()

	var rows []*OutputRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse results table: %w", err)
	}

	results := make([]types.EmailResult, 0, len(rows))
	for _, row := range rows {
		tasks, err := types.DecodeTasks(row.Tasks)
		if err != nil {
			return nil, fmt.Errorf("email %d: %w", row.ID, err)
		}
		results = append(results, types.EmailResult{ID: row.ID, Summary: row.Summary, Tasks: tasks})
	}
	return results, nil
}

// EnsureInput writes the sample table to path when no file exists there.
// created reports whether the samples were written.
func EnsureInput(path string, logger *zap.Logger) (created bool, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat input: %w", err)
	}

	if err := WriteSample(path); err != nil {
		return false, err
	}
	logger.Info("saved sample emails", zap.String("path", path), zap.Int("emails", len(SampleEmails())))
	return true, nil
}
