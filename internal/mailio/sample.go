package mailio

import (
	"fmt"
	"os"

	"mailtriage/internal/types"

	"github.com/gocarina/gocsv"
)

// SampleEmails returns the demo inbox written when no input exists.
func SampleEmails() []types.EmailRecord {
	return []types.EmailRecord{
		{
			ID:      1,
			From:    "manager@example.com",
			Subject: "Please prepare Q3 report",
			Date:    "2025-11-01",
			Body:    "Hi Aryan, Can you prepare the Q3 sales report by next Friday? Also include the new region's metrics. Let's sync on Monday. Thanks!",
		},
		{
			ID:      2,
			From:    "hr@example.com",
			Subject: "Complete mandatory training",
			Date:    "2025-11-02",
			Body:    "Dear team, Please complete the mandatory security training before Nov 20. Certificates will be uploaded to the portal.",
		},
		{
			ID:      3,
			From:    "friend@example.com",
			Subject: "Weekend plans",
			Date:    "2025-11-03",
			Body:    "Hey! Want to go hiking this Saturday?",
		},
	}
}

// WriteSample writes SampleEmails to path as an email table.
func WriteSample(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sample input: %w", err)
	}

	samples := SampleEmails()
	rows := make([]*types.EmailRecord, len(samples))
	for i := range samples {
		rows[i] = &samples[i]
	}

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write sample input: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close sample input: %w", err)
	}
	return nil
}
