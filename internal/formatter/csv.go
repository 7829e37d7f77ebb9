package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// csvFormatter formats rows as CSV
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(report *Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	headers := make([]string, 0, len(report.Columns)+2)
	for _, c := range report.Columns {
		headers = append(headers, c.Label)
	}
	headers = append(headers, "ID", "Profile")

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range report.Rows {
		record := make([]string, 0, len(headers))
		for i := range report.Columns {
			record = append(record, row.Text(i))
		}
		record = append(record, row.ID, row.ProfileLink())

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}
