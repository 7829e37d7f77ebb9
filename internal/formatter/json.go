package formatter

import (
	"encoding/json"

	"github.com/simartin/geoleaderboard/internal/leaderboard"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	Summary leaderboard.Summary `json:"summary"`
	View    ViewOutput          `json:"view"`
	Columns []string            `json:"columns"`
	Players []PlayerOutput      `json:"players"`
}

// ViewOutput describes the display state the rows were taken from
type ViewOutput struct {
	Released  int    `json:"released"`
	Query     string `json:"query,omitempty"`
	SortedBy  string `json:"sorted_by,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// PlayerOutput is one leaderboard row. Values keep their inferred type.
type PlayerOutput struct {
	ID      string                 `json:"id,omitempty"`
	Profile string                 `json:"profile,omitempty"`
	Values  map[string]interface{} `json:"values"`
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	output := &JSONOutput{
		Summary: report.Summary,
		View: ViewOutput{
			Released: report.Released,
			Query:    report.Query,
		},
		Columns: leaderboard.Labels(report.Columns),
		Players: createPlayerOutputs(report),
	}
	if report.Indicator != nil {
		output.View.SortedBy = report.Indicator.Label
		output.View.Direction = report.Indicator.Direction.String()
	}

	return json.MarshalIndent(output, "", "  ")
}

// createPlayerOutputs converts rows keyed by column label
func createPlayerOutputs(report *Report) []PlayerOutput {
	outputs := make([]PlayerOutput, 0, len(report.Rows))

	for _, row := range report.Rows {
		values := make(map[string]interface{}, len(report.Columns))
		for i, c := range report.Columns {
			if i >= len(row.Cells) || row.Cells[i].Absent {
				values[c.Label] = nil
				continue
			}
			values[c.Label] = row.Cells[i].Value.Interface()
		}

		outputs = append(outputs, PlayerOutput{
			ID:      row.ID,
			Profile: row.ProfileLink(),
			Values:  values,
		})
	}

	return outputs
}
