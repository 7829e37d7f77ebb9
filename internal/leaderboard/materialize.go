package leaderboard

import (
	"fmt"
	"strings"

	"github.com/simartin/geoleaderboard/internal/dataset"
	"github.com/simartin/geoleaderboard/internal/logger"
)

// Summary is shown once when a snapshot finishes loading
type Summary struct {
	TotalRows int    `json:"total_rows"`
	UpdatedAt string `json:"updated_at"`
}

// Snapshot is the result of materializing one payload
type Snapshot struct {
	Columns []Column
	Rows    []*Row
	Summary Summary
	Missing []*HeaderMissingError
}

// MaterializerOptions configures a Materializer
type MaterializerOptions struct {
	Columns    []Column
	ProfileURL string
	Logger     *logger.Logger
}

// Materializer projects parsed records onto the display columns
type Materializer struct {
	columns    []Column
	profileURL string
	log        *logger.Logger
}

// NewMaterializer creates a materializer; zero options select the default
// projection and profile page.
func NewMaterializer(opts MaterializerOptions) *Materializer {
	columns := opts.Columns
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	profileURL := opts.ProfileURL
	if profileURL == "" {
		profileURL = DefaultProfileURL
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Materializer{
		columns:    columns,
		profileURL: profileURL,
		log:        log.WithComponent("materialize"),
	}
}

// Columns returns the projection
func (m *Materializer) Columns() []Column {
	return m.columns
}

// Build parses a CSV payload and materializes it
func (m *Materializer) Build(text string) (*Snapshot, error) {
	table, err := dataset.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if table.RaggedRows > 0 {
		m.log.Debug("%d records had a field count different from the header", table.RaggedRows)
	}
	return m.Materialize(table), nil
}

// Materialize produces one row per record, in input order. Projected fields
// missing from the header are reported once each and left blank.
func (m *Materializer) Materialize(table *dataset.Table) *Snapshot {
	// header names are trimmed before lookup; the record keys are not
	keys := make(map[string]string, len(table.Fields))
	for _, field := range table.Fields {
		trimmed := strings.TrimSpace(field)
		if _, dup := keys[trimmed]; !dup {
			keys[trimmed] = field
		}
	}

	snap := &Snapshot{
		Columns: m.columns,
		Rows:    make([]*Row, 0, len(table.Records)),
	}

	resolved := make([]string, len(m.columns))
	present := make([]bool, len(m.columns))
	for i, col := range m.columns {
		key, ok := keys[col.Key]
		if !ok {
			missing := &HeaderMissingError{Field: col.Key, Label: col.Label}
			snap.Missing = append(snap.Missing, missing)
			m.log.Error("%s", missing.Error())
			continue
		}
		resolved[i] = key
		present[i] = true
	}

	idKey, hasID := keys[FieldID]
	timeKey, hasTime := keys[FieldCurrentTime]

	for pos, record := range table.Records {
		var id string
		if hasID {
			v, _ := record.Get(idKey)
			id = v.String()
		}

		cells := make([]Cell, len(m.columns))
		for i := range m.columns {
			if !present[i] {
				cells[i] = Cell{Absent: true}
				continue
			}
			v, _ := record.Get(resolved[i])
			cells[i] = Cell{Text: v.String(), Value: v}
			if i == IdentityColumn {
				cells[i].Link = ProfileLink(m.profileURL, v.String(), id)
			}
		}

		snap.Rows = append(snap.Rows, newRow(pos, id, cells))
	}

	snap.Summary.TotalRows = len(snap.Rows)
	if len(table.Records) > 0 {
		if hasTime {
			v, _ := table.Records[0].Get(timeKey)
			snap.Summary.UpdatedAt = strings.TrimSpace(v.String())
		} else {
			m.log.Warn("snapshot has no %s field; freshness unknown", FieldCurrentTime)
		}
	}

	m.log.InfoWithFields("materialized snapshot", []logger.Field{
		logger.Count(len(snap.Rows)),
		logger.F("missing_headers", len(snap.Missing)),
	})
	return snap
}
