package formatter

import (
	"fmt"

	"github.com/simartin/geoleaderboard/internal/dataset"
	"github.com/simartin/geoleaderboard/internal/leaderboard"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook
const (
	LeaderboardSheet = "Leaderboard"
	SummarySheet     = "Summary"
)

// xlsxFormatter writes an Excel workbook with hyperlinked usernames
type xlsxFormatter struct{}

// NewXLSX creates a new XLSX formatter
func NewXLSX() Formatter {
	return &xlsxFormatter{}
}

func (f *xlsxFormatter) Format(report *Report) (data []byte, err error) {
	file := excelize.NewFile()
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := file.SetSheetName("Sheet1", LeaderboardSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := f.writeLeaderboard(file, report); err != nil {
		return nil, err
	}
	if err := f.writeSummary(file, report); err != nil {
		return nil, err
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *xlsxFormatter) writeLeaderboard(file *excelize.File, report *Report) error {
	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	link, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "1265BE", Underline: "single"}})
	if err != nil {
		return fmt.Errorf("failed to create link style: %w", err)
	}

	for col, c := range report.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(LeaderboardSheet, cell, report.headerLabel(c.Label)); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := file.SetCellStyle(LeaderboardSheet, cell, cell, bold); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, row := range report.Rows {
		line := i + 2
		for col := range report.Columns {
			if col >= len(row.Cells) || row.Cells[col].Absent {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, line)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(LeaderboardSheet, cell, cellValue(row.Cells[col].Value)); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
			if col == leaderboard.IdentityColumn && row.ProfileLink() != "" {
				if err := file.SetCellHyperLink(LeaderboardSheet, cell, row.ProfileLink(), "External"); err != nil {
					return fmt.Errorf("failed to link %s: %w", cell, err)
				}
				if err := file.SetCellStyle(LeaderboardSheet, cell, cell, link); err != nil {
					return fmt.Errorf("failed to style %s: %w", cell, err)
				}
			}
		}
	}

	return file.SetPanes(LeaderboardSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (f *xlsxFormatter) writeSummary(file *excelize.File, report *Report) error {
	if _, err := file.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Total Players on Leaderboard", report.Summary.TotalRows},
		{"Data Updated", updatedText(report.Summary.UpdatedAt)},
		{"Released", report.Released},
	}
	if report.Query != "" {
		rows = append(rows, []interface{}{"Search", report.Query})
	}
	if report.Indicator != nil {
		rows = append(rows, []interface{}{"Sorted by", report.Indicator.Label + " " + report.Indicator.Direction.String()})
	}

	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}

// cellValue keeps numbers numeric in the workbook
func cellValue(v dataset.Value) interface{} {
	switch v.Kind {
	case dataset.KindNumber:
		return v.Number
	case dataset.KindBool:
		return v.Bool
	case dataset.KindNull:
		return ""
	default:
		return v.Raw
	}
}
