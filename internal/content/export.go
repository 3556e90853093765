package content

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Catalog"

var exportHeader = []any{
	"ID", "Title", "Description", "Subject", "Game Type",
	"Difficulty", "Grade", "Age Group", "Points", "Minutes",
}

// WriteXLSX writes items as a single-sheet spreadsheet, one row per item.
func WriteXLSX(w io.Writer, items []Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, it := range items {
		var grade any
		if it.GradeLevel.Known() {
			grade = int(it.GradeLevel)
		}
		row := []any{
			it.ID, it.Title, it.Description, it.Subject, it.GameType,
			string(it.Difficulty), grade, it.AgeGroup, it.PointsReward, it.EstimatedTime,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing spreadsheet: %w", err)
	}
	return nil
}
