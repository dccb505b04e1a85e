package main

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	exportRecordsSheet = "Pending"
	exportHistorySheet = "History"
)

// ExportWorkbook writes the session's pending records, with a totals row,
// and its confirmation history to an xlsx file.
func ExportWorkbook(path string, s Session) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportRecordsSheet); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	headers := []any{"Row", "Date", "Shift", "Hours", "Night 25%", "Day 25%", "Night 50%", "Ext 75%", "Hol 100%", "Reviewer", "Remarks"}
	if err := f.SetSheetRow(exportRecordsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	for i, r := range s.Records {
		row := []any{
			int(r.Row),
			FormatDate(r.Date),
			r.Shift,
			float64(r.TotalHours),
			float64(r.Night25),
			float64(r.Day25),
			float64(r.Night50),
			float64(r.Extended75),
			float64(r.Holiday100),
			r.Reviewer,
			r.Remarks,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportRecordsSheet, cell, &row); err != nil {
			return fmt.Errorf("error writing record %d: %w", i+1, err)
		}
	}

	summary := Summarize(s.Records)
	totalCell, err := excelize.CoordinatesToCellName(1, len(s.Records)+2)
	if err != nil {
		return err
	}
	totals := []any{"Total", summary.Count, "", summary.TotalHours}
	if err := f.SetSheetRow(exportRecordsSheet, totalCell, &totals); err != nil {
		return fmt.Errorf("error writing totals: %w", err)
	}

	if s.Employee != nil || s.Identity != "" {
		name := ""
		if s.Employee != nil {
			name = s.Employee.Name
		}
		if err := f.SetDocProps(&excelize.DocProperties{
			Title:   fmt.Sprintf("Pending records %s", s.Identity),
			Subject: name,
			Creator: "timeconfirm",
		}); err != nil {
			return fmt.Errorf("error writing properties: %w", err)
		}
	}

	if len(s.History) > 0 {
		if _, err := f.NewSheet(exportHistorySheet); err != nil {
			return fmt.Errorf("error creating history sheet: %w", err)
		}
		head := []any{"Confirmed at", "Records"}
		if err := f.SetSheetRow(exportHistorySheet, "A1", &head); err != nil {
			return fmt.Errorf("error writing history header: %w", err)
		}
		for i, h := range s.History {
			row := []any{FormatHistoryTime(h.Timestamp), h.Count}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(exportHistorySheet, cell, &row); err != nil {
				return fmt.Errorf("error writing history %d: %w", i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving %s: %w", path, err)
	}
	return nil
}
