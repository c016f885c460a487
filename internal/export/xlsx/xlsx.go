// Package xlsx renders the dues report as a spreadsheet.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"aidat/internal/export"
)

const sheetName = "Aidat"

// Render writes the report as an .xlsx workbook with one sheet. Amounts
// go in as numeric cells so the recipient can keep calculating on them.
func Render(w io.Writer, rep export.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range export.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, row := range rep.Rows {
		values := []any{
			row.FlatNo,
			row.FullName,
			row.Fee.Lira(),
			row.Paid.Lira(),
			row.Remaining.Lira(),
			row.Note,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i, err)
			}
		}
	}

	totalsRow := len(rep.Rows) + 2
	totals := []any{
		"Toplam",
		"",
		rep.TotalMonthly.Lira(),
		rep.TotalPaid.Lira(),
		rep.TotalRemaining.Lira(),
		"",
	}
	for col, v := range totals {
		cell, err := excelize.CoordinatesToCellName(col+1, totalsRow)
		if err != nil {
			return fmt.Errorf("totals cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("write totals: %w", err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 10); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "F", 20); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
