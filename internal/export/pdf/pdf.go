// Package pdf renders the dues report as a PDF document.
package pdf

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"aidat/internal/core"
	"aidat/internal/export"
)

// cp1254.map is copied verbatim from go-pdf/fpdf's font directory; the
// library embeds only cp1250/cp1252 and otherwise reads the map from the
// font directory on disk, which this package cannot rely on at runtime.
//
//go:embed cp1254.map
var cp1254Map string

// Column widths in mm; together they fill the printable width of an A4
// portrait page.
var colWidths = [6]float64{20, 50, 25, 25, 25, 45}

// Render writes the report as a PDF table. Text goes through the cp1254
// translator so Turkish glyphs survive the core fonts; amounts are
// suffixed "TL" since the lira sign is outside cp1254.
func Render(w io.Writer, rep export.Report) error {
	doc := fpdf.New("P", "mm", "A4", "")
	tr, err := fpdf.UnicodeTranslator(strings.NewReader(cp1254Map))
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, tr("Apartman Aidat Raporu"))
	doc.Ln(10)
	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 8, tr("Ay: "+rep.MonthLabel))
	doc.Ln(12)

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 230, 230)
	for i, h := range export.Headers {
		doc.CellFormat(colWidths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for _, row := range rep.Rows {
		cells := [6]string{
			row.FlatNo,
			row.FullName,
			money(row.Fee),
			money(row.Paid),
			money(row.Remaining),
			row.Note,
		}
		for i, c := range cells {
			align := "L"
			if i >= 2 && i <= 4 {
				align = "R"
			}
			doc.CellFormat(colWidths[i], 6, tr(c), "1", 0, align, false, 0, "")
		}
		doc.Ln(-1)
	}

	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(colWidths[0]+colWidths[1], 7, tr("Toplam"), "1", 0, "L", true, 0, "")
	doc.CellFormat(colWidths[2], 7, tr(money(rep.TotalMonthly)), "1", 0, "R", true, 0, "")
	doc.CellFormat(colWidths[3], 7, tr(money(rep.TotalPaid)), "1", 0, "R", true, 0, "")
	doc.CellFormat(colWidths[4], 7, tr(money(rep.TotalRemaining)), "1", 0, "R", true, 0, "")
	doc.CellFormat(colWidths[5], 7, "", "1", 0, "L", true, 0, "")
	doc.Ln(-1)

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func money(m core.Money) string {
	return core.FormatMoney(m) + " TL"
}
