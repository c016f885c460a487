// Package export turns a ledger snapshot into the tabular report model
// shared by the PDF and spreadsheet adapters.
package export

import (
	"errors"

	"aidat/internal/core"
)

// ErrEmptyLedger is returned when a report is requested for an empty
// roster; the UI tells the user to add at least one resident first.
var ErrEmptyLedger = errors.New("ledger has no residents to export")

// noteLimit caps the note column in exported documents.
const noteLimit = 40

// Column headers, in document order: Flat No / Name / Fee / Paid /
// Remaining / Note.
var Headers = []string{"Daire", "İsim", "Aidat", "Ödenen", "Kalan", "Not"}

type (
	// Row is one resident line of the report.
	Row struct {
		FlatNo    string
		FullName  string
		Fee       core.Money
		Paid      core.Money
		Remaining core.Money
		Note      string
	}

	// Report is the document model: a month label, the resident rows, and
	// the aggregate totals.
	Report struct {
		MonthLabel     string
		Rows           []Row
		TotalMonthly   core.Money
		TotalPaid      core.Money
		TotalRemaining core.Money
	}
)

// Build derives the report for a snapshot. Remaining is clamped per
// record and notes are truncated to the document limit.
func Build(snapshot core.Snapshot, monthLabel string) (Report, error) {
	if len(snapshot) == 0 {
		return Report{}, ErrEmptyLedger
	}
	sum := core.Summarize(snapshot)
	rep := Report{
		MonthLabel:     monthLabel,
		Rows:           make([]Row, 0, len(sum.Entries)),
		TotalMonthly:   sum.TotalMonthly,
		TotalPaid:      sum.TotalPaid,
		TotalRemaining: sum.TotalRemaining,
	}
	for _, e := range sum.Entries {
		rep.Rows = append(rep.Rows, Row{
			FlatNo:    e.FlatNo,
			FullName:  e.FullName,
			Fee:       e.MonthlyFee,
			Paid:      e.PaidThisMonth,
			Remaining: e.Remaining,
			Note:      truncateNote(e.Note),
		})
	}
	return rep, nil
}

func truncateNote(s string) string {
	runes := []rune(s)
	if len(runes) <= noteLimit {
		return s
	}
	return string(runes[:noteLimit])
}

// PDFFileName and XLSXFileName build the download names from the month
// label, e.g. "Aidat_Raporu_Ocak 2026.pdf".
func PDFFileName(monthLabel string) string {
	return "Aidat_Raporu_" + monthLabel + ".pdf"
}

func XLSXFileName(monthLabel string) string {
	return "Aidat_Listesi_" + monthLabel + ".xlsx"
}
