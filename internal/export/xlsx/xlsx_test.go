package xlsx

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"aidat/internal/core"
	"aidat/internal/export"
)

func TestRenderWorkbook(t *testing.T) {
	rep, err := export.Build(core.Snapshot{
		{ID: "a", FlatNo: "1", FullName: "Ayşe Yılmaz", MonthlyFee: core.Money{Cents: 35000}, PaidThisMonth: core.Money{Cents: 20000}, Note: "kısmi"},
		{ID: "b", FlatNo: "2", FullName: "Ali Demir", MonthlyFee: core.Money{Cents: 35000}, PaidThisMonth: core.Money{Cents: 35000}},
	}, "Ocak 2026")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, rep); err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Aidat", "A1"); got != "Daire" {
		t.Fatalf("expected header Daire, got %q", got)
	}
	if got, _ := f.GetCellValue("Aidat", "B2"); got != "Ayşe Yılmaz" {
		t.Fatalf("expected name in B2, got %q", got)
	}
	if got, _ := f.GetCellValue("Aidat", "E2"); got != "150" {
		t.Fatalf("expected remaining 150 in E2, got %q", got)
	}
	if got, _ := f.GetCellValue("Aidat", "E3"); got != "0" {
		t.Fatalf("settled resident must show 0 remaining, got %q", got)
	}
	// totals row sits under the last resident
	if got, _ := f.GetCellValue("Aidat", "A4"); got != "Toplam" {
		t.Fatalf("expected totals row label, got %q", got)
	}
	if got, _ := f.GetCellValue("Aidat", "C4"); got != "700" {
		t.Fatalf("expected total fee 700, got %q", got)
	}
}
