package pdf

import (
	"bytes"
	"testing"

	"aidat/internal/core"
	"aidat/internal/export"
)

func TestRenderProducesPDF(t *testing.T) {
	rep, err := export.Build(core.Snapshot{
		{ID: "a", FlatNo: "1", FullName: "Ayşe Yılmaz", MonthlyFee: core.Money{Cents: 35000}, PaidThisMonth: core.Money{Cents: 20000}, Note: "kapıcı dahil"},
		{ID: "b", FlatNo: "2", FullName: "Ali Demir", MonthlyFee: core.Money{Cents: 35000}},
	}, "Ocak 2026")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, rep); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF, starts with %q", buf.Bytes()[:8])
	}
	if buf.Len() < 500 {
		t.Fatalf("suspiciously small PDF: %d bytes", buf.Len())
	}
}
