package core

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		fee, paid int64
		want      Status
	}{
		{10000, 10000, StatusSettled},
		{0, 5000, StatusSettled}, // payment with no fee still settles
		{10000, 4000, StatusOutstanding},
		{10000, 0, StatusOutstanding},
		{0, 0, StatusNeutral},
		{10000, 15000, StatusSettled}, // overpaid clamps to settled
	}
	for _, tc := range cases {
		got := Classify(Money{Cents: tc.fee}, Money{Cents: tc.paid})
		if got != tc.want {
			t.Fatalf("classify(%d, %d) expected %s, got %s", tc.fee, tc.paid, tc.want, got)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	if len(sum.Entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(sum.Entries))
	}
	if !sum.TotalMonthly.IsZero() || !sum.TotalPaid.IsZero() || !sum.TotalRemaining.IsZero() {
		t.Fatalf("expected zero totals, got %+v", sum)
	}
}

func TestSummarizeTotals(t *testing.T) {
	s := Snapshot{
		{ID: "a", MonthlyFee: Money{Cents: 10000}, PaidThisMonth: Money{Cents: 10000}},
		{ID: "b", MonthlyFee: Money{Cents: 10000}, PaidThisMonth: Money{Cents: 4000}},
		{ID: "c", MonthlyFee: Money{Cents: 0}, PaidThisMonth: Money{Cents: 0}},
		{ID: "d", MonthlyFee: Money{Cents: 5000}, PaidThisMonth: Money{Cents: 9000}},
	}
	sum := Summarize(s)
	if len(sum.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(sum.Entries))
	}
	if sum.Entries[0].Status != StatusSettled || sum.Entries[1].Status != StatusOutstanding || sum.Entries[2].Status != StatusNeutral {
		t.Fatalf("unexpected statuses: %+v", sum.Entries)
	}
	if sum.Entries[1].Remaining.Cents != 6000 {
		t.Fatalf("expected remaining 6000, got %d", sum.Entries[1].Remaining.Cents)
	}
	// overpaid entry contributes zero remaining, full paid
	if sum.TotalMonthly.Cents != 25000 {
		t.Fatalf("expected total monthly 25000, got %d", sum.TotalMonthly.Cents)
	}
	if sum.TotalPaid.Cents != 23000 {
		t.Fatalf("expected total paid 23000, got %d", sum.TotalPaid.Cents)
	}
	if sum.TotalRemaining.Cents != 6000 {
		t.Fatalf("expected total remaining 6000, got %d", sum.TotalRemaining.Cents)
	}
}

func TestSummarizeDoesNotMutate(t *testing.T) {
	s := Snapshot{{ID: "a", MonthlyFee: Money{Cents: 100}}}
	_ = Summarize(s)
	if s[0].MonthlyFee.Cents != 100 || s[0].ID != "a" {
		t.Fatalf("snapshot mutated: %+v", s)
	}
}
