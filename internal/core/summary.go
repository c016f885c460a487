package core

// Status classifies one resident's payment state for the current period.
type Status string

const (
	// StatusSettled: nothing remains and at least one of fee/paid is set.
	StatusSettled Status = "settled"
	// StatusOutstanding: a positive balance remains.
	StatusOutstanding Status = "outstanding"
	// StatusNeutral: both fee and paid are zero, nothing to report.
	StatusNeutral Status = "neutral"
)

// Classify maps a fee/paid pair to its display status. The three-way split
// drives the status badge in the table and the report rows, so the exact
// boundaries matter: a fully paid fee is settled, an untouched zero row is
// neutral, everything with a balance is outstanding.
func Classify(fee, paid Money) Status {
	remaining := Remaining(fee, paid)
	switch {
	case remaining.IsZero() && (fee.Cents > 0 || paid.Cents > 0):
		return StatusSettled
	case !remaining.IsZero():
		return StatusOutstanding
	default:
		return StatusNeutral
	}
}

type (
	// Entry is one resident with its derived balance and status.
	Entry struct {
		Resident
		Remaining Money
		Status    Status
	}

	// Summary is the derived view of a snapshot. It is recomputed on every
	// read and never stored.
	Summary struct {
		Entries        []Entry
		TotalMonthly   Money
		TotalPaid      Money
		TotalRemaining Money
	}
)

// Summarize derives per-resident balances and aggregate totals from a
// snapshot. Pure: the snapshot is not modified and no state is kept.
func Summarize(s Snapshot) Summary {
	sum := Summary{Entries: make([]Entry, 0, len(s))}
	for _, r := range s {
		remaining := Remaining(r.MonthlyFee, r.PaidThisMonth)
		sum.Entries = append(sum.Entries, Entry{
			Resident:  r,
			Remaining: remaining,
			Status:    Classify(r.MonthlyFee, r.PaidThisMonth),
		})
		sum.TotalMonthly = sum.TotalMonthly.Add(r.MonthlyFee)
		sum.TotalPaid = sum.TotalPaid.Add(r.PaidThisMonth)
		sum.TotalRemaining = sum.TotalRemaining.Add(remaining)
	}
	return sum
}
