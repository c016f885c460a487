package core

import (
	"bytes"
	"strconv"
)

type (
	// Money holds an amount in kuruş to keep arithmetic exact.
	Money struct {
		Cents int64
	}

	// Resident is one roster entry. JSON tags match the persisted blob
	// layout, so a ledger written by the previous version of the app can
	// be loaded unchanged.
	Resident struct {
		ID            string `json:"id"`
		FlatNo        string `json:"flatNo"`
		FullName      string `json:"fullName"`
		MonthlyFee    Money  `json:"monthlyFee"`
		PaidThisMonth Money  `json:"paidThisMonth"`
		Note          string `json:"note"`
	}

	// Snapshot is the full roster in insertion order. Order is meaningful
	// for display and is never sorted.
	Snapshot []Resident
)

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// Lira returns the amount in lira for display and spreadsheet cells.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Lira() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// String renders the amount as a plain decimal number in lira with no
// grouping (350, 350.5, 350.75), the exact shape ParseAmount reads back.
func (m Money) String() string {
	whole := m.Cents / 100
	frac := m.Cents % 100
	if frac < 0 {
		frac = -frac
	}
	switch {
	case frac == 0:
		return strconv.FormatInt(whole, 10)
	case frac%10 == 0:
		return strconv.FormatInt(whole, 10) + "." + strconv.FormatInt(frac/10, 10)
	default:
		s := strconv.FormatInt(frac, 10)
		if len(s) == 1 {
			s = "0" + s
		}
		return strconv.FormatInt(whole, 10) + "." + s
	}
}

// MarshalJSON writes the amount as a plain decimal number, matching the
// persisted blob layout.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings, or null. Anything that
// cannot be read as a non-negative amount coerces to zero; old blobs were
// written by hand-edited forms and must never fail the load for it.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		m.Cents = 0
		return nil
	}
	if data[0] == '"' {
		if unq, err := strconv.Unquote(string(data)); err == nil {
			*m = ParseAmount(unq)
			return nil
		}
		m.Cents = 0
		return nil
	}
	*m = ParseAmount(string(data))
	return nil
}

// Remaining is the outstanding balance for one resident, clamped at zero.
// Overpayment is representable in the roster but never shown as negative.
func Remaining(fee, paid Money) Money {
	if fee.Cents <= paid.Cents {
		return Money{}
	}
	return Money{Cents: fee.Cents - paid.Cents}
}
