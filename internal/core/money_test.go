package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"1", 100},
		{"1.0", 100},
		{"1.23", 123},
		{"1,23", 123},
		{"0.01", 1},
		{"1.005", 101}, // half-up rounding
		{" 2.50 ", 250},
		{"0", 0},
		{"350", 35000},
		// anything not a non-negative number coerces to zero
		{"", 0},
		{"abc", 0},
		{"-5", 0},
		{"+5", 0},
		{"1.2.3", 0},
		{"12x", 0},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got.Cents != tc.cents {
			t.Fatalf("%q expected %d cents, got %d", tc.in, tc.cents, got.Cents)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		cents int64
		out   string
	}{
		{0, "0,00"},
		{100, "1,00"},
		{35050, "350,50"},
		{123456, "1.234,56"},
		{100000000, "1.000.000,00"},
	}
	for _, tc := range cases {
		if got := FormatMoney(Money{Cents: tc.cents}); got != tc.out {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.out, got)
		}
	}
}

func TestRemaining(t *testing.T) {
	cases := []struct {
		fee, paid, want int64
	}{
		{10000, 4000, 6000},
		{10000, 10000, 0},
		{10000, 15000, 0}, // overpayment clamps to zero
		{0, 0, 0},
		{0, 5000, 0},
	}
	for _, tc := range cases {
		got := Remaining(Money{Cents: tc.fee}, Money{Cents: tc.paid})
		if got.Cents != tc.want {
			t.Fatalf("remaining(%d, %d) expected %d, got %d", tc.fee, tc.paid, tc.want, got.Cents)
		}
	}
}
