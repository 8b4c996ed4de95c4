package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{123, "1.23"},
		{100, "1.00"},
		{5, "0.05"},
		{-750, "-7.50"},
		{123456789, "1234567.89"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyStringRoundTrip(t *testing.T) {
	for _, cents := range []int64{1, 99, 100, 101, 123456789} {
		s := Money{Cents: cents}.String()
		got, err := ParseDecimalToCents(s)
		if err != nil || got != cents {
			t.Fatalf("%d cents did not round-trip via %q (got %d, err=%v)", cents, s, got, err)
		}
	}
}

func TestMoneyGrouped(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{123, "1.23"},
		{123456, "1,234.56"},
		{123456789, "1,234,567.89"},
		{-123456, "-1,234.56"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Grouped(); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}
