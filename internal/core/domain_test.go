package core

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"income", Income, true},
		{"Expense", Expense, true},
		{" INCOME ", Income, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 9 {
		t.Fatalf("unexpected date %v", d)
	}
	for _, bad := range []string{"2025-13-01", "09-03-2025", "today", ""} {
		if _, err := ParseDate(bad); err != ErrInvalidDate {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Kind: Expense, Amount: Money{Cents: 100}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Empty description and category are allowed; amount and kind are the gates.
	bads := []Transaction{
		{Kind: "refund", Amount: Money{Cents: 100}},
		{Kind: Income, Amount: Money{Cents: 0}},
		{Kind: Income, Amount: Money{Cents: -5}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := map[string]string{
		"":         DefaultCategory,
		"   ":      DefaultCategory,
		"food":     "food",
		"  Rent  ": "Rent",
	}
	for in, want := range cases {
		if got := NormalizeCategory(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}
