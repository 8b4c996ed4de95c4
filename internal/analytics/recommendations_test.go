package analytics

import (
	"strings"
	"testing"

	"daftar/internal/core"
)

func expenses(amounts map[string]int64) []core.Transaction {
	var txs []core.Transaction
	for category, cents := range amounts {
		txs = append(txs, tx(core.Expense, cents, category, "2025-04-01 12:00:00"))
	}
	return txs
}

func containsSubstring(advice []string, substr string) bool {
	for _, s := range advice {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func TestRecommendationsEmptySnapshot(t *testing.T) {
	advice := Recommendations(nil)
	if len(advice) != 1 || advice[0] != adviceNoData {
		t.Fatalf("expected only the no-data message, got %v", advice)
	}
}

func TestRecommendationsGenericTailAlwaysPresent(t *testing.T) {
	advice := Recommendations(expenses(map[string]int64{"misc": 100}))
	if len(advice) < len(genericSavings) {
		t.Fatalf("generic guidance missing: %v", advice)
	}
	tail := advice[len(advice)-len(genericSavings):]
	for i, want := range genericSavings {
		if tail[i] != want {
			t.Fatalf("tail[%d]: expected %q, got %q", i, want, tail[i])
		}
	}
}

func TestTopCategoryThresholdIsStrict(t *testing.T) {
	// Top category at exactly 30.0% of a 1000-cent total: no strong warning,
	// only the mild notice (30 > 20).
	exact := expenses(map[string]int64{"rent": 300, "a": 250, "b": 250, "c": 200})
	advice := Recommendations(exact)
	if containsSubstring(advice, "very high (30.0% of expenses)") {
		t.Fatalf("strong warning fired at exactly 30%%: %v", advice)
	}
	if !containsSubstring(advice, "relatively high (30.0% of expenses)") {
		t.Fatalf("mild notice missing at 30%%: %v", advice)
	}

	// 30.1% crosses the line.
	over := expenses(map[string]int64{"rent": 301, "a": 250, "b": 250, "c": 199})
	advice = Recommendations(over)
	if !containsSubstring(advice, "'rent' is very high (30.1% of expenses)") {
		t.Fatalf("strong warning missing at 30.1%%: %v", advice)
	}
}

func TestBalanceAdvice(t *testing.T) {
	positive := []core.Transaction{
		tx(core.Income, 1000, "salary", "2025-04-01 09:00:00"),
		tx(core.Expense, 400, "food", "2025-04-02 09:00:00"),
	}
	if advice := Recommendations(positive); !containsSubstring(advice, "income exceeds expenses") {
		t.Fatalf("positive balance advice missing: %v", advice)
	}

	negative := []core.Transaction{
		tx(core.Income, 400, "salary", "2025-04-01 09:00:00"),
		tx(core.Expense, 1000, "food", "2025-04-02 09:00:00"),
	}
	if advice := Recommendations(negative); !containsSubstring(advice, "expenses exceed your income") {
		t.Fatalf("overspending warning missing: %v", advice)
	}

	balanced := []core.Transaction{
		tx(core.Income, 700, "salary", "2025-04-01 09:00:00"),
		tx(core.Expense, 700, "food", "2025-04-02 09:00:00"),
	}
	if advice := Recommendations(balanced); !containsSubstring(advice, "balanced") {
		t.Fatalf("balanced note missing: %v", advice)
	}
}

func TestCategorySpecificRules(t *testing.T) {
	// food at 26% (> 25), entertainment at 16% (> 15), shopping at 21% (> 20).
	txs := expenses(map[string]int64{
		"food":          2600,
		"entertainment": 1600,
		"shopping":      2100,
		"rent":          3700,
	})
	advice := Recommendations(txs)
	for _, want := range []string{adviceFood, adviceEntertainment, adviceShopping} {
		if !containsSubstring(advice, want) {
			t.Fatalf("expected %q to fire: %v", want, advice)
		}
	}

	// Exactly on each threshold: none fire.
	boundary := expenses(map[string]int64{
		"food":          2500,
		"entertainment": 1500,
		"shopping":      2000,
		"rent":          4000,
	})
	advice = Recommendations(boundary)
	for _, not := range []string{adviceFood, adviceEntertainment, adviceShopping} {
		if containsSubstring(advice, not) {
			t.Fatalf("%q fired at the boundary: %v", not, advice)
		}
	}
}

func TestCategoryRuleMatchesCaseInsensitively(t *testing.T) {
	txs := expenses(map[string]int64{"Food": 3000, "rent": 7000})
	if advice := Recommendations(txs); !containsSubstring(advice, adviceFood) {
		t.Fatalf("food rule should match 'Food': %v", advice)
	}
}
