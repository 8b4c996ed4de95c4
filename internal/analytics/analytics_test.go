package analytics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"daftar/internal/core"
)

func tx(kind core.Kind, cents int64, category, created string) core.Transaction {
	ts, err := time.ParseInLocation(core.TimestampLayout, created, time.Local)
	if err != nil {
		panic(err)
	}
	return core.Transaction{Kind: kind, Amount: core.Money{Cents: cents}, Category: category, CreatedAt: ts}
}

func TestSummarize(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, 50000, "salary", "2025-01-10 09:00:00"),
		tx(core.Expense, 12000, "food", "2025-01-11 12:00:00"),
		tx(core.Expense, 70000, "rent", "2025-01-12 08:00:00"),
	}
	s := Summarize(txs)
	if s.Income.Cents != 50000 || s.Expense.Cents != 82000 {
		t.Fatalf("unexpected totals %+v", s)
	}
	if s.Balance.Cents != -32000 {
		t.Fatalf("balance should be signed, got %d", s.Balance.Cents)
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, 100, "a", "2025-01-01 00:00:00"),
		tx(core.Expense, 40, "b", "2025-01-02 00:00:00"),
		tx(core.Income, 60, "c", "2025-01-03 00:00:00"),
		tx(core.Expense, 10, "d", "2025-01-04 00:00:00"),
	}
	want := Summarize(txs)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]core.Transaction(nil), txs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := Summarize(shuffled); got != want {
			t.Fatalf("permutation %d changed the summary: %+v vs %+v", i, got, want)
		}
	}
}

func TestGoalProgress(t *testing.T) {
	cases := []struct {
		current, target int64
		want            float64
	}{
		{50000, 100000, 50},
		{0, 100000, 0},
		{150000, 100000, 100}, // clamped
		{100, 0, 0},           // zero target guard
		{100, -5, 0},
	}
	for _, tc := range cases {
		g := core.Goal{Current: core.Money{Cents: tc.current}, Target: core.Money{Cents: tc.target}}
		if got := GoalProgress(g); got != tc.want {
			t.Fatalf("current=%d target=%d: expected %v, got %v", tc.current, tc.target, tc.want, got)
		}
	}
}

func TestRankCategories(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, 300, "food", "2025-01-01 00:00:00"),
		tx(core.Expense, 500, "rent", "2025-01-02 00:00:00"),
		tx(core.Expense, 200, "food", "2025-01-03 00:00:00"),
		tx(core.Expense, 500, "car", "2025-01-04 00:00:00"),
		tx(core.Income, 9999, "salary", "2025-01-05 00:00:00"), // ignored
	}
	ranking := RankCategories(txs, core.Expense)
	if len(ranking) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(ranking))
	}
	// rent and car tie at 500; the label ascending breaks the tie.
	if ranking[0].Category != "car" || ranking[1].Category != "rent" || ranking[2].Category != "food" {
		t.Fatalf("unexpected order %+v", ranking)
	}

	var amountSum int64
	var pctSum float64
	for _, share := range ranking {
		amountSum += share.Amount.Cents
		pctSum += share.Percent
	}
	if amountSum != 1500 {
		t.Fatalf("amounts should sum to total expense, got %d", amountSum)
	}
	if math.Abs(pctSum-100) > 0.0001 {
		t.Fatalf("percentages should sum to 100, got %v", pctSum)
	}
}

func TestRankCategoriesEmpty(t *testing.T) {
	if got := RankCategories(nil, core.Expense); got != nil {
		t.Fatalf("expected nil ranking, got %+v", got)
	}
	onlyIncome := []core.Transaction{tx(core.Income, 100, "salary", "2025-01-01 00:00:00")}
	if got := RankCategories(onlyIncome, core.Expense); got != nil {
		t.Fatalf("expected nil ranking with no expenses, got %+v", got)
	}
}

func TestMonthlyTrendWindow(t *testing.T) {
	var txs []core.Transaction
	for m := 1; m <= 8; m++ {
		created := time.Date(2025, time.Month(m), 10, 12, 0, 0, 0, time.Local).Format(core.TimestampLayout)
		txs = append(txs,
			tx(core.Income, int64(m*100), "salary", created),
			tx(core.Expense, int64(m*10), "food", created),
		)
	}

	trend := MonthlyTrend(txs, 6)
	if len(trend) != 6 {
		t.Fatalf("expected 6 months, got %d", len(trend))
	}
	// Trailing slice, ascending: March through August.
	if trend[0].Month != "2025-03" || trend[5].Month != "2025-08" {
		t.Fatalf("unexpected window %v .. %v", trend[0].Month, trend[5].Month)
	}
	for i := 1; i < len(trend); i++ {
		if trend[i].Month <= trend[i-1].Month {
			t.Fatalf("trend not ascending at %d: %v", i, trend)
		}
	}
	if trend[5].Income.Cents != 800 || trend[5].Expense.Cents != 80 || trend[5].Balance.Cents != 720 {
		t.Fatalf("unexpected august flow %+v", trend[5])
	}
}

func TestMonthlyTrendDefaultWindow(t *testing.T) {
	txs := []core.Transaction{tx(core.Income, 100, "salary", "2025-01-01 00:00:00")}
	if got := MonthlyTrend(txs, 0); len(got) != 1 {
		t.Fatalf("expected 1 month, got %d", len(got))
	}
}

func TestWeekdayDistribution(t *testing.T) {
	// 2025-06-02 is a Monday.
	txs := []core.Transaction{
		tx(core.Expense, 100, "food", "2025-06-02 10:00:00"), // Monday
		tx(core.Expense, 300, "food", "2025-06-04 10:00:00"), // Wednesday
		tx(core.Expense, 200, "food", "2025-06-08 10:00:00"), // Sunday
		tx(core.Income, 9999, "salary", "2025-06-04 10:00:00"),
	}
	w := WeekdayDistribution(txs)
	if w.Totals[0].Cents != 100 || w.Totals[2].Cents != 300 || w.Totals[6].Cents != 200 {
		t.Fatalf("unexpected buckets %+v", w.Totals)
	}
	if w.Busiest != 2 {
		t.Fatalf("expected Wednesday (2) busiest, got %d", w.Busiest)
	}
}

func TestWeekdayDistributionTieLowestIndexWins(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, 500, "a", "2025-06-03 10:00:00"), // Tuesday
		tx(core.Expense, 500, "b", "2025-06-06 10:00:00"), // Friday
	}
	if w := WeekdayDistribution(txs); w.Busiest != 1 {
		t.Fatalf("expected Tuesday (1) on tie, got %d", w.Busiest)
	}
}

func TestExpenseAnalysis(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, 6000, "Food", "2025-06-02 10:00:00"),
		tx(core.Expense, 3000, "Transport", "2025-06-03 10:00:00"),
		tx(core.Expense, 1500, "Books", "2025-06-04 10:00:00"),
		tx(core.Income, 90000, "Salary", "2025-06-05 10:00:00"),
	}
	b := ExpenseAnalysis(txs)

	if b.Total.Cents != 10500 {
		t.Fatalf("total = %d, want 10500", b.Total.Cents)
	}
	if b.Highest.Category != "Food" || b.Lowest.Category != "Books" {
		t.Fatalf("extremes = %q/%q, want Food/Books", b.Highest.Category, b.Lowest.Category)
	}
	if b.PerCatMean.Cents != 3500 {
		t.Fatalf("per-category mean = %d, want 3500", b.PerCatMean.Cents)
	}
}

func TestExpenseAnalysisEmpty(t *testing.T) {
	b := ExpenseAnalysis(nil)
	if len(b.Ranking) != 0 || b.Total.Cents != 0 {
		t.Fatalf("empty breakdown = %+v, want zero value", b)
	}
	if b.Highest.Category != "" || b.Lowest.Category != "" {
		t.Fatalf("extremes should be zero on empty snapshot, got %+v", b)
	}
}
