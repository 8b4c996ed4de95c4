// Package analytics computes aggregates and advice from a snapshot of
// ledger transactions. Every function is pure: the snapshot comes in,
// values come out, nothing is mutated and nothing is read from storage.
package analytics

import (
	"sort"

	"daftar/internal/core"
)

// Summary is the income/expense/balance triple over a snapshot.
// Balance is signed and may be negative.
type Summary struct {
	Income  core.Money
	Expense core.Money
	Balance core.Money
}

// MonthFlow is one calendar month's totals in a trend series.
type MonthFlow struct {
	Month   string // YYYY-MM
	Income  core.Money
	Expense core.Money
	Balance core.Money
}

// CategoryShare is one row of a category ranking.
type CategoryShare struct {
	Category string
	Amount   core.Money
	Percent  float64 // share of the ranked kind's total, 0 when total is 0
}

// WeekdaySpend buckets expense totals by weekday, Monday first.
type WeekdaySpend struct {
	Totals  [7]core.Money // index 0 = Monday .. 6 = Sunday
	Busiest int           // bucket with the highest total; lowest index wins ties
}

// DefaultTrendWindow is how many trailing months MonthlyTrend keeps when
// the caller does not say otherwise.
const DefaultTrendWindow = 6

func Summarize(txs []core.Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Kind {
		case core.Income:
			s.Income.Cents += t.Amount.Cents
		case core.Expense:
			s.Expense.Cents += t.Amount.Cents
		}
	}
	s.Balance.Cents = s.Income.Cents - s.Expense.Cents
	return s
}

// GoalProgress returns the goal's completion percentage clamped to [0, 100].
// A non-positive target yields 0 rather than a division by zero.
func GoalProgress(g core.Goal) float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	p := float64(g.Current.Cents) / float64(g.Target.Cents) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// RankCategories groups transactions of the given kind by category and
// orders them by amount descending, category label ascending on ties.
func RankCategories(txs []core.Transaction, kind core.Kind) []CategoryShare {
	totals := make(map[string]int64)
	var grand int64
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		totals[t.Category] += t.Amount.Cents
		grand += t.Amount.Cents
	}
	if len(totals) == 0 {
		return nil
	}

	out := make([]CategoryShare, 0, len(totals))
	for category, cents := range totals {
		share := CategoryShare{Category: category, Amount: core.Money{Cents: cents}}
		if grand > 0 {
			share.Percent = float64(cents) / float64(grand) * 100
		}
		out = append(out, share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ExpenseBreakdown is the expense-side view of the ledger: the full
// category ranking plus its extremes and the mean spend per category.
type ExpenseBreakdown struct {
	Total      core.Money
	Ranking    []CategoryShare
	Highest    CategoryShare // zero value when no expenses exist
	Lowest     CategoryShare
	PerCatMean core.Money // Total divided by the number of categories
}

// ExpenseAnalysis builds the breakdown used by the expense analysis view.
func ExpenseAnalysis(txs []core.Transaction) ExpenseBreakdown {
	ranking := RankCategories(txs, core.Expense)
	b := ExpenseBreakdown{Ranking: ranking}
	if len(ranking) == 0 {
		return b
	}

	for _, share := range ranking {
		b.Total.Cents += share.Amount.Cents
	}
	b.Highest = ranking[0]
	b.Lowest = ranking[len(ranking)-1]
	b.PerCatMean.Cents = b.Total.Cents / int64(len(ranking))
	return b
}

// MonthlyTrend groups the snapshot by calendar year-month and returns the
// trailing `window` months in ascending chronological order.
func MonthlyTrend(txs []core.Transaction, window int) []MonthFlow {
	if window <= 0 {
		window = DefaultTrendWindow
	}

	byMonth := make(map[string]*MonthFlow)
	for _, t := range txs {
		key := t.CreatedAt.Format("2006-01")
		flow, ok := byMonth[key]
		if !ok {
			flow = &MonthFlow{Month: key}
			byMonth[key] = flow
		}
		switch t.Kind {
		case core.Income:
			flow.Income.Cents += t.Amount.Cents
		case core.Expense:
			flow.Expense.Cents += t.Amount.Cents
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	if len(months) > window {
		months = months[len(months)-window:]
	}

	out := make([]MonthFlow, 0, len(months))
	for _, m := range months {
		flow := *byMonth[m]
		flow.Balance.Cents = flow.Income.Cents - flow.Expense.Cents
		out = append(out, flow)
	}
	return out
}

// WeekdayDistribution sums expense amounts into fixed Monday..Sunday
// buckets. Income entries are ignored.
func WeekdayDistribution(txs []core.Transaction) WeekdaySpend {
	var w WeekdaySpend
	for _, t := range txs {
		if t.Kind != core.Expense {
			continue
		}
		// time.Weekday counts from Sunday; shift so Monday is bucket 0.
		idx := (int(t.CreatedAt.Weekday()) + 6) % 7
		w.Totals[idx].Cents += t.Amount.Cents
	}
	for i := 1; i < len(w.Totals); i++ {
		if w.Totals[i].Cents > w.Totals[w.Busiest].Cents {
			w.Busiest = i
		}
	}
	return w
}

// WeekdayNames are the bucket labels for WeekdaySpend, index-aligned.
var WeekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}
