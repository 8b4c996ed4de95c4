package analytics

import (
	"fmt"
	"strings"

	"daftar/internal/core"
)

// Advice texts that do not depend on the data.
const (
	adviceNoData = "No transactions recorded yet. Start adding them to receive advice."

	adviceSavePortion = "Your finances look healthy: income exceeds expenses. Consider saving part of the surplus."
	adviceOverspend   = "Warning: your expenses exceed your income. Cut back on non-essential spending."
	adviceBalanced    = "Your income and expenses are balanced. Look for ways to grow your income."

	adviceFood          = "Food spending is very high. Cooking at home more often could bring it down."
	adviceEntertainment = "Entertainment spending is high. Plan a budget for it."
	adviceShopping      = "Shopping spending is very high. Think twice before buying."
)

// genericSavings is appended whenever the ledger holds at least one entry.
var genericSavings = []string{
	"Save at least 10% of your income.",
	"Set short-term and long-term financial goals.",
	"Review your financial report every month.",
}

// Thresholds for the category rules, as percent of total expense.
// Every comparison is strictly greater-than: a category sitting exactly on
// the threshold does not trigger the rule.
const (
	topCategoryStrongPct = 30.0
	topCategoryMildPct   = 20.0
	foodPct              = 25.0
	entertainmentPct     = 15.0
	shoppingPct          = 20.0
)

// Recommendations derives ordered advisory strings from the snapshot.
// Rules fire independently, in a fixed order; several may fire at once.
// An empty snapshot yields only the no-data message.
func Recommendations(txs []core.Transaction) []string {
	if len(txs) == 0 {
		return []string{adviceNoData}
	}

	var out []string
	summary := Summarize(txs)
	ranking := RankCategories(txs, core.Expense)
	totalExpense := summary.Expense.Cents

	if len(ranking) > 0 && totalExpense > 0 {
		top := ranking[0]
		switch {
		case top.Percent > topCategoryStrongPct:
			out = append(out, fmt.Sprintf(
				"Spending on '%s' is very high (%.1f%% of expenses). Try to reduce it.",
				top.Category, top.Percent))
		case top.Percent > topCategoryMildPct:
			out = append(out, fmt.Sprintf(
				"Spending on '%s' is relatively high (%.1f%% of expenses).",
				top.Category, top.Percent))
		}
	}

	switch {
	case summary.Income.Cents > summary.Expense.Cents:
		out = append(out, adviceSavePortion)
	case summary.Income.Cents < summary.Expense.Cents:
		out = append(out, adviceOverspend)
	default:
		out = append(out, adviceBalanced)
	}

	if totalExpense > 0 {
		for _, rule := range []struct {
			label     string
			threshold float64
			advice    string
		}{
			{"food", foodPct, adviceFood},
			{"entertainment", entertainmentPct, adviceEntertainment},
			{"shopping", shoppingPct, adviceShopping},
		} {
			if categoryPercent(ranking, rule.label) > rule.threshold {
				out = append(out, rule.advice)
			}
		}
	}

	return append(out, genericSavings...)
}

// categoryPercent finds a category's expense share by label, ignoring case.
func categoryPercent(ranking []CategoryShare, label string) float64 {
	for _, share := range ranking {
		if strings.EqualFold(share.Category, label) {
			return share.Percent
		}
	}
	return 0
}
