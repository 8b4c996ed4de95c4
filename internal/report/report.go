// Package report renders period-filtered text reports from the ledger.
//
// Filters work on the stored date string of each transaction (year prefix,
// month substring), not on parsed date ranges; this mirrors how the stored
// text dates are queried everywhere else.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"daftar/internal/analytics"
	"daftar/internal/core"
)

// Options controls the period filter and rendering of a report.
type Options struct {
	Year     string // optional exact year, e.g. "2024"
	Month    string // optional English month name, matched case-insensitively
	Now      time.Time
	Currency string // display label only, never part of arithmetic
}

// Report bundles the computed aggregates with the rendered text.
type Report struct {
	GeneratedAt time.Time
	Summary     analytics.Summary
	Ranking     []analytics.CategoryShare
	Count       int
	Text        string
}

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// Build filters the snapshot by the optional year and month-name filters,
// computes summary and expense ranking over the filtered set, and renders
// the text report.
func Build(txs []core.Transaction, opts Options) (Report, error) {
	filtered, err := filter(txs, opts.Year, opts.Month)
	if err != nil {
		return Report{}, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	r := Report{
		GeneratedAt: now,
		Summary:     analytics.Summarize(filtered),
		Ranking:     analytics.RankCategories(filtered, core.Expense),
		Count:       len(filtered),
	}
	r.Text = render(r, opts)
	return r, nil
}

func filter(txs []core.Transaction, year, monthName string) ([]core.Transaction, error) {
	monthToken := ""
	if monthName != "" {
		m, ok := monthNumbers[strings.ToLower(strings.TrimSpace(monthName))]
		if !ok {
			return nil, fmt.Errorf("unknown month name %q: %w", monthName, core.ErrInvalidDate)
		}
		monthToken = fmt.Sprintf("-%02d-", m)
	}

	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		stored := t.CreatedAt.Format(core.TimestampLayout)
		if year != "" && !strings.HasPrefix(stored, year) {
			continue
		}
		if monthToken != "" && !strings.Contains(stored, monthToken) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func render(r Report, opts Options) string {
	currency := opts.Currency
	label := func(m core.Money) string {
		if currency == "" {
			return m.Grouped()
		}
		return m.Grouped() + " " + currency
	}

	var b strings.Builder
	b.WriteString("Financial Report\n")
	b.WriteString("Generated: " + r.GeneratedAt.Format(core.TimestampLayout) + "\n")
	if opts.Year != "" || opts.Month != "" {
		b.WriteString("Period: " + periodLabel(opts) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Summary:\n")
	b.WriteString("  Total income:  " + label(r.Summary.Income) + "\n")
	b.WriteString("  Total expense: " + label(r.Summary.Expense) + "\n")
	b.WriteString("  Net balance:   " + label(r.Summary.Balance) + "\n\n")

	b.WriteString("Expense breakdown:\n")
	if len(r.Ranking) == 0 {
		b.WriteString("  (no expenses in this period)\n")
	} else {
		table := tablewriter.NewWriter(&b)
		table.SetHeader([]string{"Category", "Amount", "Share"})
		for _, share := range r.Ranking {
			table.Append([]string{
				share.Category,
				label(share.Amount),
				fmt.Sprintf("%.1f%%", share.Percent),
			})
		}
		table.Render()
	}

	b.WriteString(fmt.Sprintf("\nTotal transactions: %d\n", r.Count))
	return b.String()
}

func periodLabel(opts Options) string {
	switch {
	case opts.Year != "" && opts.Month != "":
		return opts.Month + " " + opts.Year
	case opts.Year != "":
		return opts.Year
	default:
		return opts.Month
	}
}
