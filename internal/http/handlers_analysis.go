package http

import (
	"errors"
	"net/http"
	"time"

	"daftar/internal/analytics"
	"daftar/internal/core"
	"daftar/internal/report"
)

type moneyDTO struct {
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

func (s *Server) money(m core.Money) moneyDTO {
	return moneyDTO{
		Amount:  m.String(),
		Display: m.Grouped() + " " + s.currency,
	}
}

type summaryResponse struct {
	Income       moneyDTO `json:"income"`
	Expense      moneyDTO `json:"expense"`
	Balance      moneyDTO `json:"balance"`
	Transactions int      `json:"transactions"`
	Goal         *goalDTO `json:"goal,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	sum := analytics.Summarize(txs)
	resp := summaryResponse{
		Income:       s.money(sum.Income),
		Expense:      s.money(sum.Expense),
		Balance:      s.money(sum.Balance),
		Transactions: len(txs),
	}

	goal, err := s.ledger.ActiveGoal(r.Context())
	switch {
	case err == nil:
		dto := s.goalDTO(goal)
		resp.Goal = &dto
	case errors.Is(err, core.ErrNotFound):
		// no goal yet, summary stays goal-less
	default:
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type reportResponse struct {
	GeneratedAt string `json:"generated_at"`
	Count       int    `json:"count"`
	Text        string `json:"text"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	txs, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	rep, err := report.Build(txs, report.Options{
		Year:     sanitizeInput(q.Get("year")),
		Month:    sanitizeInput(q.Get("month")),
		Now:      time.Now(),
		Currency: s.currency,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{
		GeneratedAt: rep.GeneratedAt.Format(core.TimestampLayout),
		Count:       rep.Count,
		Text:        rep.Text,
	})
}

type categoryShareDTO struct {
	Category string   `json:"category"`
	Amount   moneyDTO `json:"amount"`
	Percent  float64  `json:"percent"`
}

func (s *Server) handleExpenseAnalysis(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	breakdown := analytics.ExpenseAnalysis(txs)
	dtos := make([]categoryShareDTO, 0, len(breakdown.Ranking))
	for _, row := range breakdown.Ranking {
		dtos = append(dtos, categoryShareDTO{
			Category: row.Category,
			Amount:   s.money(row.Amount),
			Percent:  row.Percent,
		})
	}

	resp := map[string]any{
		"total":      s.money(breakdown.Total),
		"categories": dtos,
	}
	if len(breakdown.Ranking) > 0 {
		resp["highest"] = categoryShareDTO{
			Category: breakdown.Highest.Category,
			Amount:   s.money(breakdown.Highest.Amount),
			Percent:  breakdown.Highest.Percent,
		}
		resp["lowest"] = categoryShareDTO{
			Category: breakdown.Lowest.Category,
			Amount:   s.money(breakdown.Lowest.Amount),
			Percent:  breakdown.Lowest.Percent,
		}
		resp["category_mean"] = s.money(breakdown.PerCatMean)
	}

	writeJSON(w, http.StatusOK, resp)
}

type monthFlowDTO struct {
	Month   string   `json:"month"`
	Income  moneyDTO `json:"income"`
	Expense moneyDTO `json:"expense"`
	Balance moneyDTO `json:"balance"`
}

type weekdayDTO struct {
	Weekday string   `json:"weekday"`
	Total   moneyDTO `json:"total"`
}

func (s *Server) handlePatternAnalysis(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	trend := analytics.MonthlyTrend(txs, s.trendWindow)
	months := make([]monthFlowDTO, 0, len(trend))
	for _, m := range trend {
		months = append(months, monthFlowDTO{
			Month:   m.Month,
			Income:  s.money(m.Income),
			Expense: s.money(m.Expense),
			Balance: s.money(m.Balance),
		})
	}

	spend := analytics.WeekdayDistribution(txs)
	weekdays := make([]weekdayDTO, 0, len(spend.Totals))
	for i, total := range spend.Totals {
		weekdays = append(weekdays, weekdayDTO{
			Weekday: analytics.WeekdayNames[i],
			Total:   s.money(total),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trend":        months,
		"weekdays":     weekdays,
		"busiest_day":  analytics.WeekdayNames[spend.Busiest],
		"trend_window": s.trendWindow,
	})
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tips": analytics.Recommendations(txs),
	})
}
