package http

import (
	"net/http"
	"strings"
	"time"

	"daftar/internal/core"
	applog "daftar/internal/log"
	"daftar/internal/storage"
)

type createTransactionRequest struct {
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type transactionDTO struct {
	ID          int64  `json:"id"`
	Timestamp   string `json:"timestamp"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func toTransactionDTO(t core.Transaction) transactionDTO {
	return transactionDTO{
		ID:          t.ID,
		Timestamp:   t.CreatedAt.Format(core.TimestampLayout),
		Kind:        string(t.Kind),
		Amount:      t.Amount.String(),
		Description: t.Description,
		Category:    t.Category,
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	kind, err := core.ParseKind(req.Kind)
	if err != nil {
		unprocessable(w, err.Error())
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := s.ledger.RecordTransaction(r.Context(), kind, amount,
		sanitizeInput(req.Description), sanitizeInput(req.Category))
	if err != nil {
		writeError(w, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction recorded",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithTransaction(string(kind), amount.Cents, core.NormalizeCategory(req.Category)).
			ToSlice()...)

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var f storage.TransactionFilter

	if v := strings.TrimSpace(r.URL.Query().Get("kind")); v != "" {
		kind, err := core.ParseKind(v)
		if err != nil {
			unprocessable(w, err.Error())
			return
		}
		f.Kind = kind
	}
	f.Category = sanitizeInput(r.URL.Query().Get("category"))

	txs, err := s.ledger.ListTransactions(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]transactionDTO, 0, len(txs))
	for _, t := range txs {
		dtos = append(dtos, toTransactionDTO(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": dtos})
}

// handleDeleteTransactions removes every entry matching a timestamp and
// amount pair. The match is deliberately loose, identical entries go
// together.
func (s *Server) handleDeleteTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ts, err := time.ParseInLocation(core.TimestampLayout, strings.TrimSpace(q.Get("timestamp")), time.Local)
	if err != nil {
		badRequest(w, "timestamp must use format "+core.TimestampLayout)
		return
	}
	amount, err := core.ParseAmount(q.Get("amount"))
	if err != nil {
		writeError(w, err)
		return
	}

	deleted, err := s.ledger.DeleteTransactions(r.Context(), ts, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	if deleted == 0 {
		writeError(w, core.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (s *Server) handleDeleteTransactionByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.ledger.DeleteTransactionByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := s.ledger.ExportTo(r.Context(), w); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed",
			applog.FieldError, err.Error())
		writeError(w, err)
		return
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)

	result, err := s.ledger.ImportFrom(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Import finished",
		applog.FieldOperation, applog.OpImport,
		"inserted", result.Inserted,
		"skipped", result.Skipped)

	writeJSON(w, http.StatusOK, result)
}
