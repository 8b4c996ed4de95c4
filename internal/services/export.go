package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"daftar/internal/core"
	"daftar/internal/storage"
)

// ExportRecord is the external, text-encoded shape of a transaction.
// Amounts travel as decimal strings so the round-trip through
// ParseDecimalToCents is lossless.
type ExportRecord struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ImportResult reports what an import batch did.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// Export returns every transaction in the export shape, oldest first.
func (l *Ledger) Export(ctx context.Context) ([]ExportRecord, error) {
	txs, err := l.store.ListTransactions(ctx, storage.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	// ListTransactions is newest first; exported files read better oldest first.
	records := make([]ExportRecord, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		t := txs[i]
		records = append(records, ExportRecord{
			ID:          t.ID,
			Date:        t.CreatedAt.Format(core.TimestampLayout),
			Type:        string(t.Kind),
			Amount:      t.Amount.String(),
			Description: t.Description,
			Category:    t.Category,
		})
	}
	return records, nil
}

// ExportTo writes the export as indented, human-readable JSON.
func (l *Ledger) ExportTo(ctx context.Context, w io.Writer) error {
	records, err := l.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	slog.InfoContext(ctx, "Ledger exported", "records", len(records))
	return nil
}

// importEntry is a pre-validated record ready for insertion.
type importEntry struct {
	tx   core.Transaction
	date string
}

// ImportBatch inserts incoming records, skipping any whose
// (date, amount, type) triple already exists; description and category
// differences do not prevent a skip. Ids in the records are ignored; the
// store assigns fresh ones. The whole batch is validated up front and
// applied in a single transaction. Imported income does not accrue to goals.
func (l *Ledger) ImportBatch(ctx context.Context, records []ExportRecord) (ImportResult, error) {
	entries := make([]importEntry, 0, len(records))
	for i, rec := range records {
		kind, err := core.ParseKind(rec.Type)
		if err != nil {
			return ImportResult{}, fmt.Errorf("record %d: %w", i, err)
		}
		amount, err := core.ParseAmount(rec.Amount)
		if err != nil {
			return ImportResult{}, fmt.Errorf("record %d: %w", i, err)
		}
		createdAt, err := time.ParseInLocation(core.TimestampLayout, rec.Date, time.Local)
		if err != nil {
			return ImportResult{}, fmt.Errorf("record %d: %w", i, core.ErrInvalidDate)
		}
		entries = append(entries, importEntry{
			tx: core.Transaction{
				CreatedAt:   createdAt,
				Kind:        kind,
				Amount:      amount,
				Description: rec.Description,
				Category:    core.NormalizeCategory(rec.Category),
			},
			date: rec.Date,
		})
	}

	var result ImportResult
	err := l.store.InTx(ctx, func(q *storage.Queries) error {
		for _, e := range entries {
			n, err := q.CountTransactionsByDedupKey(ctx, e.date, e.tx.Amount, e.tx.Kind)
			if err != nil {
				return err
			}
			if n > 0 {
				result.Skipped++
				continue
			}
			if _, err := q.CreateTransaction(ctx, e.tx); err != nil {
				return err
			}
			result.Inserted++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import batch: %w", err)
	}

	slog.InfoContext(ctx, "Import finished",
		"inserted", result.Inserted,
		"skipped", result.Skipped)
	return result, nil
}

// ImportFrom reads an exported JSON document and imports it.
func (l *Ledger) ImportFrom(ctx context.Context, r io.Reader) (ImportResult, error) {
	var records []ExportRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return ImportResult{}, fmt.Errorf("decode import: %w", err)
	}
	return l.ImportBatch(ctx, records)
}
