// Package services holds the ledger's business operations on top of the
// storage layer: transaction recording with goal accrual, goals, reminders,
// bulk clear, and the export/import round-trip.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"daftar/internal/core"
	"daftar/internal/storage"
)

// Ledger enforces the transaction invariants. It keeps no state of its own:
// every operation reads what it needs from the store.
type Ledger struct {
	store *storage.SQLiteStore
	now   func() time.Time
}

func NewLedger(store *storage.SQLiteStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// RecordTransaction validates and inserts a new ledger entry. When the entry
// is income and a goal exists, the active goal's current amount grows by the
// same amount inside the same database transaction, so the entry and its
// accrual land together or not at all.
func (l *Ledger) RecordTransaction(ctx context.Context, kind core.Kind, amount core.Money, description, category string) (int64, error) {
	tx := core.Transaction{
		CreatedAt:   l.now().Truncate(time.Second),
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Category:    core.NormalizeCategory(category),
	}
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := l.store.InTx(ctx, func(q *storage.Queries) error {
		var err error
		id, err = q.CreateTransaction(ctx, tx)
		if err != nil {
			return err
		}
		if tx.Kind != core.Income {
			return nil
		}
		goalID, err := q.ActiveGoalID(ctx)
		if errors.Is(err, core.ErrNotFound) {
			return nil // no goal to accrue into
		}
		if err != nil {
			return err
		}
		return q.AddToGoalCurrent(ctx, goalID, tx.Amount)
	})
	if err != nil {
		return 0, fmt.Errorf("record transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"id", id,
		"kind", string(tx.Kind),
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)
	return id, nil
}

// DeleteTransactions removes every entry matching the (timestamp, amount)
// key and returns how many were removed. The key is weak: two entries that
// share a timestamp and amount are indistinguishable and both go away.
// Goal accrual from deleted income is NOT reversed.
func (l *Ledger) DeleteTransactions(ctx context.Context, createdAt time.Time, amount core.Money) (int64, error) {
	n, err := l.store.DeleteTransactionsByKey(ctx, createdAt, amount)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	slog.InfoContext(ctx, "Transactions deleted",
		"matched", n,
		"created_at", createdAt.Format(core.TimestampLayout),
		"amount_cents", amount.Cents)
	return n, nil
}

// DeleteTransactionByID is the id-based alternative to the weak-key delete.
func (l *Ledger) DeleteTransactionByID(ctx context.Context, id int64) error {
	if err := l.store.DeleteTransactionByID(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrNotFound
		}
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

func (l *Ledger) ListTransactions(ctx context.Context, f storage.TransactionFilter) ([]core.Transaction, error) {
	return l.store.ListTransactions(ctx, f)
}

// Snapshot returns all transactions for analytics, newest first.
func (l *Ledger) Snapshot(ctx context.Context) ([]core.Transaction, error) {
	return l.store.ListTransactions(ctx, storage.TransactionFilter{})
}

// CreateGoal stores a new savings goal and makes it the active accrual
// target, both inside one database transaction.
func (l *Ledger) CreateGoal(ctx context.Context, target core.Money, description string, deadline core.Date) (int64, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	goal := core.Goal{
		Target:      target,
		Description: description,
		Deadline:    deadline,
		CreatedAt:   l.now(),
	}

	var id int64
	err := l.store.InTx(ctx, func(q *storage.Queries) error {
		var err error
		id, err = q.CreateGoal(ctx, goal)
		if err != nil {
			return err
		}
		return q.SetSetting(ctx, storage.SettingActiveGoal, strconv.FormatInt(id, 10))
	})
	if err != nil {
		return 0, fmt.Errorf("create goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal created", "id", id, "target_cents", target.Cents)
	return id, nil
}

func (l *Ledger) ListGoals(ctx context.Context) ([]core.Goal, error) {
	return l.store.ListGoals(ctx)
}

// ActiveGoal returns the goal currently receiving income accrual, or
// core.ErrNotFound when none exists.
func (l *Ledger) ActiveGoal(ctx context.Context) (core.Goal, error) {
	id, err := l.store.ActiveGoalID(ctx)
	if err != nil {
		return core.Goal{}, err
	}
	return l.store.GetGoal(ctx, id)
}

// CreateReminder stores a date-based reminder. The due date must be a
// parseable YYYY-MM-DD calendar date.
func (l *Ledger) CreateReminder(ctx context.Context, description, dueDate string) (int64, error) {
	due, err := core.ParseDate(dueDate)
	if err != nil {
		return 0, err
	}
	id, err := l.store.CreateReminder(ctx, core.Reminder{Description: description, DueDate: due})
	if err != nil {
		return 0, fmt.Errorf("create reminder: %w", err)
	}
	slog.InfoContext(ctx, "Reminder created", "id", id, "due_date", due.String())
	return id, nil
}

func (l *Ledger) CompleteReminder(ctx context.Context, id int64) error {
	return l.store.CompleteReminder(ctx, id)
}

func (l *Ledger) DeleteReminder(ctx context.Context, id int64) error {
	return l.store.DeleteReminder(ctx, id)
}

func (l *Ledger) ListReminders(ctx context.Context) ([]core.Reminder, error) {
	return l.store.ListReminders(ctx)
}

// DueToday returns uncompleted reminders whose due date is exactly today.
// It is a point-in-time check made once at session start, not a poller.
func (l *Ledger) DueToday(ctx context.Context, today core.Date) ([]core.Reminder, error) {
	return l.store.DueReminders(ctx, today)
}

// ClearAll wipes transactions, goals, and reminders in one transaction.
// The stored credential survives. There is no undo.
func (l *Ledger) ClearAll(ctx context.Context) error {
	err := l.store.InTx(ctx, func(q *storage.Queries) error {
		if err := q.DeleteAllTransactions(ctx); err != nil {
			return err
		}
		if err := q.DeleteAllGoals(ctx); err != nil {
			return err
		}
		if err := q.DeleteAllReminders(ctx); err != nil {
			return err
		}
		return q.DeleteSetting(ctx, storage.SettingActiveGoal)
	})
	if err != nil {
		return fmt.Errorf("clear all data: %w", err)
	}
	slog.WarnContext(ctx, "All ledger data cleared")
	return nil
}

// Backup copies the database file to dst.
func (l *Ledger) Backup(ctx context.Context, dst string) error {
	return l.store.Backup(ctx, dst)
}

// Restore replaces the database file with src and reconnects.
func (l *Ledger) Restore(ctx context.Context, src string) error {
	return l.store.Restore(ctx, src)
}
