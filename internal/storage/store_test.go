package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"daftar/internal/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "daftar.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func ts(s string) time.Time {
	t, err := time.ParseInLocation(core.TimestampLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTransactionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateTransaction(ctx, core.Transaction{
		CreatedAt:   ts("2025-03-09 12:30:05"),
		Kind:        core.Expense,
		Amount:      core.Money{Cents: 4550},
		Description: "groceries",
		Category:    "food",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	txs, err := store.ListTransactions(ctx, TransactionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	got := txs[0]
	if got.Kind != core.Expense || got.Amount.Cents != 4550 || got.Category != "food" {
		t.Fatalf("unexpected transaction %+v", got)
	}
	if !got.CreatedAt.Equal(ts("2025-03-09 12:30:05")) {
		t.Fatalf("timestamp did not round-trip: %v", got.CreatedAt)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []core.Transaction{
		{CreatedAt: ts("2025-01-01 09:00:00"), Kind: core.Income, Amount: core.Money{Cents: 100}, Category: "salary"},
		{CreatedAt: ts("2025-01-02 09:00:00"), Kind: core.Expense, Amount: core.Money{Cents: 200}, Category: "food"},
		{CreatedAt: ts("2025-01-03 09:00:00"), Kind: core.Expense, Amount: core.Money{Cents: 300}, Category: "rent"},
	}
	for _, tx := range seed {
		if _, err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	byKind, err := store.ListTransactions(ctx, TransactionFilter{Kind: core.Expense})
	if err != nil {
		t.Fatalf("list by kind: %v", err)
	}
	if len(byKind) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(byKind))
	}
	// Newest first.
	if byKind[0].Category != "rent" {
		t.Fatalf("expected rent first, got %s", byKind[0].Category)
	}

	byCat, err := store.ListTransactions(ctx, TransactionFilter{Category: "food"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCat) != 1 || byCat[0].Amount.Cents != 200 {
		t.Fatalf("unexpected category filter result %+v", byCat)
	}
}

func TestDeleteTransactionsByKeyRemovesAllMatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	when := ts("2025-05-01 10:00:00")

	// Two distinct rows sharing timestamp and amount: the weak key hits both.
	for _, desc := range []string{"first", "second"} {
		if _, err := store.CreateTransaction(ctx, core.Transaction{
			CreatedAt: when, Kind: core.Expense, Amount: core.Money{Cents: 999},
			Description: desc, Category: "misc",
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, err := store.DeleteTransactionsByKey(ctx, when, core.Money{Cents: 999})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}
}

func TestGoalQueries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateGoal(ctx, core.Goal{
		Target:      core.Money{Cents: 100000},
		Description: "emergency fund",
		CreatedAt:   ts("2025-02-01 00:00:00"),
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	if err := store.AddToGoalCurrent(ctx, id, core.Money{Cents: 2500}); err != nil {
		t.Fatalf("accrue: %v", err)
	}
	g, err := store.GetGoal(ctx, id)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if g.Current.Cents != 2500 {
		t.Fatalf("expected current 2500, got %d", g.Current.Cents)
	}

	if err := store.AddToGoalCurrent(ctx, id+100, core.Money{Cents: 1}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing goal, got %v", err)
	}
}

func TestActiveGoalID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.ActiveGoalID(ctx); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound with no goals, got %v", err)
	}

	first, _ := store.CreateGoal(ctx, core.Goal{Target: core.Money{Cents: 100}, CreatedAt: ts("2025-01-01 00:00:00")})
	second, _ := store.CreateGoal(ctx, core.Goal{Target: core.Money{Cents: 200}, CreatedAt: ts("2025-01-02 00:00:00")})

	// No pointer set: newest goal wins.
	id, err := store.ActiveGoalID(ctx)
	if err != nil || id != second {
		t.Fatalf("expected newest goal %d, got %d (err=%v)", second, id, err)
	}

	// Explicit pointer overrides.
	if err := store.SetSetting(ctx, SettingActiveGoal, "1"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	id, err = store.ActiveGoalID(ctx)
	if err != nil || id != first {
		t.Fatalf("expected pointed goal %d, got %d (err=%v)", first, id, err)
	}

	// Dangling pointer falls back to the newest goal.
	if err := store.SetSetting(ctx, SettingActiveGoal, "9999"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	id, err = store.ActiveGoalID(ctx)
	if err != nil || id != second {
		t.Fatalf("expected fallback goal %d, got %d (err=%v)", second, id, err)
	}
}

func TestReminderQueries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	today := core.NewDate(2025, 6, 15)
	ids := make([]int64, 0, 3)
	for _, r := range []core.Reminder{
		{Description: "pay rent", DueDate: today},
		{Description: "call bank", DueDate: today},
		{Description: "later", DueDate: core.NewDate(2025, 6, 16)},
	} {
		id, err := store.CreateReminder(ctx, r)
		if err != nil {
			t.Fatalf("create reminder: %v", err)
		}
		ids = append(ids, id)
	}

	if err := store.CompleteReminder(ctx, ids[1]); err != nil {
		t.Fatalf("complete: %v", err)
	}

	due, err := store.DueReminders(ctx, today)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if len(due) != 1 || due[0].Description != "pay rent" {
		t.Fatalf("unexpected due set %+v", due)
	}

	if err := store.CompleteReminder(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteReminder(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReplacePasswordHash(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetPasswordHash(ctx); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}
	if err := store.ReplacePasswordHash(ctx, "aaa"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.ReplacePasswordHash(ctx, "bbb"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	hash, err := store.GetPasswordHash(ctx)
	if err != nil || hash != "bbb" {
		t.Fatalf("expected bbb, got %q (err=%v)", hash, err)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.InTx(ctx, func(q *Queries) error {
		if _, err := q.CreateTransaction(ctx, core.Transaction{
			CreatedAt: ts("2025-01-01 00:00:00"), Kind: core.Income, Amount: core.Money{Cents: 100},
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	txs, err := store.ListTransactions(ctx, TransactionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected rollback to leave store empty, got %d rows", len(txs))
	}
}
