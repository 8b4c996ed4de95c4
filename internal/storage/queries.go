package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"daftar/internal/core"
)

// SettingActiveGoal is the settings key holding the id of the goal that
// receives income accrual.
const SettingActiveGoal = "active_goal_id"

// DBTX is satisfied by both *sql.DB and *sql.Tx so every query can run
// standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// TransactionFilter narrows ListTransactions. Zero value lists everything.
type TransactionFilter struct {
	Kind     core.Kind // optional
	Category string    // optional
}

func (q *Queries) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO transactions (created_at, kind, amount_cents, description, category)
		 VALUES (?, ?, ?, ?, ?)`,
		t.CreatedAt.Format(core.TimestampLayout), string(t.Kind), t.Amount.Cents, t.Description, t.Category)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}
	return id, nil
}

// DeleteTransactionsByKey removes every transaction matching the weak
// (timestamp, amount) key and reports how many rows went away.
func (q *Queries) DeleteTransactionsByKey(ctx context.Context, createdAt time.Time, amount core.Money) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE created_at = ? AND amount_cents = ?`,
		createdAt.Format(core.TimestampLayout), amount.Cents)
	if err != nil {
		return 0, fmt.Errorf("delete transactions by key: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (q *Queries) DeleteTransactionByID(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (q *Queries) ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT id, created_at, kind, amount_cents, description, category FROM transactions`
	var (
		conds []string
		args  []any
	)
	if f.Kind != "" {
		conds = append(conds, `kind = ?`)
		args = append(args, string(f.Kind))
	}
	if f.Category != "" {
		conds = append(conds, `category = ?`)
		args = append(args, f.Category)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// CountTransactionsByDedupKey counts rows matching the import dedup key.
// Description and category are deliberately not part of the key.
func (q *Queries) CountTransactionsByDedupKey(ctx context.Context, createdAt string, amount core.Money, kind core.Kind) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE created_at = ? AND amount_cents = ? AND kind = ?`,
		createdAt, amount.Cents, string(kind)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions by dedup key: %w", err)
	}
	return n, nil
}

func (q *Queries) DeleteAllTransactions(ctx context.Context) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("delete all transactions: %w", err)
	}
	return nil
}

func (q *Queries) CreateGoal(ctx context.Context, g core.Goal) (int64, error) {
	var deadline any
	if !g.Deadline.IsEmpty() {
		deadline = g.Deadline.String()
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO goals (target_cents, current_cents, description, deadline, created_at)
		 VALUES (?, 0, ?, ?, ?)`,
		g.Target.Cents, g.Description, deadline, g.CreatedAt.Format(core.DateLayout))
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("goal id: %w", err)
	}
	return id, nil
}

func (q *Queries) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, target_cents, current_cents, description, deadline, created_at FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	return g, err
}

// LatestGoalID returns the highest goal id, or ErrNotFound when no goal exists.
func (q *Queries) LatestGoalID(ctx context.Context) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, `SELECT id FROM goals ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("latest goal id: %w", err)
	}
	return id, nil
}

func (q *Queries) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, target_cents, current_cents, description, deadline, created_at FROM goals ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// AddToGoalCurrent increments a goal's accumulated amount. This is the only
// write path for current_cents.
func (q *Queries) AddToGoalCurrent(ctx context.Context, id int64, amount core.Money) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = current_cents + ? WHERE id = ?`, amount.Cents, id)
	if err != nil {
		return fmt.Errorf("update goal current: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (q *Queries) DeleteAllGoals(ctx context.Context) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM goals`); err != nil {
		return fmt.Errorf("delete all goals: %w", err)
	}
	return nil
}

func (q *Queries) CreateReminder(ctx context.Context, r core.Reminder) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO reminders (description, due_date, completed) VALUES (?, ?, 0)`,
		r.Description, r.DueDate.String())
	if err != nil {
		return 0, fmt.Errorf("insert reminder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reminder id: %w", err)
	}
	return id, nil
}

func (q *Queries) CompleteReminder(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `UPDATE reminders SET completed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("complete reminder: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (q *Queries) DeleteReminder(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (q *Queries) ListReminders(ctx context.Context) ([]core.Reminder, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, description, due_date, completed FROM reminders ORDER BY due_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

// DueReminders returns uncompleted reminders due exactly on the given date.
func (q *Queries) DueReminders(ctx context.Context, day core.Date) ([]core.Reminder, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, description, due_date, completed FROM reminders WHERE due_date = ? AND completed = 0 ORDER BY id`,
		day.String())
	if err != nil {
		return nil, fmt.Errorf("due reminders: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (q *Queries) DeleteAllReminders(ctx context.Context) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM reminders`); err != nil {
		return fmt.Errorf("delete all reminders: %w", err)
	}
	return nil
}

// GetPasswordHash returns the stored credential digest, or ErrNotFound when
// no credential has been bootstrapped yet.
func (q *Queries) GetPasswordHash(ctx context.Context) (string, error) {
	var hash string
	err := q.db.QueryRowContext(ctx, `SELECT password_hash FROM security WHERE id = 1`).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

// ReplacePasswordHash swaps the singleton credential row. Callers must run
// this inside a transaction so there is never a window with two valid hashes.
func (q *Queries) ReplacePasswordHash(ctx context.Context, hash string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM security`); err != nil {
		return fmt.Errorf("clear security row: %w", err)
	}
	if _, err := q.db.ExecContext(ctx, `INSERT INTO security (id, password_hash) VALUES (1, ?)`, hash); err != nil {
		return fmt.Errorf("insert security row: %w", err)
	}
	return nil
}

func (q *Queries) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

func (q *Queries) SetSetting(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

func (q *Queries) DeleteSetting(ctx context.Context, key string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// ActiveGoalID resolves the accrual target: the explicit pointer when set
// and still valid, otherwise the newest goal. ErrNotFound when no goal exists.
func (q *Queries) ActiveGoalID(ctx context.Context) (int64, error) {
	value, err := q.GetSetting(ctx, SettingActiveGoal)
	if err == nil {
		if id, perr := strconv.ParseInt(value, 10, 64); perr == nil {
			if _, gerr := q.GetGoal(ctx, id); gerr == nil {
				return id, nil
			}
		}
		// Dangling pointer, fall through to the newest goal.
	} else if !errors.Is(err, core.ErrNotFound) {
		return 0, err
	}
	return q.LatestGoalID(ctx)
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var txs []core.Transaction
	for rows.Next() {
		var (
			t         core.Transaction
			createdAt string
			kind      string
		)
		if err := rows.Scan(&t.ID, &createdAt, &kind, &t.Amount.Cents, &t.Description, &t.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		ts, err := time.ParseInLocation(core.TimestampLayout, createdAt, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse transaction timestamp %q: %w", createdAt, err)
		}
		t.CreatedAt = ts
		t.Kind = core.Kind(kind)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var (
		g         core.Goal
		deadline  sql.NullString
		createdAt string
	)
	if err := row.Scan(&g.ID, &g.Target.Cents, &g.Current.Cents, &g.Description, &deadline, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Goal{}, err
		}
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	if deadline.Valid && deadline.String != "" {
		d, err := core.ParseDate(deadline.String)
		if err != nil {
			return core.Goal{}, fmt.Errorf("parse goal deadline %q: %w", deadline.String, err)
		}
		g.Deadline = d
	}
	created, err := time.ParseInLocation(core.DateLayout, createdAt, time.Local)
	if err != nil {
		return core.Goal{}, fmt.Errorf("parse goal created date %q: %w", createdAt, err)
	}
	g.CreatedAt = created
	return g, nil
}

func scanReminders(rows *sql.Rows) ([]core.Reminder, error) {
	var out []core.Reminder
	for rows.Next() {
		var (
			r         core.Reminder
			due       string
			completed int64
		)
		if err := rows.Scan(&r.ID, &r.Description, &due, &completed); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		d, err := core.ParseDate(due)
		if err != nil {
			return nil, fmt.Errorf("parse reminder due date %q: %w", due, err)
		}
		r.DueDate = d
		r.Completed = completed != 0
		out = append(out, r)
	}
	return out, rows.Err()
}
