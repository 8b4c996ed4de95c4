package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// DefaultCategory is applied when a transaction is recorded without one.
const DefaultCategory = "Other"

// Stored date layouts. Transactions carry a second-precision timestamp,
// reminders and goal deadlines a bare calendar date.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

type (
	// Kind classifies a transaction as money in or money out.
	Kind string

	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is an immutable ledger entry. Entries are inserted and
	// deleted, never updated in place.
	Transaction struct {
		ID          int64
		CreatedAt   time.Time
		Kind        Kind
		Amount      Money
		Description string
		Category    string
	}

	// Goal is a savings target. Current is the only mutable field and only
	// grows, fed by income accrual.
	Goal struct {
		ID          int64
		Target      Money
		Current     Money
		Description string
		Deadline    Date // zero when unset
		CreatedAt   time.Time
	}

	Reminder struct {
		ID          int64
		Description string
		DueDate     Date
		Completed   bool
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrDenied        = errors.New("credential denied")
	ErrNotFound      = errors.New("not found")
)

// ParseKind maps the wire spelling of a transaction kind to Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", errors.New("invalid transaction kind")
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return errors.New("invalid transaction kind")
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// IsEmpty reports whether the date was never set (optional deadlines).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	return t.Amount.Validate()
}

// NormalizeCategory trims the label and substitutes the default for blanks.
func NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCategory
	}
	return s
}
