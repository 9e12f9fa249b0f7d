// Package store defines the narrow read/write interface the chat engine
// uses against the durable record of transactions, plus its Postgres and
// in-memory implementations.
package store

import (
	"context"
	"time"

	"expense-assistant/internal/timerange"
)

// Transaction is a single spending record. Category may be empty when the
// record was never categorized.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// CategoryTotal is one row of a per-category aggregation.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthlyTotal is one point of the monthly spending trend.
type MonthlyTotal struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Total float64    `json:"total"`
}

// TransactionStore is the engine's view of the transaction record.
// Aggregates over empty ranges return zero values, not errors.
type TransactionStore interface {
	// Add persists a new transaction and returns it with its assigned ID.
	Add(ctx context.Context, userID int64, amount float64, description, category string, occurredAt time.Time) (*Transaction, error)

	// FindByUserAndRange returns all transactions inside the interval.
	FindByUserAndRange(ctx context.Context, userID int64, iv timerange.Interval) ([]Transaction, error)

	// SumByUserAndRange returns the total amount inside the interval.
	SumByUserAndRange(ctx context.Context, userID int64, iv timerange.Interval) (float64, error)

	// SumByCategoryMatch sums amounts whose category contains the given
	// substring, case-insensitively.
	SumByCategoryMatch(ctx context.Context, userID int64, iv timerange.Interval, category string) (float64, error)

	// GroupByCategory sums per category inside the interval, ordered by
	// descending total. A non-positive limit returns every group.
	GroupByCategory(ctx context.Context, userID int64, iv timerange.Interval, limit int) ([]CategoryTotal, error)

	// ExtremeByAmount returns the single highest (or lowest) transaction
	// by amount inside the interval, or nil when the interval is empty.
	ExtremeByAmount(ctx context.Context, userID int64, iv timerange.Interval, highest bool) (*Transaction, error)

	// ListRecent returns up to limit transactions inside the interval,
	// newest first.
	ListRecent(ctx context.Context, userID int64, iv timerange.Interval, limit int) ([]Transaction, error)

	// SearchByDescription returns transactions whose description contains
	// the query, case-insensitively, inside the interval.
	SearchByDescription(ctx context.Context, userID int64, iv timerange.Interval, query string) ([]Transaction, error)

	// TrendByMonth returns per-month totals since the given time,
	// chronologically ascending.
	TrendByMonth(ctx context.Context, userID int64, since time.Time) ([]MonthlyTotal, error)
}
