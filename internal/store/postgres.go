package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	errs "expense-assistant/internal/common/errors"
	"expense-assistant/internal/timerange"
)

// PostgresStore is the production TransactionStore backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const txColumns = "id, user_id, amount, description, category, occurred_at"

func scanTransaction(row interface{ Scan(...interface{}) error }) (*Transaction, error) {
	var tx Transaction
	var category sql.NullString
	if err := row.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Description, &category, &tx.OccurredAt); err != nil {
		return nil, err
	}
	tx.Category = category.String
	return &tx, nil
}

func (s *PostgresStore) Add(ctx context.Context, userID int64, amount float64, description, category string, occurredAt time.Time) (*Transaction, error) {
	tx := Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Category:    category,
		OccurredAt:  occurredAt,
	}

	var cat sql.NullString
	if category != "" {
		cat = sql.NullString{String: category, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, amount, description, category, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		tx.ID, tx.UserID, tx.Amount, tx.Description, cat, tx.OccurredAt,
	)
	if err != nil {
		return nil, errs.NewDatabaseInsertFailedError(err)
	}
	return &tx, nil
}

func (s *PostgresStore) FindByUserAndRange(ctx context.Context, userID int64, iv timerange.Interval) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+txColumns+` FROM transactions
		 WHERE user_id = $1 AND occurred_at BETWEEN $2 AND $3
		 ORDER BY occurred_at`,
		userID, iv.Start, iv.End,
	)
	if err != nil {
		return nil, errs.NewQueryExecutionFailedError("find_by_range", err)
	}
	defer rows.Close()

	return collect(rows)
}

func collect(rows *sql.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *tx)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SumByUserAndRange(ctx context.Context, userID int64, iv timerange.Interval) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions
		 WHERE user_id = $1 AND occurred_at BETWEEN $2 AND $3`,
		userID, iv.Start, iv.End,
	).Scan(&total)
	if err != nil {
		return 0, errs.NewQueryExecutionFailedError("sum_by_range", err)
	}
	return total, nil
}

func (s *PostgresStore) SumByCategoryMatch(ctx context.Context, userID int64, iv timerange.Interval, category string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions
		 WHERE user_id = $1 AND occurred_at BETWEEN $2 AND $3 AND category ILIKE $4`,
		userID, iv.Start, iv.End, "%"+category+"%",
	).Scan(&total)
	if err != nil {
		return 0, errs.NewQueryExecutionFailedError("sum_by_category", err)
	}
	return total, nil
}

func (s *PostgresStore) GroupByCategory(ctx context.Context, userID int64, iv timerange.Interval, limit int) ([]CategoryTotal, error) {
	query := `SELECT COALESCE(category, ''), SUM(amount) AS total FROM transactions
		 WHERE user_id = $1 AND occurred_at BETWEEN $2 AND $3
		 GROUP BY category ORDER BY total DESC`
	args := []interface{}{userID, iv.Start, iv.End}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewQueryExecutionFailedError("group_by_category", err)
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ExtremeByAmount(ctx context.Context, userID int64, iv timerange.Interval, highest bool) (*Transaction, error) {
	order := "ASC"
	if highest {
		order = "DESC"
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+txColumns+` FROM transactions
		 WHERE user_id = $1 AND occurred_at BETWEEN $2 AND $3
		 ORDER BY amount `+order+` LIMIT 1`,
		userID, iv.Start, iv.End,
	)

	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewQueryExecutionFailedError("extreme_by_amount", err)
	}
	return tx, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, userID int64, iv timerange.Interval, limit int) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+txColumns+` FROM transactions
		 WHERE user_id = $1 AND occurred_at BETWEEN $2 AND $3
		 ORDER BY occurred_at DESC LIMIT $4`,
		userID, iv.Start, iv.End, limit,
	)
	if err != nil {
		return nil, errs.NewQueryExecutionFailedError("list_recent", err)
	}
	defer rows.Close()

	return collect(rows)
}

func (s *PostgresStore) SearchByDescription(ctx context.Context, userID int64, iv timerange.Interval, query string) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+txColumns+` FROM transactions
		 WHERE user_id = $1 AND occurred_at BETWEEN $2 AND $3 AND description ILIKE $4
		 ORDER BY occurred_at`,
		userID, iv.Start, iv.End, "%"+query+"%",
	)
	if err != nil {
		return nil, errs.NewQueryExecutionFailedError("search_by_description", err)
	}
	defer rows.Close()

	return collect(rows)
}

func (s *PostgresStore) TrendByMonth(ctx context.Context, userID int64, since time.Time) ([]MonthlyTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT EXTRACT(YEAR FROM occurred_at)::int AS year,
		        EXTRACT(MONTH FROM occurred_at)::int AS month,
		        SUM(amount) AS total
		 FROM transactions
		 WHERE user_id = $1 AND occurred_at >= $2
		 GROUP BY year, month ORDER BY year, month`,
		userID, since,
	)
	if err != nil {
		return nil, errs.NewQueryExecutionFailedError("trend_by_month", err)
	}
	defer rows.Close()

	var out []MonthlyTotal
	for rows.Next() {
		var year, month int
		var total float64
		if err := rows.Scan(&year, &month, &total); err != nil {
			return nil, err
		}
		out = append(out, MonthlyTotal{Year: year, Month: time.Month(month), Total: total})
	}
	return out, rows.Err()
}
