package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"expense-assistant/internal/timerange"
)

// MemoryStore is an in-memory TransactionStore used in tests and local
// development. Safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions []Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(_ context.Context, userID int64, amount float64, description, category string, occurredAt time.Time) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Category:    category,
		OccurredAt:  occurredAt,
	}
	s.transactions = append(s.transactions, tx)
	return &tx, nil
}

// Len reports the number of stored transactions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transactions)
}

func (s *MemoryStore) inRange(userID int64, iv timerange.Interval) []Transaction {
	var out []Transaction
	for _, tx := range s.transactions {
		if tx.UserID == userID && iv.Contains(tx.OccurredAt) {
			out = append(out, tx)
		}
	}
	return out
}

func (s *MemoryStore) FindByUserAndRange(_ context.Context, userID int64, iv timerange.Interval) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inRange(userID, iv), nil
}

func (s *MemoryStore) SumByUserAndRange(_ context.Context, userID int64, iv timerange.Interval) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, tx := range s.inRange(userID, iv) {
		total += tx.Amount
	}
	return total, nil
}

func (s *MemoryStore) SumByCategoryMatch(_ context.Context, userID int64, iv timerange.Interval, category string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(category)
	var total float64
	for _, tx := range s.inRange(userID, iv) {
		if strings.Contains(strings.ToLower(tx.Category), needle) {
			total += tx.Amount
		}
	}
	return total, nil
}

func (s *MemoryStore) GroupByCategory(_ context.Context, userID int64, iv timerange.Interval, limit int) ([]CategoryTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[string]float64)
	for _, tx := range s.inRange(userID, iv) {
		sums[tx.Category] += tx.Amount
	}

	out := make([]CategoryTotal, 0, len(sums))
	for cat, total := range sums {
		out = append(out, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ExtremeByAmount(_ context.Context, userID int64, iv timerange.Interval, highest bool) (*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *Transaction
	for _, tx := range s.inRange(userID, iv) {
		tx := tx
		if best == nil {
			best = &tx
			continue
		}
		if highest && tx.Amount > best.Amount {
			best = &tx
		}
		if !highest && tx.Amount < best.Amount {
			best = &tx
		}
	}
	return best, nil
}

func (s *MemoryStore) ListRecent(_ context.Context, userID int64, iv timerange.Interval, limit int) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.inRange(userID, iv)
	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) SearchByDescription(_ context.Context, userID int64, iv timerange.Interval, query string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	var out []Transaction
	for _, tx := range s.inRange(userID, iv) {
		if strings.Contains(strings.ToLower(tx.Description), needle) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *MemoryStore) TrendByMonth(_ context.Context, userID int64, since time.Time) ([]MonthlyTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type ym struct {
		year  int
		month time.Month
	}
	sums := make(map[ym]float64)
	for _, tx := range s.transactions {
		if tx.UserID != userID || tx.OccurredAt.Before(since) {
			continue
		}
		sums[ym{tx.OccurredAt.Year(), tx.OccurredAt.Month()}] += tx.Amount
	}

	out := make([]MonthlyTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, MonthlyTotal{Year: k.year, Month: k.month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}
