package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-assistant/internal/timerange"
)

func seedMemoryStore(t *testing.T) (*MemoryStore, timerange.Interval) {
	t.Helper()
	s := NewMemoryStore()
	iv := testInterval()
	ctx := context.Background()

	seed := []struct {
		amount      float64
		description string
		category    string
		offset      time.Duration
	}{
		{12.5, "morning coffee", "Food", time.Hour},
		{45.0, "weekly groceries", "Food", 24 * time.Hour},
		{9.99, "bus pass", "Transport", 48 * time.Hour},
		{200.0, "concert tickets", "", 72 * time.Hour},
	}
	for _, txn := range seed {
		_, err := s.Add(ctx, 7, txn.amount, txn.description, txn.category, iv.Start.Add(txn.offset))
		require.NoError(t, err)
	}

	// Another user's data must never leak into user 7's results.
	_, err := s.Add(ctx, 8, 999.0, "yacht fuel", "Travel", iv.Start.Add(time.Hour))
	require.NoError(t, err)

	return s, iv
}

func TestMemoryStore_SumByUserAndRange(t *testing.T) {
	s, iv := seedMemoryStore(t)

	total, err := s.SumByUserAndRange(context.Background(), 7, iv)

	assert.NoError(t, err)
	assert.InDelta(t, 267.49, total, 0.001)
}

func TestMemoryStore_SumScopedToInterval(t *testing.T) {
	s, iv := seedMemoryStore(t)
	narrow := timerange.Interval{Start: iv.Start, End: iv.Start.Add(2 * time.Hour)}

	total, err := s.SumByUserAndRange(context.Background(), 7, narrow)

	assert.NoError(t, err)
	assert.Equal(t, 12.5, total)
}

func TestMemoryStore_GroupByCategory(t *testing.T) {
	s, iv := seedMemoryStore(t)

	got, err := s.GroupByCategory(context.Background(), 7, iv, 2)

	assert.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "", got[0].Category)
	assert.Equal(t, 200.0, got[0].Total)
	assert.Equal(t, "Food", got[1].Category)
	assert.Equal(t, 57.5, got[1].Total)
}

func TestMemoryStore_ExtremeByAmount(t *testing.T) {
	s, iv := seedMemoryStore(t)
	ctx := context.Background()

	highest, err := s.ExtremeByAmount(ctx, 7, iv, true)
	require.NoError(t, err)
	assert.Equal(t, "concert tickets", highest.Description)

	lowest, err := s.ExtremeByAmount(ctx, 7, iv, false)
	require.NoError(t, err)
	assert.Equal(t, "bus pass", lowest.Description)

	none, err := s.ExtremeByAmount(ctx, 99, iv, true)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMemoryStore_ListRecentNewestFirst(t *testing.T) {
	s, iv := seedMemoryStore(t)

	got, err := s.ListRecent(context.Background(), 7, iv, 3)

	assert.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "concert tickets", got[0].Description)
	assert.Equal(t, "bus pass", got[1].Description)
}

func TestMemoryStore_SearchByDescription(t *testing.T) {
	s, iv := seedMemoryStore(t)

	got, err := s.SearchByDescription(context.Background(), 7, iv, "COFFEE")

	assert.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 12.5, got[0].Amount)
}

func TestMemoryStore_SumByCategoryMatch(t *testing.T) {
	s, iv := seedMemoryStore(t)

	total, err := s.SumByCategoryMatch(context.Background(), 7, iv, "food")

	assert.NoError(t, err)
	assert.Equal(t, 57.5, total)
}

func TestMemoryStore_TrendByMonth(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Add(ctx, 7, 10.0, "a", "Food", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = s.Add(ctx, 7, 20.0, "b", "Food", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = s.Add(ctx, 7, 5.0, "c", "Food", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	got, err := s.TrendByMonth(ctx, 7, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, MonthlyTotal{Year: 2025, Month: time.March, Total: 30.0}, got[0])
	assert.Equal(t, MonthlyTotal{Year: 2025, Month: time.May, Total: 5.0}, got[1])
}
