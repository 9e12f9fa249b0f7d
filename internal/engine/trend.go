package engine

import (
	"context"

	"expense-assistant/internal/store"
)

// MonthlyTrend returns up to twelve months of per-month spending totals.
// Store failures degrade to an empty trend so dashboards never break.
func (e *Engine) MonthlyTrend(ctx context.Context, userID int64) []store.MonthlyTotal {
	since := e.now().AddDate(0, 0, -365)

	trend, err := e.store.TrendByMonth(ctx, userID, since)
	if err != nil {
		e.logger.Error("monthly trend query failed", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		return []store.MonthlyTotal{}
	}
	if trend == nil {
		trend = []store.MonthlyTotal{}
	}
	return trend
}
