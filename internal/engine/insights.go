package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"expense-assistant/internal/common/metrics"
	"expense-assistant/internal/insights"
	"expense-assistant/internal/store"
	"expense-assistant/internal/timerange"
)

func (e *Engine) handleInsights(ctx context.Context, userID int64, bag entityBag) string {
	timeRange := bag.stringValue("time_range")
	iv := timerange.ResolveAt(timeRange, e.now())

	if ins, ok := e.cachedInsights(ctx, userID, iv); ok {
		return insightsReply(ins)
	}

	txs, err := e.store.FindByUserAndRange(ctx, userID, iv)
	if err != nil {
		e.logger.Error("insights query failed", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		metrics.HandlerFallbacks.WithLabelValues("get_insights", "store_error").Inc()
		return storeErrorReply
	}
	if len(txs) == 0 {
		return "I couldn't find any expenses for that period to analyze."
	}

	ins := e.generateInsights(ctx, txs, iv)
	e.storeInsights(ctx, userID, iv, ins)

	return insightsReply(ins)
}

// generateInsights calls the model and normalizes whatever comes back.
// The reply is always a valid canonical object.
func (e *Engine) generateInsights(ctx context.Context, txs []store.Transaction, iv timerange.Interval) insights.Insights {
	projected := make([]map[string]interface{}, 0, len(txs))
	for _, tx := range txs {
		projected = append(projected, map[string]interface{}{
			"amount":      tx.Amount,
			"description": tx.Description,
			"category":    tx.Category,
			"date":        tx.OccurredAt.Format(time.RFC3339),
		})
	}
	data, _ := json.Marshal(projected)

	prompt, ok := e.prompts.Render("insights", map[string]string{
		"expenses": string(data),
		"start":    dateStr(iv.Start),
		"end":      dateStr(iv.End),
	})
	if !ok {
		metrics.HandlerFallbacks.WithLabelValues("get_insights", "prompt_missing").Inc()
		return insights.Normalize("")
	}

	start := time.Now()
	raw, err := e.gen.Generate(ctx, prompt)
	metrics.AICallDuration.WithLabelValues("insights").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AICalls.WithLabelValues("insights", "failure").Inc()
		e.logger.Warn("AI insights call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return insights.Normalize("")
	}
	metrics.AICalls.WithLabelValues("insights", "success").Inc()

	return insights.Normalize(raw)
}

func insightsReply(ins insights.Insights) string {
	reply := fmt.Sprintf("In that period, you've spent a total of %s. ", money(ins.TotalSpent))
	if name, ok := ins.TopCategoryName(); ok {
		reply += fmt.Sprintf("Your top spending category was '%s'.", name)
	}
	return reply
}

func insightsCacheKey(userID int64, iv timerange.Interval) string {
	return fmt.Sprintf("insights:%d:%d:%d", userID, iv.Start.UnixMicro(), iv.End.UnixMicro())
}

func (e *Engine) cachedInsights(ctx context.Context, userID int64, iv timerange.Interval) (insights.Insights, bool) {
	if e.cache == nil {
		return insights.Insights{}, false
	}

	val, err := e.cache.Get(ctx, insightsCacheKey(userID, iv)).Result()
	if err != nil {
		metrics.InsightsCacheHits.WithLabelValues("miss").Inc()
		return insights.Insights{}, false
	}

	var ins insights.Insights
	if err := json.Unmarshal([]byte(val), &ins); err != nil {
		metrics.InsightsCacheHits.WithLabelValues("miss").Inc()
		return insights.Insights{}, false
	}

	metrics.InsightsCacheHits.WithLabelValues("hit").Inc()
	return ins, true
}

func (e *Engine) storeInsights(ctx context.Context, userID int64, iv timerange.Interval, ins insights.Insights) {
	if e.cache == nil || e.config.InsightsCacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(ins)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, insightsCacheKey(userID, iv), data, e.config.InsightsCacheTTL).Err(); err != nil {
		e.logger.Warn("failed to cache insights", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
	}
}
