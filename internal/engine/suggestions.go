package engine

import (
	"context"
	"encoding/json"
	"time"

	"expense-assistant/internal/common/metrics"
	"expense-assistant/internal/store"
	"expense-assistant/internal/timerange"
)

const suggestionsApology = "I'm sorry, I couldn't come up with suggestions right now."

// handleSuggestions compares the last 30 days of spending against the
// 31 days before them and asks the model for actionable advice.
func (e *Engine) handleSuggestions(ctx context.Context, userID int64, _ entityBag) string {
	today := e.now()
	currentStart := today.AddDate(0, 0, -30)
	current := timerange.Interval{Start: currentStart, End: today}
	previous := timerange.Interval{
		Start: currentStart.AddDate(0, 0, -31),
		End:   currentStart.AddDate(0, 0, -1),
	}

	currentTxs, err := e.store.FindByUserAndRange(ctx, userID, current)
	if err != nil {
		e.logger.Error("suggestions query failed", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		metrics.HandlerFallbacks.WithLabelValues("get_suggestions", "store_error").Inc()
		return storeErrorReply
	}
	if len(currentTxs) == 0 {
		return "I don't have enough recent spending data to provide suggestions."
	}

	previousTxs, err := e.store.FindByUserAndRange(ctx, userID, previous)
	if err != nil {
		e.logger.Warn("previous period query failed, comparing against empty period", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		previousTxs = nil
	}

	prompt, ok := e.prompts.Render("suggestions", map[string]string{
		"current_expenses":  projectExpenses(currentTxs),
		"previous_expenses": projectExpenses(previousTxs),
		"current_start":     dateStr(current.Start),
		"current_end":       dateStr(current.End),
		"previous_start":    dateStr(previous.Start),
		"previous_end":      dateStr(previous.End),
	})
	if !ok {
		metrics.HandlerFallbacks.WithLabelValues("get_suggestions", "prompt_missing").Inc()
		return suggestionsApology
	}

	start := time.Now()
	text, err := e.gen.Generate(ctx, prompt)
	metrics.AICallDuration.WithLabelValues("suggestions").Observe(time.Since(start).Seconds())

	if err != nil || text == "" {
		metrics.AICalls.WithLabelValues("suggestions", "failure").Inc()
		if err != nil {
			e.logger.Warn("AI suggestions call failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return suggestionsApology
	}
	metrics.AICalls.WithLabelValues("suggestions", "success").Inc()

	return text
}

// projectExpenses serializes the fields the model needs and nothing else.
func projectExpenses(txs []store.Transaction) string {
	projected := make([]map[string]interface{}, 0, len(txs))
	for _, tx := range txs {
		projected = append(projected, map[string]interface{}{
			"description": tx.Description,
			"amount":      tx.Amount,
			"category":    tx.Category,
		})
	}
	data, _ := json.Marshal(projected)
	return string(data)
}
