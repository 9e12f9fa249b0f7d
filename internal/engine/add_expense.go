package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"expense-assistant/internal/common/metrics"
)

const fallbackCategory = "Miscellaneous"

func (e *Engine) handleAddExpense(ctx context.Context, userID int64, bag entityBag) string {
	amount := bag.floatOrZero("amount")
	description := bag.stringValue("description")

	if amount == 0 || description == "" {
		return "I'm missing the amount or description."
	}
	if amount < 0 {
		return "The expense amount must be a positive number."
	}

	category := e.categorize(ctx, description)

	tx, err := e.store.Add(ctx, userID, amount, description, category, e.now())
	if err != nil {
		e.logger.Error("failed to store expense", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		metrics.HandlerFallbacks.WithLabelValues("add_expense", "store_error").Inc()
		return storeErrorReply
	}

	if e.search != nil {
		if err := e.search.Index(ctx, tx); err != nil {
			e.logger.Warn("failed to index expense for search", map[string]interface{}{
				"transactionID": tx.ID,
				"error":         err.Error(),
			})
		}
	}

	return fmt.Sprintf("Got it. I've added an expense of %s for '%s'.", money(amount), description)
}

// categorize asks the model for a single category word. Any failure
// falls back to the catch-all category so the expense is never lost.
func (e *Engine) categorize(ctx context.Context, description string) string {
	prompt, ok := e.prompts.Render("categorize_expense", map[string]string{
		"description": description,
	})
	if !ok {
		metrics.HandlerFallbacks.WithLabelValues("add_expense", "prompt_missing").Inc()
		return fallbackCategory
	}

	start := time.Now()
	text, err := e.gen.Generate(ctx, prompt)
	metrics.AICallDuration.WithLabelValues("categorize").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AICalls.WithLabelValues("categorize", "failure").Inc()
		e.logger.Warn("AI categorization failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fallbackCategory
	}
	metrics.AICalls.WithLabelValues("categorize", "success").Inc()

	category := strings.TrimSpace(strings.Trim(text, `"'.`))
	if category == "" {
		return fallbackCategory
	}
	return category
}
