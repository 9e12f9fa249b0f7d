package engine

import (
	"context"
	"fmt"
	"strings"

	"expense-assistant/internal/common/metrics"
	"expense-assistant/internal/store"
	"expense-assistant/internal/timerange"
)

func (e *Engine) handleQuery(ctx context.Context, userID int64, bag entityBag) string {
	target := bag.stringValue("target")
	operation := bag.stringValue("operation")
	timeRange := bag.stringValue("time_range")
	limit := bag.intOrDefault("limit", e.config.DefaultLimit)

	iv := timerange.ResolveAt(timeRange, e.now())
	desc := timeDesc(timeRange)

	switch {
	case operation == "search":
		return e.querySearch(ctx, userID, iv, target, desc)

	case (target == "item" || target == "transaction") && (operation == "highest" || operation == "lowest"):
		return e.queryExtreme(ctx, userID, iv, operation == "highest", desc)

	case (target == "item" || target == "transaction") && operation == "list":
		return e.queryList(ctx, userID, iv, limit, desc)

	case target == "category" || operation == "top":
		return e.queryCategories(ctx, userID, iv, limit, desc)

	case target != "" && operation == "total":
		return e.queryCategoryTotal(ctx, userID, iv, target, desc)

	default:
		return e.queryTotal(ctx, userID, iv, desc)
	}
}

func (e *Engine) querySearch(ctx context.Context, userID int64, iv timerange.Interval, target, desc string) string {
	results, err := e.searchTransactions(ctx, userID, iv, target)
	if err != nil {
		e.logger.Error("description search failed", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		metrics.HandlerFallbacks.WithLabelValues("query", "store_error").Inc()
		return storeErrorReply
	}

	if len(results) == 0 {
		return fmt.Sprintf("No, I couldn't find any expenses for '%s' %s.", target, desc)
	}

	var total float64
	for _, tx := range results {
		total += tx.Amount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Yes, you spent a total of %s on '%s' %s. Here are the transactions I found:", money(total), target, desc)
	for _, tx := range results {
		fmt.Fprintf(&b, "\n- %s on %s", money(tx.Amount), dateStr(tx.OccurredAt))
	}
	return b.String()
}

// searchTransactions prefers the search index and degrades to the store
// when the index is absent or failing.
func (e *Engine) searchTransactions(ctx context.Context, userID int64, iv timerange.Interval, query string) ([]store.Transaction, error) {
	if e.search != nil {
		results, err := e.search.Search(ctx, userID, iv, query)
		if err == nil {
			return results, nil
		}
		e.logger.Warn("search index unavailable, falling back to store", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return e.store.SearchByDescription(ctx, userID, iv, query)
}

func (e *Engine) queryExtreme(ctx context.Context, userID int64, iv timerange.Interval, highest bool, desc string) string {
	tx, err := e.store.ExtremeByAmount(ctx, userID, iv, highest)
	if err != nil {
		e.logger.Error("extreme query failed", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		metrics.HandlerFallbacks.WithLabelValues("query", "store_error").Inc()
		return storeErrorReply
	}
	if tx == nil {
		return fmt.Sprintf("I found no expenses %s.", desc)
	}

	if highest {
		return fmt.Sprintf("Your most expensive purchase %s was '%s' for %s.", desc, tx.Description, money(tx.Amount))
	}
	return fmt.Sprintf("Your cheapest purchase %s was '%s' for %s.", desc, tx.Description, money(tx.Amount))
}

func (e *Engine) queryList(ctx context.Context, userID int64, iv timerange.Interval, limit int, desc string) string {
	results, err := e.store.ListRecent(ctx, userID, iv, limit)
	if err != nil {
		e.logger.Error("list query failed", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		metrics.HandlerFallbacks.WithLabelValues("query", "store_error").Inc()
		return storeErrorReply
	}
	if len(results) == 0 {
		return fmt.Sprintf("I found no expenses %s.", desc)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are your last %d transactions:", len(results))
	for _, tx := range results {
		fmt.Fprintf(&b, "\n- %s for '%s' on %s", money(tx.Amount), tx.Description, dateStr(tx.OccurredAt))
	}
	return b.String()
}

func (e *Engine) queryCategories(ctx context.Context, userID int64, iv timerange.Interval, limit int, desc string) string {
	groups, err := e.store.GroupByCategory(ctx, userID, iv, limit)
	if err != nil {
		e.logger.Error("category query failed", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		metrics.HandlerFallbacks.WithLabelValues("query", "store_error").Inc()
		return storeErrorReply
	}
	if len(groups) == 0 {
		return fmt.Sprintf("I found no spending to categorize %s.", desc)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are your top %d spending categories %s:", len(groups), desc)
	for _, g := range groups {
		fmt.Fprintf(&b, "\n- %s: %s", categoryName(g.Category), money(g.Total))
	}
	return b.String()
}

func (e *Engine) queryCategoryTotal(ctx context.Context, userID int64, iv timerange.Interval, target, desc string) string {
	total, err := e.store.SumByCategoryMatch(ctx, userID, iv, target)
	if err != nil {
		e.logger.Error("category total query failed", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		metrics.HandlerFallbacks.WithLabelValues("query", "store_error").Inc()
		return storeErrorReply
	}
	return fmt.Sprintf("You spent %s on '%s' %s.", money(total), target, desc)
}

func (e *Engine) queryTotal(ctx context.Context, userID int64, iv timerange.Interval, desc string) string {
	total, err := e.store.SumByUserAndRange(ctx, userID, iv)
	if err != nil {
		e.logger.Error("total query failed", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		metrics.HandlerFallbacks.WithLabelValues("query", "store_error").Inc()
		return storeErrorReply
	}
	return fmt.Sprintf("Your total spending %s was %s.", desc, money(total))
}
