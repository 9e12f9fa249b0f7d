package engine

import (
	"context"
	"fmt"
	"strings"

	"expense-assistant/internal/common/metrics"
	"expense-assistant/internal/timerange"
)

func (e *Engine) handleSummary(ctx context.Context, userID int64, bag entityBag) string {
	timeRange := bag.stringValue("time_range")
	iv := timerange.ResolveAt(timeRange, e.now())
	desc := timeDesc(timeRange)

	txs, err := e.store.FindByUserAndRange(ctx, userID, iv)
	if err != nil {
		e.logger.Error("summary query failed", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		metrics.HandlerFallbacks.WithLabelValues("get_comprehensive_summary", "store_error").Inc()
		return storeErrorReply
	}
	if len(txs) == 0 {
		return fmt.Sprintf("I couldn't find any expenses to summarize for %s.", desc)
	}

	var total float64
	mostExpensive, cheapest := txs[0], txs[0]
	for _, tx := range txs {
		total += tx.Amount
		if tx.Amount > mostExpensive.Amount {
			mostExpensive = tx
		}
		if tx.Amount < cheapest.Amount {
			cheapest = tx
		}
	}

	groups, err := e.store.GroupByCategory(ctx, userID, iv, 0)
	if err != nil {
		e.logger.Warn("category grouping failed during summary", map[string]interface{}{
			"userID": userID,
			"error":  err.Error(),
		})
		groups = nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here is a summary of your spending %s:\n", desc)
	fmt.Fprintf(&b, "- You spent a total of %s.\n", money(total))
	fmt.Fprintf(&b, "- Your most expensive purchase was '%s' for %s.\n", mostExpensive.Description, money(mostExpensive.Amount))
	fmt.Fprintf(&b, "- Your cheapest purchase was '%s' for %s.\n", cheapest.Description, money(cheapest.Amount))

	if len(groups) > 0 {
		top := groups[0]
		fmt.Fprintf(&b, "- Your top spending category was '%s' with a total of %s.\n", categoryName(top.Category), money(top.Total))

		lowest := groups[len(groups)-1]
		if lowest != top {
			fmt.Fprintf(&b, "- Your lowest spending category was '%s' with a total of %s.", categoryName(lowest.Category), money(lowest.Total))
		}
	}

	return strings.TrimSpace(b.String())
}
