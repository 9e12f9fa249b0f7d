// Package engine routes classified chat intents to query handlers and
// formats the natural-language replies.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"expense-assistant/internal/ai"
	"expense-assistant/internal/common/metrics"
	"expense-assistant/internal/prompts"
	"expense-assistant/internal/store"
	"expense-assistant/internal/timerange"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// SearchIndex answers free-text description searches faster and fuzzier
// than the durable store. Optional; the store remains the fallback.
type SearchIndex interface {
	Search(ctx context.Context, userID int64, iv timerange.Interval, query string) ([]store.Transaction, error)
	Index(ctx context.Context, tx *store.Transaction) error
}

type Config struct {
	DefaultLimit     int
	InsightsCacheTTL time.Duration
}

type handlerFunc func(ctx context.Context, userID int64, e entityBag) string

// Engine dispatches a classified (intent, entities) pair to the matching
// handler. Unknown intents route to the fallback handler, never an error.
type Engine struct {
	config   *Config
	store    store.TransactionStore
	search   SearchIndex
	gen      ai.Generator
	prompts  *prompts.Registry
	cache    *redis.Client
	logger   Logger
	handlers map[string]handlerFunc
	now      func() time.Time
}

// New builds the engine. search and cache may be nil; the engine then
// serves searches from the store and skips insights caching.
func New(config *Config, st store.TransactionStore, gen ai.Generator, reg *prompts.Registry, search SearchIndex, cache *redis.Client, log Logger) *Engine {
	e := &Engine{
		config:  config,
		store:   st,
		search:  search,
		gen:     gen,
		prompts: reg,
		cache:   cache,
		logger:  log,
		now:     time.Now,
	}

	e.handlers = map[string]handlerFunc{
		"add_expense":               e.handleAddExpense,
		"query":                     e.handleQuery,
		"get_comprehensive_summary": e.handleSummary,
		"get_suggestions":           e.handleSuggestions,
		"get_insights":              e.handleInsights,
		"greeting":                  e.handleGreeting,
	}

	return e
}

// HandleMessage routes one classified message and returns the reply text.
// It never fails; every failure mode inside a handler degrades to a
// corrective or apologetic reply.
func (e *Engine) HandleMessage(ctx context.Context, userID int64, intent string, entities map[string]interface{}) string {
	start := time.Now()

	handler, ok := e.handlers[intent]
	label := intent
	if !ok {
		handler = e.handleFallback
		label = "fallback"
	}

	reply := handler(ctx, userID, entityBag(entities))

	metrics.MessagesHandled.WithLabelValues(label).Inc()
	metrics.HandlerDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	e.logger.Info("message handled", map[string]interface{}{
		"userID": userID,
		"intent": label,
	})

	return reply
}

const storeErrorReply = "Sorry, I'm having trouble reaching your expense records right now."

// timeDesc echoes the user's phrase back in replies.
func timeDesc(phrase string) string {
	if phrase == "" {
		return "in the last 30 days"
	}
	return "in " + phrase
}

func money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func dateStr(t time.Time) string {
	return t.Format("2006-01-02")
}

func categoryName(cat string) string {
	if cat == "" {
		return "Uncategorized"
	}
	return cat
}

func (e *Engine) handleGreeting(_ context.Context, _ int64, _ entityBag) string {
	return "Hello there! How can I help you?"
}

func (e *Engine) handleFallback(_ context.Context, _ int64, _ entityBag) string {
	return "I'm sorry, I didn't quite understand that."
}
