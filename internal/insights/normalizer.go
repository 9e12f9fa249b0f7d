// Package insights converts raw generative-model output into a canonical,
// fixed-shape spending summary. The provider is an untrusted text source:
// it may return prose around JSON, wrong types, missing fields, or nothing
// at all. Normalize never fails; every malformed input degrades to a valid
// Insights value carrying a diagnostic anomaly entry.
package insights

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Insights is the canonical structured summary. All three fields are
// always present and correctly typed after normalization.
type Insights struct {
	TotalSpent    float64                  `json:"total_spent"`
	TopCategories []interface{}            `json:"top_categories"`
	Anomalies     []map[string]interface{} `json:"anomalies"`
}

// Anomaly reason key used when wrapping non-object anomaly entries.
const anomalyKey = "error_message"

// Normalize accepts raw provider output, either an already-decoded mapping
// or a string possibly containing explanatory prose plus one embedded JSON
// object, and returns the canonical insights shape.
func Normalize(raw interface{}) Insights {
	switch v := raw.(type) {
	case map[string]interface{}:
		return validate(v)

	case string:
		if v == "" {
			return emptyResponse()
		}
		data, ok := extractJSON(v)
		if !ok {
			return parseError()
		}
		return validate(data)

	default:
		return unexpectedType(raw)
	}
}

// extractJSON slices the candidate object between the first '{' and the
// last '}' and attempts a single strict parse. No partial recovery is
// attempted beyond this one slice-and-parse.
func extractJSON(s string) (map[string]interface{}, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(s[start:end+1]), &data); err != nil {
		return nil, false
	}
	return data, true
}

// validate coerces a candidate mapping into the canonical shape. Bad or
// missing fields are replaced with safe defaults, never errors.
func validate(data map[string]interface{}) Insights {
	return Insights{
		TotalSpent:    coerceTotal(data["total_spent"]),
		TopCategories: coerceList(data["top_categories"]),
		Anomalies:     coerceAnomalies(data["anomalies"]),
	}
}

// coerceTotal returns a non-negative float. Absent, non-numeric, or
// negative values all collapse to 0.
func coerceTotal(v interface{}) float64 {
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return 0.0
	}
	return f
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceList keeps the value only if it is a sequence. Element shape is
// not enforced here; see ValidateStrict for the deeper contract.
func coerceList(v interface{}) []interface{} {
	if list, ok := v.([]interface{}); ok {
		return list
	}
	return []interface{}{}
}

// coerceAnomalies normalizes the anomalies value into a list of objects.
// List elements that are not objects are wrapped; a bare string becomes a
// one-element list; anything else becomes an empty list.
func coerceAnomalies(v interface{}) []map[string]interface{} {
	switch a := v.(type) {
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(a))
		for _, item := range a {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
				continue
			}
			out = append(out, map[string]interface{}{anomalyKey: stringify(item)})
		}
		return out

	case string:
		return []map[string]interface{}{{anomalyKey: a}}

	default:
		return []map[string]interface{}{}
	}
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func emptyResponse() Insights {
	return Insights{
		TotalSpent:    0.0,
		TopCategories: []interface{}{},
		Anomalies: []map[string]interface{}{
			{anomalyKey: "AI provider returned no data."},
		},
	}
}

func parseError() Insights {
	return Insights{
		TotalSpent:    0.0,
		TopCategories: []interface{}{},
		Anomalies: []map[string]interface{}{
			{anomalyKey: "Error processing AI insights: invalid response format"},
		},
	}
}

func unexpectedType(raw interface{}) Insights {
	return Insights{
		TotalSpent:    0.0,
		TopCategories: []interface{}{},
		Anomalies: []map[string]interface{}{
			{anomalyKey: fmt.Sprintf("Error processing AI insights: unexpected data type %T", raw)},
		},
	}
}

// TopCategoryName returns the category name of the highest-ranked entry,
// or false when the list is empty or the first element lacks a usable name.
func (i Insights) TopCategoryName() (string, bool) {
	if len(i.TopCategories) == 0 {
		return "", false
	}
	m, ok := i.TopCategories[0].(map[string]interface{})
	if !ok {
		return "", false
	}
	name, ok := m["category"].(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
