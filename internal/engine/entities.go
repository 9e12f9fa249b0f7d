package engine

import (
	"encoding/json"
	"strconv"
	"strings"
)

// entityBag is the loosely typed parameter map an external classifier
// attaches to an intent. Values arrive as whatever JSON produced, so
// numbers may be strings and limits may be floats. All accessors coerce
// and report absence instead of failing.
type entityBag map[string]interface{}

func (b entityBag) stringValue(key string) string {
	v, ok := b[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// floatOrZero coerces the value to a float, defaulting to 0.0 for
// missing, nil or non-numeric values.
func (b entityBag) floatOrZero(key string) float64 {
	v, ok := b[key]
	if !ok || v == nil {
		return 0.0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0.0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0.0
		}
		return f
	default:
		return 0.0
	}
}

// intOrDefault coerces the value to an int, falling back to def for
// missing or non-numeric values, or anything non-positive.
func (b entityBag) intOrDefault(key string, def int) int {
	v, ok := b[key]
	if !ok || v == nil {
		return def
	}
	var n int
	switch t := v.(type) {
	case int:
		n = t
	case int64:
		n = int(t)
	case float64:
		n = int(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return def
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return def
		}
		n = i
	default:
		return def
	}
	if n <= 0 {
		return def
	}
	return n
}
