package insights

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// strictSchema is the deeper per-element contract some consumers need:
// every top_categories entry must carry a category name and a numeric
// amount, and every anomaly must be an object. Normalize itself only
// guarantees container-level typing.
var strictSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"total_spent": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
		},
		"top_categories": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"category", "amount"},
				"properties": map[string]interface{}{
					"category": map[string]interface{}{"type": "string"},
					"amount":   map[string]interface{}{"type": "number"},
				},
			},
		},
		"anomalies": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
			},
		},
	},
	"required": []interface{}{"total_spent", "top_categories", "anomalies"},
}

// ValidateStrict checks a normalized Insights value against the
// per-element schema. Callers that only need the container-level
// guarantee can skip this.
func ValidateStrict(ins Insights) error {
	doc := map[string]interface{}{
		"total_spent":    ins.TotalSpent,
		"top_categories": ins.TopCategories,
		"anomalies":      anomaliesAsInterfaces(ins.Anomalies),
	}

	schemaLoader := gojsonschema.NewGoLoader(strictSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("insights validation failed: %v", errs)
	}

	return nil
}

func anomaliesAsInterfaces(in []map[string]interface{}) []interface{} {
	out := make([]interface{}, len(in))
	for i, m := range in {
		out[i] = m
	}
	return out
}
