package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_WellFormedMapPassesThrough(t *testing.T) {
	raw := map[string]interface{}{
		"total_spent":    12.5,
		"top_categories": []interface{}{},
		"anomalies":      []interface{}{},
	}

	got := Normalize(raw)

	assert.Equal(t, 12.5, got.TotalSpent)
	assert.Empty(t, got.TopCategories)
	assert.Empty(t, got.Anomalies)
}

func TestNormalize_EmptyStringYieldsEmptyResponse(t *testing.T) {
	got := Normalize("")

	assert.Equal(t, 0.0, got.TotalSpent)
	assert.Empty(t, got.TopCategories)
	assert.Len(t, got.Anomalies, 1)
	assert.Contains(t, got.Anomalies[0]["error_message"], "no data")
}

func TestNormalize_ExtractsJSONEmbeddedInProse(t *testing.T) {
	raw := `Sure! {"total_spent": 5, "top_categories":[{"category":"food","amount":5}], "anomalies":[]} Hope that helps!`

	got := Normalize(raw)

	assert.Equal(t, 5.0, got.TotalSpent)
	assert.Len(t, got.TopCategories, 1)
	assert.Empty(t, got.Anomalies)

	name, ok := got.TopCategoryName()
	assert.True(t, ok)
	assert.Equal(t, "food", name)
}

func TestNormalize_UnparseableStringYieldsParseError(t *testing.T) {
	got := Normalize("not json at all")

	assert.Equal(t, 0.0, got.TotalSpent)
	assert.Empty(t, got.TopCategories)
	assert.Len(t, got.Anomalies, 1)
	assert.NotEmpty(t, got.Anomalies[0]["error_message"])
}

func TestNormalize_MalformedBracesYieldParseError(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"opening brace only", "here is { something"},
		{"closing brace only", "something } here"},
		{"braces reversed", "} not an object {"},
		{"invalid json between braces", `{"total_spent": }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.Equal(t, 0.0, got.TotalSpent)
			assert.Len(t, got.Anomalies, 1)
		})
	}
}

func TestNormalize_UnexpectedTypeYieldsDiagnostic(t *testing.T) {
	got := Normalize(42)

	assert.Equal(t, 0.0, got.TotalSpent)
	assert.Empty(t, got.TopCategories)
	assert.Len(t, got.Anomalies, 1)
	assert.Contains(t, got.Anomalies[0]["error_message"], "unexpected data type")
}

func TestNormalize_TotalSpentCoercion(t *testing.T) {
	tests := []struct {
		name string
		val  interface{}
		want float64
	}{
		{"float", 42.5, 42.5},
		{"integer", 10, 10.0},
		{"numeric string", "12.75", 12.75},
		{"negative clamped", -5.0, 0.0},
		{"non-numeric string", "lots", 0.0},
		{"nil", nil, 0.0},
		{"wrong type", []interface{}{1}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(map[string]interface{}{"total_spent": tt.val})
			assert.Equal(t, tt.want, got.TotalSpent)
		})
	}
}

func TestNormalize_TopCategoriesMustBeList(t *testing.T) {
	got := Normalize(map[string]interface{}{
		"total_spent":    1.0,
		"top_categories": "groceries",
	})

	assert.Empty(t, got.TopCategories)
}

func TestNormalize_AnomalyWrapping(t *testing.T) {
	t.Run("list keeps objects and wraps scalars", func(t *testing.T) {
		got := Normalize(map[string]interface{}{
			"anomalies": []interface{}{
				map[string]interface{}{"error_message": "spike", "severity": "high"},
				"odd transaction",
				3.5,
			},
		})

		assert.Len(t, got.Anomalies, 3)
		assert.Equal(t, "spike", got.Anomalies[0]["error_message"])
		assert.Equal(t, "high", got.Anomalies[0]["severity"])
		assert.Equal(t, "odd transaction", got.Anomalies[1]["error_message"])
		assert.Equal(t, "3.5", got.Anomalies[2]["error_message"])
	})

	t.Run("bare string becomes single entry", func(t *testing.T) {
		got := Normalize(map[string]interface{}{"anomalies": "unusual weekend spending"})

		assert.Len(t, got.Anomalies, 1)
		assert.Equal(t, "unusual weekend spending", got.Anomalies[0]["error_message"])
	})

	t.Run("other types become empty list", func(t *testing.T) {
		got := Normalize(map[string]interface{}{"anomalies": 7})
		assert.Empty(t, got.Anomalies)
	})
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := map[string]interface{}{
		"total_spent": 99.0,
		"top_categories": []interface{}{
			map[string]interface{}{"category": "rent", "amount": 80.0},
		},
		"anomalies": []interface{}{},
	}

	once := Normalize(raw)
	twice := Normalize(map[string]interface{}{
		"total_spent":    once.TotalSpent,
		"top_categories": once.TopCategories,
		"anomalies":      []interface{}{},
	})

	assert.Equal(t, once.TotalSpent, twice.TotalSpent)
	assert.Equal(t, once.TopCategories, twice.TopCategories)
}

func TestTopCategoryName(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		_, ok := Insights{TopCategories: []interface{}{}}.TopCategoryName()
		assert.False(t, ok)
	})

	t.Run("element not an object", func(t *testing.T) {
		_, ok := Insights{TopCategories: []interface{}{"food"}}.TopCategoryName()
		assert.False(t, ok)
	})

	t.Run("missing category key", func(t *testing.T) {
		_, ok := Insights{TopCategories: []interface{}{
			map[string]interface{}{"amount": 5.0},
		}}.TopCategoryName()
		assert.False(t, ok)
	})
}

func TestValidateStrict(t *testing.T) {
	t.Run("well formed passes", func(t *testing.T) {
		ins := Normalize(map[string]interface{}{
			"total_spent": 50.0,
			"top_categories": []interface{}{
				map[string]interface{}{"category": "food", "amount": 30.0},
				map[string]interface{}{"category": "transport", "amount": 20.0},
			},
			"anomalies": []interface{}{},
		})

		assert.NoError(t, ValidateStrict(ins))
	})

	t.Run("element missing amount fails", func(t *testing.T) {
		ins := Normalize(map[string]interface{}{
			"total_spent": 50.0,
			"top_categories": []interface{}{
				map[string]interface{}{"category": "food"},
			},
			"anomalies": []interface{}{},
		})

		assert.Error(t, ValidateStrict(ins))
	})

	t.Run("scalar element fails", func(t *testing.T) {
		ins := Normalize(map[string]interface{}{
			"top_categories": []interface{}{"food"},
		})

		assert.Error(t, ValidateStrict(ins))
	})

	t.Run("degraded canonical objects still pass", func(t *testing.T) {
		assert.NoError(t, ValidateStrict(Normalize("")))
		assert.NoError(t, ValidateStrict(Normalize("garbage")))
	})
}
