package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	content := `categorize_expense: "Categorize the expense '{description}' into a single word."
insights: "Analyze spending between {start} and {end}."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reg, err := Load(path)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"categorize_expense", "insights"}, reg.Keys())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	reg := NewStatic(map[string]string{
		"categorize_expense": "Categorize '{description}' in one word.",
		"no_vars":            "static text",
	})

	t.Run("substitutes placeholders", func(t *testing.T) {
		got, ok := reg.Render("categorize_expense", map[string]string{"description": "coffee"})
		assert.True(t, ok)
		assert.Equal(t, "Categorize 'coffee' in one word.", got)
	})

	t.Run("no placeholders", func(t *testing.T) {
		got, ok := reg.Render("no_vars", nil)
		assert.True(t, ok)
		assert.Equal(t, "static text", got)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, ok := reg.Render("missing", nil)
		assert.False(t, ok)
	})

	t.Run("unmatched placeholder left intact", func(t *testing.T) {
		got, ok := reg.Render("categorize_expense", map[string]string{"other": "x"})
		assert.True(t, ok)
		assert.Contains(t, got, "{description}")
	})
}
