// Package prompts loads the prompt templates used for AI calls from a
// YAML file so they can be tuned without a rebuild.
package prompts

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Registry holds named prompt templates. Placeholders use the form
// {name} and are substituted by Render.
type Registry struct {
	templates map[string]string
}

// Load reads templates from a YAML file of key: template pairs.
func Load(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read prompts file %s: %w", path, err)
	}

	templates := make(map[string]string)
	for _, key := range v.AllKeys() {
		templates[key] = v.GetString(key)
	}

	if len(templates) == 0 {
		return nil, fmt.Errorf("prompts file %s contains no templates", path)
	}

	return &Registry{templates: templates}, nil
}

// NewStatic builds a registry from an in-memory map, used in tests.
func NewStatic(templates map[string]string) *Registry {
	copied := make(map[string]string, len(templates))
	for k, v := range templates {
		copied[k] = v
	}
	return &Registry{templates: copied}
}

// Render substitutes vars into the named template. The second return is
// false when the template does not exist.
func (r *Registry) Render(key string, vars map[string]string) (string, bool) {
	tmpl, ok := r.templates[key]
	if !ok {
		return "", false
	}

	out := tmpl
	for name, val := range vars {
		out = strings.ReplaceAll(out, "{"+name+"}", val)
	}
	return out, true
}

// Keys lists the loaded template names.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.templates))
	for k := range r.templates {
		keys = append(keys, k)
	}
	return keys
}
