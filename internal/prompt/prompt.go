// Package prompt builds the text sent to the generative model for a part
// search.
package prompt

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
)

// Generator renders the parts prompt for a vehicle.
type Generator struct {
	tmpl *template.Template
}

type data struct {
	Car string
}

// NewGenerator parses text as the prompt template.
func NewGenerator(text string) (*Generator, error) {
	t, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &Generator{tmpl: t}, nil
}

// Default returns a Generator for the built-in template.
func Default() *Generator {
	g, err := NewGenerator(GetDefault())
	if err != nil {
		panic(err)
	}
	return g
}

// Load reads a custom template from path. An empty path yields the default.
func Load(path string) (*Generator, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	return NewGenerator(string(b))
}

// LoadWithFallback is Load that logs and falls back to the default template
// when the custom one cannot be used.
func LoadWithFallback(path string, log zerolog.Logger) *Generator {
	g, err := Load(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("using default prompt template")
		return Default()
	}
	return g
}

// Generate renders the prompt for car.
func (g *Generator) Generate(car string) (string, error) {
	var sb strings.Builder
	if err := g.tmpl.Execute(&sb, data{Car: car}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}
