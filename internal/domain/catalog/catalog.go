// Package catalog holds the curated opportunity templates used for
// catalog-wide recommendations.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"opportunity-matcher/internal/domain/opportunity"
)

//go:embed data/templates.yaml
var templatesYAML embed.FS

var ErrInvalidTemplate = errors.New("invalid catalog template")

type document struct {
	Templates []opportunity.Template `yaml:"templates"`
}

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	templates []opportunity.Template
}

// Default parses the embedded template list.
func Default() (*Catalog, error) {
	data, err := templatesYAML.ReadFile("data/templates.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadFile reads templates from path, falling back to the embedded list when
// path is empty.
func LoadFile(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, t := range doc.Templates {
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("%w: entry %d has no title", ErrInvalidTemplate, i)
		}
		if t.UrgencyDays < 0 {
			return nil, fmt.Errorf("%w: %q has negative urgency_days", ErrInvalidTemplate, t.Title)
		}
	}
	return &Catalog{templates: doc.Templates}, nil
}

// Templates returns a copy of the catalog entries in file order.
func (c *Catalog) Templates() []opportunity.Template {
	out := make([]opportunity.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

func (c *Catalog) Len() int {
	return len(c.templates)
}
