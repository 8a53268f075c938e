package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category is one digest section's source definition. Key is the internal
// bucket key used for addressing; Label is the localized section name shown
// to the model and in the rendered document.
type Category struct {
	Key   string   `yaml:"key"`
	Label string   `yaml:"label"`
	Emoji string   `yaml:"emoji"`
	Deals bool     `yaml:"deals"`
	Feeds []string `yaml:"feeds"`
}

// Sources is the ordered category list loaded from the sources file.
type Sources struct {
	Categories []Category `yaml:"categories"`
}

// LoadSources reads and validates the YAML category/feed definitions.
func LoadSources(path string) (*Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}

	var sources Sources
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parsing sources file: %w", err)
	}

	if len(sources.Categories) == 0 {
		return nil, fmt.Errorf("sources file %s defines no categories", path)
	}
	seen := make(map[string]bool, len(sources.Categories))
	for i, category := range sources.Categories {
		if category.Key == "" || category.Label == "" {
			return nil, fmt.Errorf("category %d is missing key or label", i)
		}
		if seen[category.Key] {
			return nil, fmt.Errorf("duplicate category key %q", category.Key)
		}
		seen[category.Key] = true
		if len(category.Feeds) == 0 {
			return nil, fmt.Errorf("category %q has no feeds", category.Key)
		}
	}

	return &sources, nil
}

// FeedsByCategory maps each category key to its feed URLs.
func (s *Sources) FeedsByCategory() map[string][]string {
	feeds := make(map[string][]string, len(s.Categories))
	for _, category := range s.Categories {
		feeds[category.Key] = category.Feeds
	}
	return feeds
}

// Labels returns the model-facing section names in category order.
func (s *Sources) Labels() []string {
	labels := make([]string, len(s.Categories))
	for i, category := range s.Categories {
		labels[i] = category.Label
	}
	return labels
}

// Lookup finds a category by its bucket key or its localized label. Models
// have addressed sections both ways across prompt revisions.
func (s *Sources) Lookup(name string) (Category, bool) {
	for _, category := range s.Categories {
		if category.Key == name || category.Label == name {
			return category, true
		}
	}
	return Category{}, false
}
