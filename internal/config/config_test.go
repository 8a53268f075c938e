package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("CLAUDE_BACKEND", "")
	t.Setenv("CLAUDE_MODEL", "")
	t.Setenv("CLAUDE_MAX_RETRIES", "")
	t.Setenv("EMAIL_TO", "")

	s, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, BackendAPI, s.Backend)
	assert.Equal(t, "claude-haiku-4-5-20251001", s.Model)
	assert.Equal(t, 8000, s.MaxTokens)
	assert.Equal(t, 2, s.MaxRetries)
	assert.Equal(t, 24, s.WindowHours)
	assert.Equal(t, 4, s.MaxPerFeed)
	assert.Equal(t, 0, len(s.EmailTo))
}

func TestLoadRequiresAPIKeyForAPIBackend(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("CLAUDE_BACKEND", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without ANTHROPIC_API_KEY")
	}
}

func TestLoadCLIBackendNeedsNoKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("CLAUDE_BACKEND", "cli")

	s, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, BackendCLI, s.Backend)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("CLAUDE_BACKEND", "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadSplitsRecipients(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("CLAUDE_BACKEND", "")
	t.Setenv("EMAIL_TO", "a@example.com, b@example.com ,")

	s, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, s.EmailTo)
}

const validSources = `categories:
  - key: "Tech & AI"
    label: "科技与AI"
    emoji: "💻"
    feeds:
      - https://example.com/a.xml
      - https://example.com/b.xml
  - key: "Deals"
    label: "今日优惠"
    emoji: "🛍️"
    deals: true
    feeds:
      - https://example.com/deals.xml
`

func writeSources(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSources(t *testing.T) {
	sources, err := LoadSources(writeSources(t, validSources))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, 2, len(sources.Categories))
	assert.Equal(t, "Tech & AI", sources.Categories[0].Key)
	assert.Equal(t, false, sources.Categories[0].Deals)
	assert.Equal(t, true, sources.Categories[1].Deals)

	feeds := sources.FeedsByCategory()
	assert.Equal(t, 2, len(feeds["Tech & AI"]))
	assert.Equal(t, []string{"科技与AI", "今日优惠"}, sources.Labels())
}

func TestLoadSourcesValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no categories", "categories: []\n"},
		{"missing label", "categories:\n  - key: A\n    feeds: [https://example.com/f]\n"},
		{"no feeds", "categories:\n  - key: A\n    label: a\n    feeds: []\n"},
		{"duplicate key", "categories:\n  - key: A\n    label: a\n    feeds: [https://example.com/f]\n  - key: A\n    label: b\n    feeds: [https://example.com/g]\n"},
		{"bad yaml", "categories: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSources(writeSources(t, tt.content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLookup(t *testing.T) {
	sources, err := LoadSources(writeSources(t, validSources))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byKey, ok := sources.Lookup("Tech & AI")
	assert.Equal(t, true, ok)
	assert.Equal(t, "科技与AI", byKey.Label)

	byLabel, ok := sources.Lookup("今日优惠")
	assert.Equal(t, true, ok)
	assert.Equal(t, "Deals", byLabel.Key)

	_, ok = sources.Lookup("nonexistent")
	assert.Equal(t, false, ok)
}
