package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Digest is the raw model output: a set of sections, each holding items
// that reference input articles by position. Everything in here is
// model-authored and untrusted until resolved against the source buckets.
type Digest struct {
	Sections []Section `json:"sections"`
}

type Section struct {
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

type Item struct {
	Ref           string `json:"ref"`
	TitleZH       string `json:"title_zh"`
	SummaryZH     string `json:"summary_zh"`
	Price         string `json:"price,omitempty"`
	OriginalPrice string `json:"original_price,omitempty"`
	Discount      string `json:"discount,omitempty"`
	Store         string `json:"store,omitempty"`
}

// Generator produces a validated Digest from a prompt. The two
// implementations (Anthropic API, claude CLI) are interchangeable; callers
// never branch on which one they hold.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Digest, error)
}

// GenerationError is the terminal failure after all attempts are spent.
// RawSnippet holds a truncated piece of the last raw output, when there
// was one, so operators can tell "backend unreachable" from "output
// unusable after repair".
type GenerationError struct {
	Attempts   int
	LastErr    error
	RawSnippet string
}

func (e *GenerationError) Error() string {
	if e.RawSnippet != "" {
		return fmt.Sprintf("digest generation failed after %d attempts: %v (last output: %s)",
			e.Attempts, e.LastErr, e.RawSnippet)
	}
	return fmt.Sprintf("digest generation failed after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *GenerationError) Unwrap() error {
	return e.LastErr
}

const snippetLimit = 400

func snippet(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= snippetLimit {
		return s
	}
	return string(runes[:snippetLimit]) + "..."
}

// parseDigest strictly parses model output into a Digest. Output missing
// the top-level sections array is rejected even when it is valid JSON.
func parseDigest(text string) (*Digest, error) {
	var digest Digest
	if err := json.Unmarshal([]byte(text), &digest); err != nil {
		return nil, err
	}
	if digest.Sections == nil {
		return nil, fmt.Errorf("model output has no sections array")
	}
	return &digest, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
