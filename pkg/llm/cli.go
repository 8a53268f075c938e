package llm

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// commandRunner executes the CLI binary and returns its stdout and stderr.
// Swapped out in tests.
type commandRunner func(ctx context.Context, binary string, args []string) (string, string, error)

// CLIGenerator produces the digest by invoking a locally installed claude
// binary as a subprocess. There is no schema enforcement on this path, so
// the output goes through a strict-parse-then-repair pipeline.
type CLIGenerator struct {
	binary     string
	model      string
	maxRetries int
	run        commandRunner
}

func NewCLIGenerator(binary, model string, maxRetries int) *CLIGenerator {
	if binary == "" {
		binary = "claude"
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &CLIGenerator{
		binary:     binary,
		model:      model,
		maxRetries: maxRetries,
		run:        runCommand,
	}
}

func (g *CLIGenerator) Generate(ctx context.Context, prompt string) (*Digest, error) {
	var lastErr error
	var lastRaw string

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		digest, raw, err := g.attempt(ctx, prompt)
		if err == nil {
			return digest, nil
		}
		lastErr = err
		if raw != "" {
			lastRaw = raw
		}
		if attempt < g.maxRetries {
			slog.Warn("cli attempt failed, retrying", "attempt", attempt, "error", err)
		}
	}

	return nil, &GenerationError{
		Attempts:   g.maxRetries,
		LastErr:    lastErr,
		RawSnippet: snippet(lastRaw),
	}
}

// attempt runs the binary once and parses its output. The returned raw
// string is the process stdout, kept for the terminal error snippet.
func (g *CLIGenerator) attempt(ctx context.Context, prompt string) (*Digest, string, error) {
	stdout, stderr, err := g.run(ctx, g.binary, []string{"--model", g.model, "--print", prompt})
	if err != nil {
		return nil, stdout, fmt.Errorf("cli invocation failed: %w (stderr: %s)", err, strings.TrimSpace(stderr))
	}
	if strings.TrimSpace(stdout) == "" {
		return nil, "", fmt.Errorf("cli produced empty output")
	}

	text := stripFences(stdout)
	digest, parseErr := parseDigest(text)
	if parseErr == nil {
		return digest, stdout, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(text)
	if repairErr != nil {
		return nil, stdout, fmt.Errorf("output not valid JSON (%v) and repair failed: %w", parseErr, repairErr)
	}
	digest, err = parseDigest(repaired)
	if err != nil {
		return nil, stdout, fmt.Errorf("output not valid JSON even after repair: %w", err)
	}
	slog.Info("model output repaired into valid JSON")
	return digest, stdout, nil
}

// runCommand is the production commandRunner backed by os/exec. Stdin is
// left closed; the prompt travels as an argument.
func runCommand(ctx context.Context, binary string, args []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)

	// The CLI must not detect a parent session or spend thinking tokens.
	env := make([]string, 0, len(os.Environ())+1)
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "CLAUDECODE=") {
			continue
		}
		env = append(env, kv)
	}
	cmd.Env = append(env, "MAX_THINKING_TOKENS=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
