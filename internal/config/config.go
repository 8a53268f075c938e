package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Backend selection values for Settings.Backend.
const (
	BackendAPI = "api"
	BackendCLI = "cli"
)

// Settings holds everything the pipeline consumes from the environment.
type Settings struct {
	Backend    string
	APIKey     string
	Model      string
	CLIModel   string
	CLIBinary  string
	MaxTokens  int
	MaxRetries int

	WindowHours int
	MaxPerFeed  int
	SourcesFile string

	GmailUser        string
	GmailAppPassword string
	EmailTo          []string

	TelegramBotToken string
	TelegramChatID   string
}

// Load reads settings from environment variables, applying the defaults
// the pipeline has always run with.
func Load() (*Settings, error) {
	s := &Settings{
		Backend:          strings.ToLower(os.Getenv("CLAUDE_BACKEND")),
		APIKey:           os.Getenv("ANTHROPIC_API_KEY"),
		Model:            envDefault("CLAUDE_MODEL", "claude-haiku-4-5-20251001"),
		CLIModel:         envDefault("CLAUDE_CLI_MODEL", "haiku"),
		CLIBinary:        envDefault("CLAUDE_CLI_BINARY", "claude"),
		MaxTokens:        envInt("CLAUDE_MAX_TOKENS", 8000),
		MaxRetries:       envInt("CLAUDE_MAX_RETRIES", 2),
		WindowHours:      envInt("DIGEST_WINDOW_HOURS", 24),
		MaxPerFeed:       envInt("DIGEST_MAX_PER_FEED", 4),
		SourcesFile:      envDefault("DIGEST_SOURCES_FILE", "config/sources.yaml"),
		GmailUser:        os.Getenv("GMAIL_USER"),
		GmailAppPassword: os.Getenv("GMAIL_APP_PASSWORD"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
	}

	if s.Backend == "" {
		s.Backend = BackendAPI
	}
	if s.Backend != BackendAPI && s.Backend != BackendCLI {
		return nil, fmt.Errorf("unknown CLAUDE_BACKEND %q (want %q or %q)", s.Backend, BackendAPI, BackendCLI)
	}
	if s.Backend == BackendAPI && s.APIKey == "" {
		return nil, fmt.Errorf("set ANTHROPIC_API_KEY (api backend) or CLAUDE_BACKEND=cli")
	}

	if to := os.Getenv("EMAIL_TO"); to != "" {
		for _, addr := range strings.Split(to, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				s.EmailTo = append(s.EmailTo, addr)
			}
		}
	}

	return s, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
