package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/LCLx/daily-news-summary/internal/config"
	"github.com/LCLx/daily-news-summary/internal/deliver"
	"github.com/LCLx/daily-news-summary/internal/digest"
	"github.com/LCLx/daily-news-summary/internal/render"
	"github.com/LCLx/daily-news-summary/pkg/llm"
	"github.com/LCLx/daily-news-summary/pkg/rss"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading settings: %v", err)
	}

	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		log.Fatalf("error loading sources: %v", err)
	}

	ctx := context.Background()

	slog.Info("fetching articles", "categories", len(sources.Categories), "window_hours", cfg.WindowHours)
	fetcher := rss.NewFetcher()
	buckets := fetcher.FetchAll(ctx, sources.FeedsByCategory(),
		time.Duration(cfg.WindowHours)*time.Hour, cfg.MaxPerFeed)

	for _, category := range sources.Categories {
		slog.Info("bucket ready", "category", category.Key, "articles", len(buckets[category.Key]))
	}

	if buckets.Total() == 0 {
		slog.Warn("no articles in any category, nothing to summarize")
		return
	}

	generator, useCLI := buildGenerator(cfg, sources)
	prompt := llm.BuildPrompt(promptCategories(sources, buckets), useCLI)

	slog.Info("generating digest", "backend", cfg.Backend, "articles", buckets.Total())
	raw, err := generator.Generate(ctx, prompt)
	if err != nil {
		log.Fatalf("error generating digest: %v", err)
	}

	sections := digest.Resolve(raw, buckets, sources)
	if len(sections) == 0 {
		log.Fatalf("model output resolved to zero sections")
	}

	doc, err := render.Render(sections, time.Now())
	if err != nil {
		log.Fatalf("error rendering digest: %v", err)
	}

	summary := render.ConsoleSummary(sections)
	fmt.Println(summary)

	deliverAll(ctx, cfg, doc, summary)
}

func buildGenerator(cfg *config.Settings, sources *config.Sources) (llm.Generator, bool) {
	if cfg.Backend == config.BackendCLI {
		return llm.NewCLIGenerator(cfg.CLIBinary, cfg.CLIModel, cfg.MaxRetries), true
	}
	return llm.NewAnthropicGenerator(cfg.APIKey, cfg.Model, cfg.MaxTokens, cfg.MaxRetries, sources.Labels()), false
}

// promptCategories maps the fetched buckets onto the prompt's category
// blocks, keeping the configured category order.
func promptCategories(sources *config.Sources, buckets rss.Buckets) []llm.PromptCategory {
	categories := make([]llm.PromptCategory, 0, len(sources.Categories))
	for _, category := range sources.Categories {
		prompt := llm.PromptCategory{Label: category.Label, Deals: category.Deals}
		for _, article := range buckets[category.Key] {
			prompt.Articles = append(prompt.Articles, llm.PromptArticle{
				Title:   article.Title,
				Source:  article.Source,
				Summary: article.Summary,
			})
		}
		categories = append(categories, prompt)
	}
	return categories
}

func deliverAll(ctx context.Context, cfg *config.Settings, doc, summary string) {
	mailer := deliver.NewMailer(cfg.GmailUser, cfg.GmailAppPassword)
	if mailer.Configured() && len(cfg.EmailTo) > 0 {
		subject := fmt.Sprintf("📰 每日新闻摘要 - %s", time.Now().Format("2006年01月02日"))
		if err := mailer.Send(subject, doc, cfg.EmailTo); err != nil {
			slog.Error("error sending email", "error", err)
		} else {
			slog.Info("email sent", "recipients", len(cfg.EmailTo))
		}
	} else {
		slog.Warn("email not configured, skipping")
	}

	telegram := deliver.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	if telegram.Configured() {
		if err := telegram.Send(ctx, summary); err != nil {
			slog.Error("error sending telegram message", "error", err)
		} else {
			slog.Info("telegram message sent")
		}
	} else {
		slog.Warn("telegram not configured, skipping")
	}
}
