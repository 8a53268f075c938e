package rss

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultWindow is how far back entries are accepted.
	DefaultWindow = 24 * time.Hour
	// DefaultMaxPerFeed caps how many entries a single feed contributes.
	DefaultMaxPerFeed = 4

	fetchTimeout = 15 * time.Second
	userAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxSummaryChars = 300

	// Parallel feed fetches in FetchAll. Feeds are independent, so this is
	// purely a throughput knob.
	fetchConcurrency = 8
)

// sourceNameOverrides maps feed hosts to display names where the feed's
// self-declared title is unusable.
var sourceNameOverrides = map[string]string{
	"www.ft.com": "Financial Times",
}

// allinurlPattern extracts the target site domain from a Google News search
// feed URL, e.g. ...search?q=when:24h+allinurl:reuters.com+business.
var allinurlPattern = regexp.MustCompile(`allinurl:([a-zA-Z0-9.-]+\.[a-z]{2,})`)

// Fetcher fetches and normalizes articles from RSS/Atom feeds.
type Fetcher struct {
	parser *gofeed.Parser
	now    func() time.Time
}

func NewFetcher() *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: fetchTimeout}
	return &Fetcher{
		parser: parser,
		now:    time.Now,
	}
}

// Fetch collects recent articles for one category from the given feeds.
// A failing feed is logged and skipped; it never aborts the category.
// The returned bucket is sorted newest first across all feeds.
func (f *Fetcher) Fetch(ctx context.Context, category string, feedURLs []string, window time.Duration, maxPerFeed int) []Article {
	var articles []Article
	for _, feedURL := range feedURLs {
		fetched, err := f.fetchFeed(ctx, category, feedURL, window, maxPerFeed)
		if err != nil {
			slog.Warn("failed to fetch feed", "category", category, "url", feedURL, "error", err)
			continue
		}
		articles = append(articles, fetched...)
	}

	sortNewestFirst(articles)
	return articles
}

// FetchAll fetches every category's feeds in parallel and assembles the
// per-category buckets. Feed failures are isolated exactly as in Fetch.
func (f *Fetcher) FetchAll(ctx context.Context, feedsByCategory map[string][]string, window time.Duration, maxPerFeed int) Buckets {
	type feedRef struct {
		category string
		url      string
	}

	var refs []feedRef
	for category, urls := range feedsByCategory {
		for _, u := range urls {
			refs = append(refs, feedRef{category: category, url: u})
		}
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		buckets = make(Buckets, len(feedsByCategory))
	)

	feedChan := make(chan feedRef, len(refs))
	for i := 0; i < fetchConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range feedChan {
				fetched, err := f.fetchFeed(ctx, ref.category, ref.url, window, maxPerFeed)
				if err != nil {
					slog.Warn("failed to fetch feed", "category", ref.category, "url", ref.url, "error", err)
					continue
				}
				mu.Lock()
				buckets[ref.category] = append(buckets[ref.category], fetched...)
				mu.Unlock()
			}
		}()
	}

	for _, ref := range refs {
		feedChan <- ref
	}
	close(feedChan)
	wg.Wait()

	for category := range buckets {
		sortNewestFirst(buckets[category])
	}

	// Categories whose every feed failed or returned nothing still get an
	// empty bucket so callers can tell them apart from unknown categories.
	for category := range feedsByCategory {
		if _, ok := buckets[category]; !ok {
			buckets[category] = nil
		}
	}

	return buckets
}

// fetchFeed fetches a single feed and returns its windowed, capped entries.
func (f *Fetcher) fetchFeed(ctx context.Context, category, feedURL string, window time.Duration, maxPerFeed int) ([]Article, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(feedURL, fetchCtx)
	if err != nil {
		return nil, err
	}

	cutoff := f.now().UTC().Add(-window)
	source := resolveSourceName(feedURL, feed.Title)

	var articles []Article
	for _, item := range feed.Items {
		if len(articles) >= maxPerFeed {
			break
		}

		publishedAt, ok := entryTimestamp(item)
		if !ok {
			// No publish or update timestamp: there is no safe fallback.
			continue
		}
		if publishedAt.Before(cutoff) {
			continue
		}

		articles = append(articles, Article{
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: publishedAt,
			Summary:     truncate(item.Description, maxSummaryChars),
			Source:      source,
			Category:    category,
			ImageURL:    ExtractImage(item),
		})
	}

	return articles, nil
}

// entryTimestamp returns the entry's publish time, falling back to its
// update time, normalized to UTC.
func entryTimestamp(item *gofeed.Item) (time.Time, bool) {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC(), true
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC(), true
	}
	return time.Time{}, false
}

// resolveSourceName picks a display name for a feed: a static override by
// host, the target site of a Google News search feed, or the feed's own
// title as declared.
func resolveSourceName(feedURL, feedTitle string) string {
	parsed, err := url.Parse(feedURL)
	if err == nil {
		if name, ok := sourceNameOverrides[parsed.Hostname()]; ok {
			return name
		}
		if parsed.Hostname() == "news.google.com" && strings.Contains(parsed.Path, "/search") {
			if match := allinurlPattern.FindStringSubmatch(feedURL); match != nil {
				label, _, _ := strings.Cut(match[1], ".")
				return cases.Title(language.English).String(label)
			}
		}
	}
	if feedTitle == "" {
		return "Unknown"
	}
	return feedTitle
}

func sortNewestFirst(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
