package model

import (
	"time"

	"github.com/LCLx/daily-news-summary/pkg/llm"
	"github.com/LCLx/daily-news-summary/pkg/rss"
)

// DigestSection is one rendered section of the digest: a resolved category
// and its items in the order the model ranked them.
type DigestSection struct {
	CategoryKey string
	Label       string
	Emoji       string
	Deals       bool
	Items       []ResolvedItem
}

// ResolvedItem merges a model-authored digest item with the source article
// it references. Link, OriginalTitle, Source, PublishedAt and ImageURL come
// from the fetched article only; the model cannot supply them.
type ResolvedItem struct {
	// Trusted, copied from the referenced article.
	Link          string
	OriginalTitle string
	Source        string
	PublishedAt   time.Time
	ImageURL      string

	// Model-authored, passed through as-is; the renderer escapes on output.
	TitleZH       string
	SummaryZH     string
	Price         string
	OriginalPrice string
	Discount      string
	Store         string
}

// MergeResolved is the only constructor for ResolvedItem. Keeping the merge
// in one place is what enforces the provenance split above.
func MergeResolved(article rss.Article, item llm.Item) ResolvedItem {
	return ResolvedItem{
		Link:          article.Link,
		OriginalTitle: article.Title,
		Source:        article.Source,
		PublishedAt:   article.PublishedAt,
		ImageURL:      article.ImageURL,

		TitleZH:       item.TitleZH,
		SummaryZH:     item.SummaryZH,
		Price:         item.Price,
		OriginalPrice: item.OriginalPrice,
		Discount:      item.Discount,
		Store:         item.Store,
	}
}
