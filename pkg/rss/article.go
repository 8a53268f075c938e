package rss

import "time"

// Article is a normalized feed entry. Fields are filled from the fetched
// feed document only and are treated as the source of truth downstream.
type Article struct {
	Title       string
	Link        string
	PublishedAt time.Time
	Summary     string
	Source      string
	Category    string
	ImageURL    string
}

// Buckets groups articles by category key, each slice sorted newest first.
type Buckets map[string][]Article

// Total returns the number of articles across all categories.
func (b Buckets) Total() int {
	n := 0
	for _, articles := range b {
		n += len(articles)
	}
	return n
}
