package rss

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// ExtractImage finds a usable thumbnail URL for a feed entry, trying the
// richest source first. Returns "" when nothing qualifies; a missing image
// is a normal outcome, not an error.
func ExtractImage(item *gofeed.Item) string {
	// 1. media:content (Guardian, Ars Technica). The last entry tends to be
	// the largest rendition.
	if media, ok := item.Extensions["media"]; ok {
		if contents := media["content"]; len(contents) > 0 {
			if u := contents[len(contents)-1].Attrs["url"]; isValidImageURL(u) {
				return u
			}
		}
		// 2. media:thumbnail (BBC, Ars Technica), lower resolution.
		if thumbs := media["thumbnail"]; len(thumbs) > 0 {
			if u := thumbs[0].Attrs["url"]; isValidImageURL(u) {
				return u
			}
		}
	}

	// 3. First <img> in Atom content (The Verge).
	if u := firstInlineImage(item.Content); isValidImageURL(u) {
		return u
	}

	// 4. First <img> in the summary HTML.
	if u := firstInlineImage(item.Description); isValidImageURL(u) {
		return u
	}

	return ""
}

// firstInlineImage returns the src of the first <img> in an HTML fragment.
func firstInlineImage(htmlFragment string) string {
	if htmlFragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlFragment))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return src
}

// isValidImageURL rejects favicons, non-raster files, and hosts known to
// expose only a site favicon instead of an article image.
func isValidImageURL(u string) bool {
	if u == "" {
		return false
	}
	lower := strings.ToLower(u)
	if strings.Contains(lower, "favicon") {
		return false
	}
	for _, ext := range []string{".ico", ".svg", ".mp4", ".webm", ".ogg"} {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	// Google News RSS only ever carries the site favicon.
	if strings.HasPrefix(u, "https://news.google.com/") {
		return false
	}
	return true
}
