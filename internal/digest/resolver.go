// Package digest resolves model output back to the source articles it
// references, producing the sections handed to the renderer and to
// delivery.
package digest

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/LCLx/daily-news-summary/internal/config"
	"github.com/LCLx/daily-news-summary/internal/model"
	"github.com/LCLx/daily-news-summary/pkg/llm"
	"github.com/LCLx/daily-news-summary/pkg/rss"
)

// Resolve maps every section and item of the model output onto the fetched
// buckets. Unknown categories and unresolvable refs are dropped with a
// warning; they never fail the run. Section and item order follow the model
// output.
func Resolve(raw *llm.Digest, buckets rss.Buckets, sources *config.Sources) []model.DigestSection {
	var sections []model.DigestSection
	for _, rawSection := range raw.Sections {
		category, ok := sources.Lookup(rawSection.Category)
		if !ok {
			slog.Warn("dropping section with unknown category", "category", rawSection.Category)
			continue
		}
		bucket := buckets[category.Key]

		section := model.DigestSection{
			CategoryKey: category.Key,
			Label:       category.Label,
			Emoji:       category.Emoji,
			Deals:       category.Deals,
		}
		for _, item := range rawSection.Items {
			idx, ok := parseRef(item.Ref)
			if !ok {
				slog.Warn("dropping item with unparsable ref", "category", category.Key, "ref", item.Ref)
				continue
			}
			if idx < 1 || idx > len(bucket) {
				slog.Warn("dropping item with out-of-range ref",
					"category", category.Key, "ref", item.Ref, "bucket_size", len(bucket))
				continue
			}
			section.Items = append(section.Items, model.MergeResolved(bucket[idx-1], item))
		}

		sections = append(sections, section)
	}
	return sections
}

// parseRef extracts the 1-based article index from a ref. The canonical
// form is a plain integer; "category:index" is an older convention still
// accepted for compatibility.
func parseRef(ref string) (int, bool) {
	ref = strings.TrimSpace(ref)
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		ref = ref[i+1:]
	}
	idx, err := strconv.Atoi(strings.TrimSpace(ref))
	if err != nil {
		return 0, false
	}
	return idx, true
}
