package render

import (
	"strings"
	"testing"
	"time"

	"github.com/LCLx/daily-news-summary/internal/model"
)

var renderTime = time.Date(2024, 5, 12, 8, 0, 0, 0, time.UTC)

func editorialSection(items ...model.ResolvedItem) model.DigestSection {
	return model.DigestSection{
		CategoryKey: "Tech & AI",
		Label:       "科技与AI",
		Emoji:       "💻",
		Items:       items,
	}
}

func TestRenderEscapesUntrustedText(t *testing.T) {
	doc, err := Render([]model.DigestSection{editorialSection(model.ResolvedItem{
		TitleZH:       `<script>alert("xss")</script>`,
		SummaryZH:     "总结 & 结论",
		OriginalTitle: `Feed title with <b>markup</b>`,
		Link:          "https://example.com/article",
		Source:        "The Verge",
		PublishedAt:   renderTime,
	})}, renderTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(doc, `<script>alert`) {
		t.Error("model-authored script tag rendered as live markup")
	}
	if !strings.Contains(doc, "&lt;script&gt;") {
		t.Error("model-authored title not escaped as text")
	}
	if strings.Contains(doc, "<b>markup</b>") {
		t.Error("feed-authored markup rendered live")
	}
}

func TestRenderEditorialLayout(t *testing.T) {
	doc, err := Render([]model.DigestSection{editorialSection(model.ResolvedItem{
		TitleZH:       "中文标题",
		SummaryZH:     "中文摘要",
		OriginalTitle: "Original title",
		Link:          "https://example.com/article",
		Source:        "The Verge",
		PublishedAt:   renderTime,
		ImageURL:      "https://cdn.example.com/pic.jpg",
	})}, renderTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"💻 科技与AI",
		"1. 中文标题",
		"中文摘要",
		`href="https://example.com/article"`,
		"Original title",
		"来源: The Verge",
		"2024-05-12 08:00",
		`src="https://cdn.example.com/pic.jpg"`,
		"2024年05月12日",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRenderDealsLayout(t *testing.T) {
	doc, err := Render([]model.DigestSection{{
		CategoryKey: "Deals",
		Label:       "今日优惠",
		Emoji:       "🛍️",
		Deals:       true,
		Items: []model.ResolvedItem{{
			TitleZH:       "好物",
			SummaryZH:     "一句话介绍",
			Link:          "https://example.com/deal",
			Price:         "$49.99",
			OriginalPrice: "$99.99",
			Discount:      "50%",
			Store:         "Amazon",
			PublishedAt:   renderTime,
		}},
	}}, renderTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"🛍️ 今日优惠",
		"$49.99",
		"原价 $99.99",
		"省 50%",
		"📍 Amazon",
		"查看优惠",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(doc, "原文:") {
		t.Error("deals section should not use the editorial backlink layout")
	}
}

func TestRenderDealsPartialPriceFields(t *testing.T) {
	doc, err := Render([]model.DigestSection{{
		Label: "今日优惠",
		Deals: true,
		Items: []model.ResolvedItem{{
			TitleZH:     "只有价格",
			SummaryZH:   "x",
			Link:        "https://example.com/deal",
			Price:       "$10",
			PublishedAt: renderTime,
		}},
	}}, renderTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(doc, "$10") {
		t.Error("price missing")
	}
	if strings.Contains(doc, "原价") || strings.Contains(doc, "📍") {
		t.Error("absent price fields should not render their labels")
	}
}

func TestRenderOmitsImageWhenAbsent(t *testing.T) {
	doc, err := Render([]model.DigestSection{editorialSection(model.ResolvedItem{
		TitleZH:     "无图",
		SummaryZH:   "x",
		Link:        "https://example.com/a",
		PublishedAt: renderTime,
	})}, renderTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(doc, "<img") {
		t.Error("image tag rendered for item without image")
	}
}

func TestRenderNumbersItems(t *testing.T) {
	doc, err := Render([]model.DigestSection{editorialSection(
		model.ResolvedItem{TitleZH: "第一", SummaryZH: "x", Link: "https://example.com/1", PublishedAt: renderTime},
		model.ResolvedItem{TitleZH: "第二", SummaryZH: "x", Link: "https://example.com/2", PublishedAt: renderTime},
	)}, renderTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(doc, "1. 第一") || !strings.Contains(doc, "2. 第二") {
		t.Error("items not numbered in order")
	}
}

func TestConsoleSummary(t *testing.T) {
	text := ConsoleSummary([]model.DigestSection{
		editorialSection(model.ResolvedItem{
			TitleZH: "中文标题",
			Link:    "https://example.com/article",
		}),
		{
			Label: "今日优惠",
			Emoji: "🛍️",
			Deals: true,
			Items: []model.ResolvedItem{{
				TitleZH:  "好物",
				Link:     "https://example.com/deal",
				Price:    "$49.99",
				Discount: "50%",
			}},
		},
	})

	for _, want := range []string{
		"## 💻 科技与AI",
		"1. 中文标题",
		"https://example.com/article",
		"## 🛍️ 今日优惠",
		"($49.99, -50%)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "<") {
		t.Errorf("console summary should be plain text:\n%s", text)
	}
}
