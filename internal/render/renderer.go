// Package render turns resolved digest sections into the HTML document
// sent out by delivery, plus a flat text summary for the console.
package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/LCLx/daily-news-summary/internal/model"
)

const documentTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
  </head>
  <body style="font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Arial,sans-serif;line-height:1.6;max-width:800px;margin:0 auto;padding:20px;color:#333;">
    <h1 style="color:#2c3e50;text-align:center;">📰 今日新闻摘要</h1>
    <p style="text-align:center;color:#7f8c8d;">{{.Date}}</p>
    <hr style="border:none;border-top:1px solid #eee;margin:25px 0;"/>
{{- range $section := .Sections}}
    <h2 style="color:#2c3e50;border-bottom:2px solid #3498db;padding-bottom:10px;margin-top:30px;">{{$section.Emoji}} {{$section.Label}}</h2>
{{-  range $i, $item := $section.Items}}
    <h3 style="color:#34495e;margin-top:32px;margin-bottom:8px;padding-top:24px;border-top:1px solid #eee;">{{add1 $i}}. {{$item.TitleZH}}</h3>
{{-   if $item.ImageURL}}
{{-    if $section.Deals}}
    <img onerror="this.remove()" style="width:110px;height:110px;max-width:110px;max-height:110px;object-fit:contain;float:left;margin:0 14px 6px 0;border-radius:4px;border:1px solid #eee;background:#f9f9f9;" src="{{$item.ImageURL}}"/>
{{-    else}}
    <img onerror="this.remove()" style="display:block;max-width:100%;max-height:400px;width:auto;height:auto;object-fit:contain;border-radius:6px;margin:10px auto 16px;" src="{{$item.ImageURL}}"/>
{{-    end}}
{{-   end}}
{{-   if $section.Deals}}
{{-    if or $item.Price (and $item.OriginalPrice $item.Discount) $item.Store}}
    <p style="margin:15px 0;white-space:pre-line;">{{if $item.Price}}<strong style="font-size:1.15em;">{{$item.Price}}</strong>{{end}}{{if and $item.OriginalPrice $item.Discount}}（原价 {{$item.OriginalPrice}}，省 {{$item.Discount}}）{{end}}{{if $item.Store}}｜ 📍 {{$item.Store}}{{end}}</p>
{{-    end}}
    <p style="margin:15px 0;white-space:pre-line;">{{$item.SummaryZH}}</p>
    <p style="margin:15px 0;white-space:pre-line;">🔗 <a style="color:#3498db;text-decoration:none;" href="{{$item.Link}}">查看优惠</a></p>
{{-   else}}
    <p style="margin:15px 0;">{{$item.SummaryZH}}</p>
    <p style="margin:15px 0;">🔗 原文: <a style="color:#3498db;text-decoration:none;" href="{{$item.Link}}">{{$item.OriginalTitle}}</a><br/>📰 来源: {{$item.Source}} | {{published $item.PublishedAt}}</p>
{{-   end}}
    <hr style="border:none;border-top:1px solid #eee;margin:25px 0;clear:both;"/>
{{-  end}}
{{- end}}
  </body>
</html>
`

var tmpl = template.Must(template.New("digest").Funcs(template.FuncMap{
	"add1":      func(i int) int { return i + 1 },
	"published": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}).Parse(documentTemplate))

// Render produces the full HTML document for the given sections. All
// feed- and model-supplied text passes through template auto-escaping, so
// markup in titles or summaries comes out as text, never live HTML.
func Render(sections []model.DigestSection, now time.Time) (string, error) {
	data := struct {
		Date     string
		Sections []model.DigestSection
	}{
		Date:     now.Format("2006年01月02日"),
		Sections: sections,
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering digest: %w", err)
	}
	return sb.String(), nil
}

// ConsoleSummary flattens the sections into plain text for operator
// visibility in the run log.
func ConsoleSummary(sections []model.DigestSection) string {
	var sb strings.Builder
	for _, section := range sections {
		fmt.Fprintf(&sb, "## %s %s\n", section.Emoji, section.Label)
		for i, item := range section.Items {
			fmt.Fprintf(&sb, "%d. %s", i+1, item.TitleZH)
			if section.Deals && item.Price != "" {
				fmt.Fprintf(&sb, " (%s", item.Price)
				if item.Discount != "" {
					fmt.Fprintf(&sb, ", -%s", item.Discount)
				}
				sb.WriteString(")")
			}
			sb.WriteString("\n")
			fmt.Fprintf(&sb, "   %s\n", item.Link)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
