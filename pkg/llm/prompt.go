package llm

import (
	"fmt"
	"strings"
)

// maxArticlesPerCategory caps how many articles of a bucket are shown to
// the model. Buckets arrive sorted newest first, so the cap keeps the most
// recent ones.
const maxArticlesPerCategory = 15

// PromptArticle is the slice of an article the model gets to see.
type PromptArticle struct {
	Title   string
	Source  string
	Summary string
}

// PromptCategory is one category block of the prompt. Label is the
// model-facing section name; Articles keep their bucket order, which
// defines the 1-based numbering the model echoes back as ref.
type PromptCategory struct {
	Label    string
	Deals    bool
	Articles []PromptArticle
}

const promptHeader = `以下是今日各板块的英文新闻（已按板块分类）。每条新闻有编号 [i]，ref 字段请填写该编号（如 "3"）。`

const promptRules = `请从以上新闻中选稿，生成中文新闻摘要。

**选稿规则：**
- 板块：%s
- 新闻板块各选最重要的5条
- 优惠板块最多选10条
- ref 为新闻在其板块内的编号，必须来自对应板块
- title_zh 为中文标题，summary_zh 为 100-150 字中文摘要，准确客观简洁
- 品牌名保留英文原名（如 Logitech、KEF、Garmin、Nintendo）

**选稿标准（新闻板块）：**
- 优先选影响全球格局的重大事件，避免软新闻和娱乐性内容
- 同一事件只选一条，选报道最完整的
- 科技板块优先选 AI 相关新闻

**优惠选品规则：**
- 排除 Renewed/Refurbished/Like-New/Open Box 等二手翻新产品
- 电子产品合计不超过6条，其余名额优先分配给家居、工具、游戏、户外装备
- 折扣力度优先（30%%+ 优先考虑）
- 如原文有价格信息，必须提取 price/original_price/discount 字段`

// cliFormatInstructions spells out the JSON contract for the CLI backend,
// which has no schema enforcement. The API backend omits this block; its
// tool schema does the work.
const cliFormatInstructions = `

**JSON 格式：**
{"sections": [
  {"category": "板块名", "items": [
    {"ref": "3", "title_zh": "中文标题", "summary_zh": "100-150字中文摘要"}
  ]},
  {"category": "优惠板块名", "items": [
    {"ref": "5", "title_zh": "中文商品名", "summary_zh": "一句话介绍", "price": "$XX.XX", "original_price": "$YY", "discount": "XX%", "store": "Amazon"}
  ]}
]}

只输出合法 JSON，不要任何其他内容（无 markdown、无开场白、无结束语）。`

// BuildPrompt serializes the categorized articles into the model prompt.
// Empty categories are skipped. withFormatInstructions is set by the CLI
// backend only.
func BuildPrompt(categories []PromptCategory, withFormatInstructions bool) string {
	var blocks []string
	var labels []string
	for _, category := range categories {
		if len(category.Articles) == 0 {
			continue
		}
		labels = append(labels, category.Label)

		var sb strings.Builder
		fmt.Fprintf(&sb, "\n## %s\n\n", category.Label)
		for i, article := range category.Articles {
			if i >= maxArticlesPerCategory {
				break
			}
			fmt.Fprintf(&sb, "[%d] %s | src: %s\n%s\n\n", i+1, article.Title, article.Source, article.Summary)
		}
		blocks = append(blocks, sb.String())
	}

	prompt := promptHeader + "\n" +
		strings.Join(blocks, "\n") + "\n" +
		fmt.Sprintf(promptRules, strings.Join(labels, "、"))
	if withFormatInstructions {
		prompt += cliFormatInstructions
	}
	return prompt
}
