package service

import (
	"html"
	"regexp"
	"strings"
)

var (
	// 段落类标签换成换行，其余标签直接移除
	blockTagRegex = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/h[1-6])\s*/?\s*>`)
	htmlTagRegex  = regexp.MustCompile(`<[^>]*>`)
	blankRunRegex = regexp.MustCompile(`\n[ \t\r\n]*\n`)
)

// CleanContent 清洗从网页或数据库导出的正文：解码 HTML 实体，移除标签，合并空行
func CleanContent(text string) string {
	if text == "" || !strings.ContainsAny(text, "<&") {
		return text
	}
	text = blockTagRegex.ReplaceAllString(text, "\n")
	text = htmlTagRegex.ReplaceAllString(text, "")
	// 先去标签再解码，避免把 &lt;p&gt; 这类正文内容当成标签移除
	text = html.UnescapeString(text)
	text = blankRunRegex.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
