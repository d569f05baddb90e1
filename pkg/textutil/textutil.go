package textutil

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s\s+`)
)

// StripHTMLTags 去除字符串中所有HTML标签和特定HTML实体
// 用于内容长度校验和文章预览
func StripHTMLTags(htmlString string) string {
	if htmlString == "" {
		return ""
	}

	// 1. 去除所有HTML标签（如 <p>、<strong>、<ul>、<li>）
	cleaned := tagPattern.ReplaceAllString(htmlString, "")

	// 2. 将 &nbsp; 替换为普通空格
	cleaned = strings.ReplaceAll(cleaned, "&nbsp;", " ")

	// 3. 合并去除标签后可能出现的连续空白，并去掉首尾空格
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")

	return strings.TrimSpace(cleaned)
}

// TruncateText 将文本截断到指定最大长度，截断时在词边界附近断开并追加省略号
func TruncateText(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	if len(text) <= maxLength {
		return text
	}

	truncated := text[:maxLength]
	// 在maxLength的最后20%范围内寻找空格，避免截断单词
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace != -1 && float64(lastSpace) > float64(maxLength)*0.8 {
		return truncated[:lastSpace] + "..."
	}
	return truncated + "..."
}

// ArticlePreview 组合StripHTMLTags和TruncateText，生成文章预览文本
func ArticlePreview(htmlContent string, previewLength int) string {
	stripped := StripHTMLTags(htmlContent)
	return TruncateText(stripped, previewLength)
}
