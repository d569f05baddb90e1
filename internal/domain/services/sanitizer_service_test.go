package services

import (
	"strings"
	"testing"
)

func TestSanitizeRemovesScript(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`<p>hello</p><script>alert("xss")</script>`)
	if strings.Contains(got, "<script") || strings.Contains(got, "alert") {
		t.Errorf("script内容未被移除: %q", got)
	}
	if !strings.Contains(got, "<p>hello</p>") {
		t.Errorf("正常排版标签不应被移除: %q", got)
	}
}

func TestSanitizeRemovesEventHandlers(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`<p onclick="steal()">text</p><img src="x" onerror="steal()">`)
	if strings.Contains(got, "onclick") || strings.Contains(got, "onerror") {
		t.Errorf("事件属性未被移除: %q", got)
	}
}

func TestSanitizeRemovesJavascriptURL(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`<a href="javascript:alert(1)">link</a>`)
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript链接未被移除: %q", got)
	}
}

func TestSanitizeKeepsFormatting(t *testing.T) {
	s := NewContentSanitizer()

	input := `<p>para</p><strong>bold</strong><em>italic</em><ul><li>item</li></ul><a href="https://example.com">link</a>`
	got := s.Sanitize(input)
	for _, tag := range []string{"<p>", "<strong>", "<em>", "<ul>", "<li>", "https://example.com"} {
		if !strings.Contains(got, tag) {
			t.Errorf("排版元素 %q 不应被移除: %q", tag, got)
		}
	}
}

// 消毒是幂等的：对已消毒的内容再次消毒结果不变
func TestSanitizeIdempotent(t *testing.T) {
	s := NewContentSanitizer()

	input := `<p>hello <strong>world</strong></p><script>bad()</script><p onclick="x()">y</p>`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("消毒应幂等: 第一次 %q, 第二次 %q", once, twice)
	}
}
