package services

import (
	"github.com/microcosm-cc/bluemonday"
)

// InterfaceContentSanitizer 内容消毒服务接口
type InterfaceContentSanitizer interface {
	Sanitize(html string) string
}

// ContentSanitizer 在写入边界对富文本内容做白名单消毒
// 存储的内容保证可以在任何读取路径直接渲染，读取路径不再消毒
type ContentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer 创建一个新的内容消毒服务
func NewContentSanitizer() InterfaceContentSanitizer {
	// UGC策略：保留常规排版标签，去除script、事件属性和javascript:链接
	return &ContentSanitizer{
		policy: bluemonday.UGCPolicy(),
	}
}

// Sanitize 对HTML字符串做白名单过滤，幂等
func (s *ContentSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
