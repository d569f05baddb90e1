package validators

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/MFZ2840/literasi-digital/pkg/textutil"
)

// 校验规则在服务端和管理后台表单之间共享，规则只在这里定义一次

const (
	// MinTitleLength 标题最小长度
	MinTitleLength = 3
	// MinContentLength 内容去除HTML标签后的最小长度
	MinContentLength = 10
	// MinSeriesSlugLength 系列Slug最小长度
	MinSeriesSlugLength = 3
	// MinPasswordLength 新密码最小长度
	MinPasswordLength = 6
)

// seriesSlugPattern 系列Slug只允许小写字母、数字和连字符
var seriesSlugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// FieldError 表示某个输入字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 实现error接口
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ArticleInput 表示待校验的文章输入
type ArticleInput struct {
	Title      string
	Content    string
	SeriesSlug string
	Order      int
	Image      string
}

// ValidateArticle 校验文章输入，返回所有字段错误（不在第一个错误处停止）
func ValidateArticle(in ArticleInput) []FieldError {
	var errs []FieldError

	// 系列Slug的格式错误影响路由和过滤语义，排在错误列表最前
	slug := strings.TrimSpace(in.SeriesSlug)
	if slug == "" {
		errs = append(errs, FieldError{Field: "seriesSlug", Message: "系列Slug不能为空"})
	} else if len(slug) < MinSeriesSlugLength {
		errs = append(errs, FieldError{Field: "seriesSlug", Message: "系列Slug至少3个字符"})
	} else if !seriesSlugPattern.MatchString(slug) {
		errs = append(errs, FieldError{Field: "seriesSlug", Message: "系列Slug只能包含小写字母、数字和连字符(-)"})
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "标题不能为空"})
	} else if len([]rune(title)) < MinTitleLength {
		errs = append(errs, FieldError{Field: "title", Message: "标题至少3个字符"})
	}

	stripped := textutil.StripHTMLTags(in.Content)
	if stripped == "" {
		errs = append(errs, FieldError{Field: "content", Message: "内容不能为空"})
	} else if len([]rune(stripped)) < MinContentLength {
		errs = append(errs, FieldError{Field: "content", Message: "内容至少10个字符（不含格式标签的纯文本）"})
	}

	if in.Order < 1 {
		errs = append(errs, FieldError{Field: "order", Message: "文章顺序必须是正整数"})
	}

	if img := strings.TrimSpace(in.Image); img != "" {
		if !isValidURL(img) {
			errs = append(errs, FieldError{Field: "image", Message: "图片URL无效"})
		}
	}

	return errs
}

// ValidateUsernameChange 校验用户名修改请求的表单字段
func ValidateUsernameChange(username, currentPassword string) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(username) == "" {
		errs = append(errs, FieldError{Field: "username", Message: "用户名不能为空"})
	}
	errs = append(errs, validateCurrentPassword(currentPassword)...)
	return errs
}

// ValidateEmailChange 校验邮箱修改请求的表单字段
func ValidateEmailChange(newEmail, currentPassword string) []FieldError {
	var errs []FieldError
	if !strings.Contains(newEmail, "@") {
		errs = append(errs, FieldError{Field: "newEmail", Message: "新邮箱无效"})
	}
	errs = append(errs, validateCurrentPassword(currentPassword)...)
	return errs
}

// ValidatePasswordChange 校验密码修改请求的表单字段
func ValidatePasswordChange(newPassword, confirmNewPassword, currentPassword string) []FieldError {
	var errs []FieldError
	if len(newPassword) < MinPasswordLength {
		errs = append(errs, FieldError{Field: "newPassword", Message: "新密码至少6个字符"})
	} else if newPassword != confirmNewPassword {
		errs = append(errs, FieldError{Field: "confirmNewPassword", Message: "两次输入的新密码不一致"})
	}
	errs = append(errs, validateCurrentPassword(currentPassword)...)
	return errs
}

// validateCurrentPassword 任何资料变更都必须附带当前密码
func validateCurrentPassword(currentPassword string) []FieldError {
	if strings.TrimSpace(currentPassword) == "" {
		return []FieldError{{Field: "currentPassword", Message: "修改资料需要提供当前密码确认"}}
	}
	return nil
}

// isValidURL 判断字符串是否为格式正确的绝对URL
func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
