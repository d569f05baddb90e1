package validators

import "testing"

// fieldSet 把错误列表折叠为字段名集合，便于断言
func fieldSet(errs []FieldError) map[string]bool {
	set := make(map[string]bool, len(errs))
	for _, e := range errs {
		set[e.Field] = true
	}
	return set
}

func validInput() ArticleInput {
	return ArticleInput{
		Title:      "数字素养入门",
		Content:    "<p>这是一段足够长的正文内容</p>",
		SeriesSlug: "digital-literacy",
		Order:      1,
		Image:      "https://example.com/cover.png",
	}
}

func TestValidateArticleValid(t *testing.T) {
	if errs := ValidateArticle(validInput()); len(errs) != 0 {
		t.Fatalf("合法输入不应产生错误，得到 %v", errs)
	}

	// 图片为空是合法的
	in := validInput()
	in.Image = ""
	if errs := ValidateArticle(in); len(errs) != 0 {
		t.Fatalf("无图片的输入不应产生错误，得到 %v", errs)
	}
}

func TestValidateArticleFieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ArticleInput)
		wantField string
	}{
		{
			name:      "标题为空",
			mutate:    func(in *ArticleInput) { in.Title = "   " },
			wantField: "title",
		},
		{
			name:      "标题过短",
			mutate:    func(in *ArticleInput) { in.Title = "Hi" },
			wantField: "title",
		},
		{
			name:      "内容去标签后为空",
			mutate:    func(in *ArticleInput) { in.Content = "<p></p>" },
			wantField: "content",
		},
		{
			name:      "内容去标签后过短",
			mutate:    func(in *ArticleInput) { in.Content = "<p>短</p>" },
			wantField: "content",
		},
		{
			name:      "系列Slug为空",
			mutate:    func(in *ArticleInput) { in.SeriesSlug = "" },
			wantField: "seriesSlug",
		},
		{
			name:      "系列Slug过短",
			mutate:    func(in *ArticleInput) { in.SeriesSlug = "ab" },
			wantField: "seriesSlug",
		},
		{
			name:      "系列Slug含大写和标点",
			mutate:    func(in *ArticleInput) { in.SeriesSlug = "Test!" },
			wantField: "seriesSlug",
		},
		{
			name:      "顺序为零",
			mutate:    func(in *ArticleInput) { in.Order = 0 },
			wantField: "order",
		},
		{
			name:      "顺序为负",
			mutate:    func(in *ArticleInput) { in.Order = -3 },
			wantField: "order",
		},
		{
			name:      "图片不是合法URL",
			mutate:    func(in *ArticleInput) { in.Image = "not-a-url" },
			wantField: "image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			errs := ValidateArticle(in)
			if len(errs) == 0 {
				t.Fatal("应产生校验错误")
			}
			if !fieldSet(errs)[tt.wantField] {
				t.Errorf("错误字段集合 %v 中缺少 %q", fieldSet(errs), tt.wantField)
			}
		})
	}
}

// 校验收集全部错误而不是在第一个错误处停止
func TestValidateArticleCollectsAllErrors(t *testing.T) {
	in := ArticleInput{Title: "", Content: "", SeriesSlug: "", Order: 0, Image: ""}
	errs := ValidateArticle(in)

	set := fieldSet(errs)
	for _, field := range []string{"title", "content", "seriesSlug", "order"} {
		if !set[field] {
			t.Errorf("错误字段集合 %v 中缺少 %q", set, field)
		}
	}
}

func TestValidateUsernameChange(t *testing.T) {
	if errs := ValidateUsernameChange("author", "secret"); len(errs) != 0 {
		t.Errorf("合法输入不应产生错误，得到 %v", errs)
	}

	errs := ValidateUsernameChange("  ", "secret")
	if len(errs) != 1 || errs[0].Field != "username" {
		t.Errorf("空用户名应产生username错误，得到 %v", errs)
	}

	errs = ValidateUsernameChange("author", "")
	if len(errs) != 1 || errs[0].Field != "currentPassword" {
		t.Errorf("缺少当前密码应产生currentPassword错误，得到 %v", errs)
	}
}

func TestValidateEmailChange(t *testing.T) {
	if errs := ValidateEmailChange("new@example.com", "secret"); len(errs) != 0 {
		t.Errorf("合法输入不应产生错误，得到 %v", errs)
	}

	errs := ValidateEmailChange("invalid-email", "secret")
	if len(errs) != 1 || errs[0].Field != "newEmail" {
		t.Errorf("非法邮箱应产生newEmail错误，得到 %v", errs)
	}
}

func TestValidatePasswordChange(t *testing.T) {
	tests := []struct {
		name       string
		newPass    string
		confirm    string
		current    string
		wantFields []string
	}{
		{
			name:    "合法输入",
			newPass: "newsecret",
			confirm: "newsecret",
			current: "oldsecret",
		},
		{
			name:       "新密码过短",
			newPass:    "short",
			confirm:    "short",
			current:    "oldsecret",
			wantFields: []string{"newPassword"},
		},
		{
			name:       "两次输入不一致",
			newPass:    "newsecret",
			confirm:    "different",
			current:    "oldsecret",
			wantFields: []string{"confirmNewPassword"},
		},
		{
			name:       "缺少当前密码",
			newPass:    "newsecret",
			confirm:    "newsecret",
			current:    "",
			wantFields: []string{"currentPassword"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidatePasswordChange(tt.newPass, tt.confirm, tt.current)
			if len(tt.wantFields) == 0 {
				if len(errs) != 0 {
					t.Errorf("不应产生错误，得到 %v", errs)
				}
				return
			}
			set := fieldSet(errs)
			for _, field := range tt.wantFields {
				if !set[field] {
					t.Errorf("错误字段集合 %v 中缺少 %q", set, field)
				}
			}
		})
	}
}
