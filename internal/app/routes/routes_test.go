package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/MFZ2840/literasi-digital/internal/domain/models"
	"github.com/MFZ2840/literasi-digital/internal/domain/services"
	"github.com/MFZ2840/literasi-digital/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:    "routes-test-secret",
		CORSAllowOrigin: "http://localhost:3000",
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Article{}); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}
	return db
}

// seedAdmin 创建管理员并返回其记录，密码统一为admin123
func seedAdmin(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	user := &models.User{Email: email, Password: string(hash), Name: &name, Role: "admin"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试管理员失败: %v", err)
	}
	return user
}

// testEnv 组装路由、数据库和已认证的管理员令牌
type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	admin  *models.User
	token  string
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()
	db := newTestDB(t)
	admin := seedAdmin(t, db, "Admin", "admin@literasi.local")

	token, err := services.NewJWTService(cfg).GenerateToken(admin.ID, admin.Role)
	if err != nil {
		t.Fatalf("生成测试令牌失败: %v", err)
	}

	return &testEnv{
		router: SetupTestRouter(db, cfg),
		db:     db,
		admin:  admin,
		token:  token,
		cfg:    cfg,
	}
}

// perform 执行一次测试请求
// 限流器按客户端IP分桶，每个测试用独立IP避免互相挤占令牌
func (e *testEnv) perform(method, path, ip, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = ip + ":12345"
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("解析响应失败: %v, 正文: %s", err, w.Body.String())
	}
}

type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

func validArticleBody() map[string]interface{} {
	return map[string]interface{}{
		"title":      "数字素养入门",
		"content":    "<p>this is a long enough article body</p>",
		"seriesSlug": "digital-literacy",
		"order":      1,
		"image":      "",
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("凭据正确", func(t *testing.T) {
		w := env.perform(http.MethodPost, "/api/auth/login", "10.1.0.1", "", map[string]string{
			"email":    "admin@literasi.local",
			"password": "admin123",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("登录应返回200，得到 %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Token string `json:"token"`
			User  struct {
				ID    string `json:"id"`
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		}
		decodeBody(t, w, &resp)
		if resp.Token == "" {
			t.Error("响应应携带令牌")
		}
		if resp.User.ID == "" {
			t.Error("用户ID应为非空字符串")
		}
		if resp.User.Role != "admin" {
			t.Errorf("角色应为admin，得到 %q", resp.User.Role)
		}

		// 会话cookie写入
		cookieSet := false
		for _, c := range w.Result().Cookies() {
			if c.Name == "auth_token" && c.Value != "" && c.HttpOnly {
				cookieSet = true
			}
		}
		if !cookieSet {
			t.Error("登录应设置HttpOnly的auth_token cookie")
		}
	})

	t.Run("密码错误", func(t *testing.T) {
		w := env.perform(http.MethodPost, "/api/auth/login", "10.1.0.2", "", map[string]string{
			"email":    "admin@literasi.local",
			"password": "wrong",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("密码错误应返回401，得到 %d", w.Code)
		}
	})

	t.Run("账户不存在时返回同一错误", func(t *testing.T) {
		wrongPass := env.perform(http.MethodPost, "/api/auth/login", "10.1.0.3", "", map[string]string{
			"email": "admin@literasi.local", "password": "wrong",
		})
		noUser := env.perform(http.MethodPost, "/api/auth/login", "10.1.0.3", "", map[string]string{
			"email": "ghost@literasi.local", "password": "whatever",
		})
		if wrongPass.Code != noUser.Code || wrongPass.Body.String() != noUser.Body.String() {
			t.Error("密码错误与账户不存在的响应应不可区分")
		}
	})
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	t.Run("无令牌", func(t *testing.T) {
		w := env.perform(http.MethodGet, "/api/articles", "10.2.0.1", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("无令牌应返回401，得到 %d", w.Code)
		}
	})

	t.Run("令牌无效", func(t *testing.T) {
		w := env.perform(http.MethodGet, "/api/articles", "10.2.0.2", "garbage-token", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("无效令牌应返回401，得到 %d", w.Code)
		}
	})

	t.Run("非管理员角色", func(t *testing.T) {
		token, err := services.NewJWTService(env.cfg).GenerateToken(env.admin.ID, "viewer")
		if err != nil {
			t.Fatal(err)
		}
		w := env.perform(http.MethodGet, "/api/articles", "10.2.0.3", token, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("非管理员角色应返回401，得到 %d", w.Code)
		}
	})

	t.Run("会话cookie也可认证", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
		req.RemoteAddr = "10.2.0.4:12345"
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: env.token})
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("cookie认证应返回200，得到 %d", w.Code)
		}
	})
}

func TestArticleCRUD(t *testing.T) {
	env := newTestEnv(t)
	ip := "10.3.0.1"

	// 创建
	w := env.perform(http.MethodPost, "/api/articles", ip, env.token, validArticleBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("创建应返回201，得到 %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID         uint   `json:"id"`
		Title      string `json:"title"`
		SeriesSlug string `json:"seriesSlug"`
		Order      int    `json:"order"`
		Author     *struct {
			ID string `json:"id"`
		} `json:"author"`
	}
	decodeBody(t, w, &created)
	if created.ID == 0 || created.SeriesSlug != "digital-literacy" || created.Order != 1 {
		t.Errorf("创建响应应回显文章: %+v", created)
	}
	if created.Author == nil || created.Author.ID == "" {
		t.Errorf("创建响应应附带字符串ID的作者投影: %+v", created.Author)
	}

	// 列表
	w = env.perform(http.MethodGet, "/api/articles", ip, env.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("列表应返回200，得到 %d", w.Code)
	}
	var list []map[string]interface{}
	decodeBody(t, w, &list)
	if len(list) != 1 {
		t.Errorf("列表应有1篇文章，得到 %d", len(list))
	}

	// 详情
	w = env.perform(http.MethodGet, "/api/articles/1", ip, env.token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("详情应返回200，得到 %d", w.Code)
	}

	// 更新
	body := validArticleBody()
	body["title"] = "更新后的标题"
	body["order"] = 2
	w = env.perform(http.MethodPut, "/api/articles/1", ip, env.token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("更新应返回200，得到 %d: %s", w.Code, w.Body.String())
	}
	var updated struct {
		Title string `json:"title"`
		Order int    `json:"order"`
	}
	decodeBody(t, w, &updated)
	if updated.Title != "更新后的标题" || updated.Order != 2 {
		t.Errorf("更新响应不符: %+v", updated)
	}

	// 删除
	w = env.perform(http.MethodDelete, "/api/articles/1", ip, env.token, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("删除应返回204，得到 %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("204响应不应有正文，得到 %q", w.Body.String())
	}

	// 删除后访问
	w = env.perform(http.MethodGet, "/api/articles/1", ip, env.token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("删除后的文章应返回404，得到 %d", w.Code)
	}
}

func TestCreateArticleValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("非法slug场景", func(t *testing.T) {
		w := env.perform(http.MethodPost, "/api/articles", "10.4.0.1", env.token, map[string]interface{}{
			"title":      "Hi",
			"content":    "<p>ok</p>",
			"seriesSlug": "Test!",
			"order":      1,
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("应返回400，得到 %d", w.Code)
		}
		var body errorBody
		decodeBody(t, w, &body)
		if body.Field != "seriesSlug" {
			t.Errorf("错误字段应为seriesSlug，得到 %q", body.Field)
		}
		if body.Message == "" {
			t.Error("错误响应应携带message")
		}
	})

	t.Run("内容被消毒后过短", func(t *testing.T) {
		// script会被整体剥除，剩余纯文本不足10字符
		w := env.perform(http.MethodPost, "/api/articles", "10.4.0.2", env.token, map[string]interface{}{
			"title":      "合法标题",
			"content":    "<p>hi</p><script>alert('padding padding padding')</script>",
			"seriesSlug": "valid-slug",
			"order":      1,
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("应返回400，得到 %d: %s", w.Code, w.Body.String())
		}
		var body errorBody
		decodeBody(t, w, &body)
		if body.Field != "content" {
			t.Errorf("错误字段应为content，得到 %q", body.Field)
		}
	})
}

func TestCreateArticleSanitizesContent(t *testing.T) {
	env := newTestEnv(t)

	w := env.perform(http.MethodPost, "/api/articles", "10.5.0.1", env.token, map[string]interface{}{
		"title":      "消毒测试",
		"content":    `<p>safe long enough paragraph</p><script>alert("xss")</script><p onclick="x()">more text</p>`,
		"seriesSlug": "sanitize-test",
		"order":      1,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("创建应返回201，得到 %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		ID      uint   `json:"id"`
		Content string `json:"content"`
	}
	decodeBody(t, w, &created)
	if strings.Contains(created.Content, "<script") || strings.Contains(created.Content, "onclick") {
		t.Errorf("响应内容应已消毒: %q", created.Content)
	}

	// 存储的内容也已消毒
	var stored models.Article
	if err := env.db.First(&stored, created.ID).Error; err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stored.Content, "<script") || strings.Contains(stored.Content, "onclick") {
		t.Errorf("存储内容应已消毒: %q", stored.Content)
	}
}

func TestCreateArticleOrderConflict(t *testing.T) {
	env := newTestEnv(t)
	ip := "10.6.0.1"

	w := env.perform(http.MethodPost, "/api/articles", ip, env.token, validArticleBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("首次创建应返回201，得到 %d", w.Code)
	}

	w = env.perform(http.MethodPost, "/api/articles", ip, env.token, validArticleBody())
	if w.Code != http.StatusConflict {
		t.Fatalf("重复槽位应返回409，得到 %d: %s", w.Code, w.Body.String())
	}
	var body errorBody
	decodeBody(t, w, &body)
	if body.Field != "order" {
		t.Errorf("冲突字段应为order，得到 %q", body.Field)
	}
}

func TestPublicArticleEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ip := "10.7.0.1"

	// 准备两篇文章
	for i, slug := range []string{"series-one", "series-two"} {
		body := validArticleBody()
		body["title"] = "Public " + slug
		body["seriesSlug"] = slug
		body["order"] = i + 1
		w := env.perform(http.MethodPost, "/api/articles", ip, env.token, body)
		if w.Code != http.StatusCreated {
			t.Fatalf("准备数据失败: %d %s", w.Code, w.Body.String())
		}
	}

	t.Run("公开列表", func(t *testing.T) {
		w := env.perform(http.MethodGet, "/api/public/articles?take=1&skip=0", "10.7.0.2", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("公开列表应返回200，得到 %d", w.Code)
		}
		var resp struct {
			Articles      []map[string]interface{} `json:"articles"`
			TotalArticles int64                    `json:"totalArticles"`
		}
		decodeBody(t, w, &resp)
		if len(resp.Articles) != 1 || resp.TotalArticles != 2 {
			t.Errorf("take=1时应返回1篇、总数2，得到 len=%d total=%d", len(resp.Articles), resp.TotalArticles)
		}
	})

	t.Run("非法take参数", func(t *testing.T) {
		for _, q := range []string{"take=0", "take=-1", "take=abc", "skip=-2"} {
			w := env.perform(http.MethodGet, "/api/public/articles?"+q, "10.7.0.3", "", nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("%s 应返回400，得到 %d", q, w.Code)
			}
		}
	})

	t.Run("浏览量累加", func(t *testing.T) {
		ip := "10.7.0.4"
		env.perform(http.MethodGet, "/api/public/articles/1", ip, "", nil)
		env.perform(http.MethodGet, "/api/public/articles/1", ip, "", nil)

		var stored models.Article
		if err := env.db.First(&stored, 1).Error; err != nil {
			t.Fatal(err)
		}
		if stored.Views != 2 {
			t.Errorf("两次公开读取后浏览量应为2，得到 %d", stored.Views)
		}
	})

	t.Run("搜索", func(t *testing.T) {
		w := env.perform(http.MethodGet, "/api/public/articles/search?q=series-one", "10.7.0.5", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("搜索应返回200，得到 %d", w.Code)
		}
		var results []map[string]interface{}
		decodeBody(t, w, &results)
		if len(results) != 1 {
			t.Errorf("搜索应命中1篇，得到 %d", len(results))
		}

		w = env.perform(http.MethodGet, "/api/public/articles/search", "10.7.0.5", "", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("缺少关键词应返回400，得到 %d", w.Code)
		}
	})

	t.Run("作者下拉含哨兵", func(t *testing.T) {
		w := env.perform(http.MethodGet, "/api/public/authors", "10.7.0.6", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("作者列表应返回200，得到 %d", w.Code)
		}
		var authors []struct {
			ID   string  `json:"id"`
			Name *string `json:"name"`
		}
		decodeBody(t, w, &authors)
		if len(authors) != 2 {
			t.Fatalf("应有哨兵+1位作者，得到 %d", len(authors))
		}
		if authors[0].ID != "" || authors[0].Name == nil || *authors[0].Name != "All Authors" {
			t.Errorf("首项应为All Authors哨兵，得到 %+v", authors[0])
		}
	})

	t.Run("系列下拉含哨兵", func(t *testing.T) {
		w := env.perform(http.MethodGet, "/api/public/series", "10.7.0.7", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("系列列表应返回200，得到 %d", w.Code)
		}
		var series []struct {
			Slug string `json:"slug"`
			Name string `json:"name"`
		}
		decodeBody(t, w, &series)
		if len(series) != 3 {
			t.Fatalf("应有哨兵+2个系列，得到 %d", len(series))
		}
		if series[0].Slug != "" || series[0].Name != "All Series" {
			t.Errorf("首项应为All Series哨兵，得到 %+v", series[0])
		}
		// 其余按slug升序
		if series[1].Slug != "series-one" || series[2].Slug != "series-two" {
			t.Errorf("系列应按slug升序，得到 %v", series)
		}
	})

	t.Run("公开读取不存在的文章", func(t *testing.T) {
		w := env.perform(http.MethodGet, "/api/public/articles/9999", "10.7.0.8", "", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("应返回404，得到 %d", w.Code)
		}
	})
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	w := env.perform(http.MethodPatch, "/api/public/articles", "10.8.0.1", "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("未注册方法应返回405，得到 %d", w.Code)
	}
	var body errorBody
	decodeBody(t, w, &body)
	if body.Message != "Method Not Allowed" {
		t.Errorf("405消息应为Method Not Allowed，得到 %q", body.Message)
	}
}

func TestProfileEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ip := "10.9.0.1"

	t.Run("表单错误先于密码验证", func(t *testing.T) {
		// 用户名为空且密码错误时应报表单错误(400)，不报密码错误(401)
		w := env.perform(http.MethodPost, "/api/admin/profile/update-username", ip, env.token, map[string]string{
			"username":        "  ",
			"currentPassword": "wrong-password",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("表单错误应返回400，得到 %d", w.Code)
		}
		var body errorBody
		decodeBody(t, w, &body)
		if body.Field != "username" {
			t.Errorf("错误字段应为username，得到 %q", body.Field)
		}
	})

	t.Run("当前密码错误", func(t *testing.T) {
		w := env.perform(http.MethodPost, "/api/admin/profile/update-username", ip, env.token, map[string]string{
			"username":        "NewName",
			"currentPassword": "wrong-password",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("密码错误应返回401，得到 %d: %s", w.Code, w.Body.String())
		}

		// 验证失败时不发生任何写入
		var fresh models.User
		env.db.First(&fresh, env.admin.ID)
		if *fresh.Name != "Admin" {
			t.Errorf("密码错误时用户名不应变化，得到 %v", fresh.Name)
		}
	})

	t.Run("修改用户名成功", func(t *testing.T) {
		w := env.perform(http.MethodPost, "/api/admin/profile/update-username", ip, env.token, map[string]string{
			"username":        "Renamed",
			"currentPassword": "admin123",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("应返回200，得到 %d: %s", w.Code, w.Body.String())
		}
		var resp struct {
			Message string `json:"message"`
			User    struct {
				ID   string  `json:"id"`
				Name *string `json:"name"`
			} `json:"user"`
		}
		decodeBody(t, w, &resp)
		if resp.User.Name == nil || *resp.User.Name != "Renamed" {
			t.Errorf("响应应回显新用户名，得到 %+v", resp.User)
		}
		if resp.User.ID == "" {
			t.Error("用户ID应为非空字符串")
		}
	})

	t.Run("修改邮箱被占用", func(t *testing.T) {
		seedAdmin(t, env.db, "Other", "other@literasi.local")
		w := env.perform(http.MethodPost, "/api/admin/profile/update-email", ip, env.token, map[string]string{
			"newEmail":        "other@literasi.local",
			"currentPassword": "admin123",
		})
		if w.Code != http.StatusConflict {
			t.Fatalf("占用邮箱应返回409，得到 %d: %s", w.Code, w.Body.String())
		}
		var body errorBody
		decodeBody(t, w, &body)
		if body.Field != "newEmail" {
			t.Errorf("冲突字段应为newEmail，得到 %q", body.Field)
		}
	})

	t.Run("修改密码成功", func(t *testing.T) {
		w := env.perform(http.MethodPost, "/api/admin/profile/update-password", ip, env.token, map[string]string{
			"newPassword":        "fresh-secret",
			"confirmNewPassword": "fresh-secret",
			"currentPassword":    "admin123",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("应返回200，得到 %d: %s", w.Code, w.Body.String())
		}

		// 新密码可以用于登录
		login := env.perform(http.MethodPost, "/api/auth/login", "10.9.0.2", "", map[string]string{
			"email":    "admin@literasi.local",
			"password": "fresh-secret",
		})
		if login.Code != http.StatusOK {
			t.Errorf("新密码应可登录，得到 %d", login.Code)
		}
	})

	t.Run("两次新密码不一致", func(t *testing.T) {
		w := env.perform(http.MethodPost, "/api/admin/profile/update-password", ip, env.token, map[string]string{
			"newPassword":        "another-secret",
			"confirmNewPassword": "mismatch",
			"currentPassword":    "fresh-secret",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("应返回400，得到 %d", w.Code)
		}
		var body errorBody
		decodeBody(t, w, &body)
		if body.Field != "confirmNewPassword" {
			t.Errorf("错误字段应为confirmNewPassword，得到 %q", body.Field)
		}
	})

	t.Run("未认证", func(t *testing.T) {
		w := env.perform(http.MethodPost, "/api/admin/profile/update-username", "10.9.0.3", "", map[string]string{
			"username":        "X",
			"currentPassword": "y",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("未认证应返回401，得到 %d", w.Code)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	env := newTestEnv(t)
	ip := "10.10.0.1"

	// 公共接口突发容量为20，超出后收到429
	limited := false
	for i := 0; i < 25; i++ {
		w := env.perform(http.MethodGet, "/api/ping", ip, "", nil)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("超出突发容量后应返回429")
	}
}
