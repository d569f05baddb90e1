package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MFZ2840/literasi-digital/internal/domain/services"
)

// 响应缓存中间件，把成功的GET响应缓存到Redis
// 只用于作者/系列下拉选项这类准静态数据；文章数据不经过缓存，
// 核心进程内不持有文章或用户状态的副本

// CacheConfig 缓存配置
type CacheConfig struct {
	Expiration time.Duration             // 缓存过期时间
	KeyFunc    func(*gin.Context) string // 自定义缓存键生成函数
}

// defaultKeyFunc 默认缓存键生成函数：路径+排序后的查询参数的MD5
func defaultKeyFunc(c *gin.Context) string {
	path := c.Request.URL.Path

	queryParams := c.Request.URL.Query()
	var queryKeys []string
	for key := range queryParams {
		queryKeys = append(queryKeys, key)
	}
	sort.Strings(queryKeys)

	var queryString string
	for _, key := range queryKeys {
		values := queryParams[key]
		sort.Strings(values)
		for _, value := range values {
			queryString += key + "=" + value + "&"
		}
	}

	hasher := md5.New()
	hasher.Write([]byte(path + "?" + queryString))
	return "response_cache:" + hex.EncodeToString(hasher.Sum(nil))
}

// cachedWriter 包装ResponseWriter以捕获响应正文
type cachedWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cachedWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

// Cache 创建响应缓存中间件
// redisService为nil（Redis不可用）时退化为直通
func Cache(redisService services.InterfaceRedisService, cfg CacheConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = defaultKeyFunc
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = 5 * time.Minute
	}

	return func(c *gin.Context) {
		if redisService == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cfg.KeyFunc(c)

		// 命中缓存直接返回
		if cached, err := redisService.GetRaw(key); err == nil && len(cached) > 0 {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		// 未命中时捕获响应并写入缓存
		writer := &cachedWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() == http.StatusOK {
			// 写缓存失败不影响响应
			_ = redisService.SetRaw(key, writer.body.Bytes(), cfg.Expiration)
		}
	}
}
