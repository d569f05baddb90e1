package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MFZ2840/literasi-digital/internal/domain/services"
	"github.com/MFZ2840/literasi-digital/internal/error/response"
	"github.com/MFZ2840/literasi-digital/internal/infrastructure/config"
)

// AuthCookieName 会话令牌cookie名称，登录接口写入，认证中间件读取
const AuthCookieName = "auth_token"

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken 从请求中提取令牌：优先会话cookie，其次Authorization头
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	// 检查并移除 "Bearer " 前缀
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// AuthenticateAdmin 验证管理员权限
// 管理面的所有操作都要求admin角色；校验失败一律返回401，
// 不区分令牌缺失、无效或角色不足，避免泄露资源信息
func AuthenticateAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := jwtService.ExtractClaims(tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		// 检查是否是管理员
		if claims.Role != "admin" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		// 存储claims到上下文
		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
