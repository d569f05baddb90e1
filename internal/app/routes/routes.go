package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/MFZ2840/literasi-digital/docs"
	"github.com/MFZ2840/literasi-digital/internal/app/controllers"
	"github.com/MFZ2840/literasi-digital/internal/app/middleware"
	"github.com/MFZ2840/literasi-digital/internal/domain/services/container"
	"github.com/MFZ2840/literasi-digital/internal/error/code"
	"github.com/MFZ2840/literasi-digital/internal/error/response"
	"github.com/MFZ2840/literasi-digital/internal/infrastructure/config"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	return setupRouter(db, cfg, true)
}

// SetupTestRouter 构建不依赖Redis的路由，供处理器测试使用
func SetupTestRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	return setupRouter(db, cfg, false)
}

func setupRouter(db *gorm.DB, cfg *config.Config, withRedis bool) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 未注册方法返回405而不是404
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.Fail(c, code.ErrMethodNotAllowed, "")
	})

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})
	// 请求ID中间件，便于日志追踪
	r.Use(middleware.RequestID())
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, withRedis)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg, db)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加IP限流中间件 - 每秒允许10个请求，最多突发20个请求
	api.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "ping")) // 兼容Docker健康检查的路由

	// 健康状态路由组
	healthGroup := api.Group("/health")
	healthGroup.GET("/status", controllers.HandleHealthFunc(container, "status"))

	// 认证路由
	api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))
	api.POST("/auth/logout", controllers.HandleJWTFunc(container, "logout"))

	// 公共阅读路由
	publicGroup := api.Group("/public")
	publicGroup.GET("/articles", controllers.HandlePublicArticleFunc(container, "getArticles"))
	publicGroup.GET("/articles/search", controllers.HandlePublicArticleFunc(container, "searchArticles"))
	publicGroup.GET("/articles/:id", controllers.HandlePublicArticleFunc(container, "getArticle"))
	// 下拉选项数据变化缓慢，是仅有的两个经过响应缓存的接口；
	// 文章和用户数据始终直接读库
	redisService := container.GetRedisService()
	publicGroup.GET("/authors", middleware.Cache(redisService, middleware.CacheConfig{Expiration: 5 * time.Minute}), controllers.HandlePublicArticleFunc(container, "getAuthors"))
	publicGroup.GET("/series", middleware.Cache(redisService, middleware.CacheConfig{Expiration: 5 * time.Minute}), controllers.HandlePublicArticleFunc(container, "getSeries"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加认证中间件
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateAdmin())

	// 添加通用限流中间件 - 每秒30个请求，最多突发50个请求
	auth.Use(middleware.IPRateLimiter(30, 50))

	// 文章管理路由
	articleGroup := auth.Group("/articles")
	articleGroup.GET("", controllers.HandleArticleFunc(container, "getArticles"))
	articleGroup.GET("/:id", controllers.HandleArticleFunc(container, "getArticle"))
	articleGroup.POST("", controllers.HandleArticleFunc(container, "createArticle"))
	articleGroup.PUT("/:id", controllers.HandleArticleFunc(container, "updateArticle"))
	articleGroup.DELETE("/:id", controllers.HandleArticleFunc(container, "deleteArticle"))

	// 管理员资料路由
	profileGroup := auth.Group("/admin/profile")
	profileGroup.POST("/update-username", controllers.HandleProfileFunc(container, "updateUsername"))
	profileGroup.POST("/update-email", controllers.HandleProfileFunc(container, "updateEmail"))
	profileGroup.POST("/update-password", controllers.HandleProfileFunc(container, "updatePassword"))
}
