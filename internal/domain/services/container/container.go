package container

import (
	"sync"

	"gorm.io/gorm"

	"github.com/MFZ2840/literasi-digital/internal/domain/services"
	"github.com/MFZ2840/literasi-digital/internal/infrastructure/config"
	"github.com/MFZ2840/literasi-digital/pkg/logger"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// 基础服务
	jwtService services.InterfaceJWTService

	// 数据存储服务
	redisService services.InterfaceRedisService

	// 业务服务
	articleService   services.InterfaceArticleService
	userService      services.InterfaceUserService
	contentSanitizer services.InterfaceContentSanitizer

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
// withRedis为false时（如测试环境）不初始化Redis服务，缓存中间件自动退化为直通
func NewServiceContainer(db *gorm.DB, cfg *config.Config, withRedis bool) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices(withRedis)
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices(withRedis bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)

	// 初始化Redis服务
	if withRedis {
		c.redisService = services.NewRedisService(c.config)
		if err := c.redisService.Ping(); err != nil {
			logger.Warning("Redis连接测试失败: %v，公共接口将不使用响应缓存", err)
			c.redisService = nil
		}
	}

	// 初始化业务服务
	c.articleService = services.NewArticleService(c.db, c.config)
	c.userService = services.NewUserService(c.db, c.config)
	c.contentSanitizer = services.NewContentSanitizer()
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "article":
		return c.articleService
	case "user":
		return c.userService
	case "sanitizer":
		return c.contentSanitizer
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig 获取配置
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// GetRedisService 获取Redis服务，未启用时返回nil
func (c *ServiceContainer) GetRedisService() services.InterfaceRedisService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redisService
}
