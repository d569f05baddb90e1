package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/MFZ2840/literasi-digital/internal/domain/services/container"
	"github.com/MFZ2840/literasi-digital/internal/error/code"
	"github.com/MFZ2840/literasi-digital/internal/error/response"
)

// InterfaceHealthController 定义健康检查控制器接口
type InterfaceHealthController interface {
	Ping()
	Status()
}

// HealthController 健康检查控制器
type HealthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthController 创建健康检查控制器实例
func NewHealthController(ctx *gin.Context, container *container.ServiceContainer) *HealthController {
	return &HealthController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", "")
		}
	}
}

// 1 Ping 健康检查端点
// @Summary      健康检查
// @Description  用于负载均衡和容器探针的轻量存活检查
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /ping [get]
func (c *HealthController) Ping() {
	response.Success(c.Ctx, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// 2 Status 依赖状态检查
// @Summary      依赖状态检查
// @Description  报告数据库和Redis连接的当前状态
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health/status [get]
func (c *HealthController) Status() {
	dbStatus := "ok"
	if sqlDB, err := c.Container.GetDB().DB(); err != nil {
		dbStatus = "error: " + err.Error()
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
	}

	// Redis为可选依赖，未启用时不算故障
	redisStatus := "disabled"
	if redisService := c.Container.GetRedisService(); redisService != nil {
		redisStatus = "ok"
		if err := redisService.Ping(); err != nil {
			redisStatus = "error: " + err.Error()
		}
	}

	response.Success(c.Ctx, gin.H{
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
