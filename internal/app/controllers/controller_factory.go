package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MFZ2840/literasi-digital/internal/domain/services"
	"github.com/MFZ2840/literasi-digital/internal/domain/services/container"
	"github.com/MFZ2840/literasi-digital/internal/error/code"
	"github.com/MFZ2840/literasi-digital/internal/error/response"
	"github.com/MFZ2840/literasi-digital/pkg/logger"
)

// BaseController 是所有控制器的基础接口
type BaseController interface {
	// 获取服务容器
	GetContainer() *container.ServiceContainer
	// 获取Gin上下文
	GetContext() *gin.Context
}

// BaseControllerImpl 是控制器的基础实现
type BaseControllerImpl struct {
	Container *container.ServiceContainer
	Context   *gin.Context
}

// GetContainer 实现 BaseController 接口
func (c *BaseControllerImpl) GetContainer() *container.ServiceContainer {
	return c.Container
}

// GetContext 实现 BaseController 接口
func (c *BaseControllerImpl) GetContext() *gin.Context {
	return c.Context
}

// handleServiceError 把服务层的类型化错误翻译为响应
// 未知错误记录日志后以通用500返回，不向外泄露存储细节
func handleServiceError(ctx *gin.Context, err error, fallbackMessage string) {
	var notFound services.NotFoundError
	if errors.As(err, &notFound) {
		response.NotFound(ctx, notFound.Error())
		return
	}

	var conflict services.ConflictError
	if errors.As(err, &conflict) {
		response.FailWithMessage(ctx, conflictCode(conflict.Field), conflict.Message, conflict.Field)
		return
	}

	logger.Error("%s: %v", fallbackMessage, err)
	response.ServerError(ctx, fallbackMessage)
}

// conflictCode 按出错字段选择冲突错误码（状态码均为409）
func conflictCode(field string) int {
	switch field {
	case "newEmail":
		return code.ErrEmailAlreadyUsed
	case "username":
		return code.ErrUsernameAlreadyUsed
	default:
		return code.ErrOrderConflict
	}
}

// sessionUserID 从上下文中取认证中间件存入的用户ID
func sessionUserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
