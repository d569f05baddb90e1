package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MFZ2840/literasi-digital/internal/error/code"
)

// ErrorBody 定义统一的错误响应格式
// field在字段级错误（校验、冲突）时携带出错字段名，供前端定位具体输入框
type ErrorBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Success 成功响应，正文直接回显受影响的资源
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 删除成功响应，无正文
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail 失败响应，使用错误码的默认消息
func Fail(c *gin.Context, errorCode int, field string) {
	c.JSON(code.GetStatus(errorCode), ErrorBody{
		Message: code.GetMessage(errorCode),
		Field:   field,
	})
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, errorCode int, message, field string) {
	c.JSON(code.GetStatus(errorCode), ErrorBody{
		Message: message,
		Field:   field,
	})
}

// ParamError 参数错误响应
func ParamError(c *gin.Context, message string) {
	FailWithMessage(c, code.ErrValidation, message, "")
}

// ServerError 服务器错误响应
func ServerError(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrUnknown)
	}
	FailWithMessage(c, code.ErrUnknown, message, "")
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	FailWithMessage(c, code.ErrRecordNotFound, message, "")
}

// Unauthorized 未授权响应
// 注意不暴露资源是否存在等信息
func Unauthorized(c *gin.Context) {
	Fail(c, code.ErrTokenInvalid, "")
}
