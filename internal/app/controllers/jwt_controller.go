package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/MFZ2840/literasi-digital/internal/app/middleware"
	"github.com/MFZ2840/literasi-digital/internal/domain/models"
	"github.com/MFZ2840/literasi-digital/internal/domain/services"
	"github.com/MFZ2840/literasi-digital/internal/domain/services/container"
	"github.com/MFZ2840/literasi-digital/internal/error/code"
	"github.com/MFZ2840/literasi-digital/internal/error/response"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
	Logout()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@literasi.local"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// LoginResponse 表示登录成功响应
type LoginResponse struct {
	Token string             `json:"token"`
	User  models.ProfileInfo `json:"user"`
}

// HandleJWTFunc 返回一个处理认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "logout":
			controller.Logout()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", "")
		}
	}
}

// Login 处理管理员登录
// @Summary      Admin Login
// @Description  Verify credentials, issue a JWT session token and set it as an HttpOnly cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request parameters"
// @Success      200  {object}  LoginResponse  "Success response with token and user"
// @Failure      400  {object}  response.ErrorBody  "Bad request"
// @Failure      401  {object}  response.ErrorBody  "Invalid credentials"
// @Failure      500  {object}  response.ErrorBody  "Internal server error"
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", "")
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	// 用户不存在和密码错误返回同一错误，不泄露账户是否存在
	user, err := userService.GetUserByEmail(req.Email)
	if err != nil || !userService.CheckPassword(req.Password, user.Password) {
		response.FailWithMessage(c.Ctx, code.ErrUserPasswordIncorrect, "邮箱或密码错误", "")
		return
	}

	token, err := jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		response.ServerError(c.Ctx, "生成令牌失败")
		return
	}

	// 会话cookie：HttpOnly，有效期与令牌一致
	c.Ctx.SetCookie(middleware.AuthCookieName, token, 24*3600, "/", "", false, true)

	response.Success(c.Ctx, LoginResponse{
		Token: token,
		User:  user.ToProfileInfo(),
	})
}

// Logout 退出登录，清除会话cookie
// @Summary      Admin Logout
// @Description  Clear the session cookie
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /auth/logout [post]
func (c *JWTController) Logout() {
	c.Ctx.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
	response.Success(c.Ctx, gin.H{"message": "已退出登录"})
}
