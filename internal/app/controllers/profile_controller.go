package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/MFZ2840/literasi-digital/internal/domain/models"
	"github.com/MFZ2840/literasi-digital/internal/domain/services"
	"github.com/MFZ2840/literasi-digital/internal/domain/services/container"
	"github.com/MFZ2840/literasi-digital/internal/error/code"
	"github.com/MFZ2840/literasi-digital/internal/error/response"
	"github.com/MFZ2840/literasi-digital/pkg/validators"
)

// InterfaceProfileController 定义资料管理控制器接口
type InterfaceProfileController interface {
	UpdateUsername()
	UpdateEmail()
	UpdatePassword()
}

// ProfileController 处理管理员资料变更请求
// 任何资料变更都以当前密码作为统一的再认证门槛
type ProfileController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewProfileController 创建一个新的资料管理控制器
func NewProfileController(ctx *gin.Context, container *container.ServiceContainer) *ProfileController {
	return &ProfileController{
		Ctx:       ctx,
		Container: container,
	}
}

// UpdateUsernameRequest 修改用户名请求
type UpdateUsernameRequest struct {
	Username        string `json:"username" example:"新作者名"`
	CurrentPassword string `json:"currentPassword"`
}

// UpdateEmailRequest 修改邮箱请求
type UpdateEmailRequest struct {
	NewEmail        string `json:"newEmail" example:"new@literasi.local"`
	CurrentPassword string `json:"currentPassword"`
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
	CurrentPassword    string `json:"currentPassword"`
}

// ProfileUpdateResponse 资料变更成功响应
type ProfileUpdateResponse struct {
	Message string             `json:"message"`
	User    models.ProfileInfo `json:"user"`
}

// HandleProfileFunc 返回一个处理资料变更请求的Gin处理函数
func HandleProfileFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewProfileController(ctx, container)

		switch method {
		case "updateUsername":
			controller.UpdateUsername()
		case "updateEmail":
			controller.UpdateEmail()
		case "updatePassword":
			controller.UpdatePassword()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", "")
		}
	}
}

// failValidation 返回第一个表单校验错误
func (c *ProfileController) failValidation(errs []validators.FieldError) {
	first := errs[0]
	response.FailWithMessage(c.Ctx, code.ErrValidation, first.Message, first.Field)
}

// verifyCurrentPassword 取会话用户并验证当前密码
// 表单错误全部排除后才执行哈希比较，密码错误返回401；
// 顺序上保证不借助密码校验结果泄露其他字段是否有效
func (c *ProfileController) verifyCurrentPassword(currentPassword string) (*models.User, bool) {
	userID, ok := sessionUserID(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx)
		return nil, false
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.GetUserByID(userID)
	if err != nil {
		handleServiceError(c.Ctx, err, "获取用户信息失败")
		return nil, false
	}

	if !userService.CheckPassword(currentPassword, user.Password) {
		response.Fail(c.Ctx, code.ErrUserPasswordIncorrect, "currentPassword")
		return nil, false
	}
	return user, true
}

// 1 UpdateUsername 修改用户名
// @Summary      修改用户名
// @Description  验证当前密码后更新显示名；用户名被占用时返回409
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        request body UpdateUsernameRequest true "新用户名及当前密码"
// @Security     BearerAuth
// @Success      200  {object}  ProfileUpdateResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Failure      409  {object}  response.ErrorBody
// @Router       /admin/profile/update-username [post]
func (c *ProfileController) UpdateUsername() {
	var req UpdateUsernameRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", "")
		return
	}

	if errs := validators.ValidateUsernameChange(req.Username, req.CurrentPassword); len(errs) > 0 {
		c.failValidation(errs)
		return
	}

	user, ok := c.verifyCurrentPassword(req.CurrentPassword)
	if !ok {
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	updated, err := userService.UpdateUsername(user.ID, req.Username)
	if err != nil {
		handleServiceError(c.Ctx, err, "更新用户名失败")
		return
	}

	response.Success(c.Ctx, ProfileUpdateResponse{
		Message: "用户名更新成功",
		User:    updated.ToProfileInfo(),
	})
}

// 2 UpdateEmail 修改邮箱
// @Summary      修改邮箱
// @Description  验证当前密码后更新邮箱；邮箱被其他账户使用时返回409
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        request body UpdateEmailRequest true "新邮箱及当前密码"
// @Security     BearerAuth
// @Success      200  {object}  ProfileUpdateResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Failure      409  {object}  response.ErrorBody
// @Router       /admin/profile/update-email [post]
func (c *ProfileController) UpdateEmail() {
	var req UpdateEmailRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", "")
		return
	}

	if errs := validators.ValidateEmailChange(req.NewEmail, req.CurrentPassword); len(errs) > 0 {
		c.failValidation(errs)
		return
	}

	user, ok := c.verifyCurrentPassword(req.CurrentPassword)
	if !ok {
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	updated, err := userService.UpdateEmail(user.ID, req.NewEmail)
	if err != nil {
		handleServiceError(c.Ctx, err, "更新邮箱失败")
		return
	}

	response.Success(c.Ctx, ProfileUpdateResponse{
		Message: "邮箱更新成功",
		User:    updated.ToProfileInfo(),
	})
}

// 3 UpdatePassword 修改密码
// @Summary      修改密码
// @Description  验证当前密码后以相同代价因子重新哈希并存储新密码
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        request body UpdatePasswordRequest true "新密码、确认密码及当前密码"
// @Security     BearerAuth
// @Success      200  {object}  ProfileUpdateResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Router       /admin/profile/update-password [post]
func (c *ProfileController) UpdatePassword() {
	var req UpdatePasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", "")
		return
	}

	// 表单校验先行：新密码不合规时不做任何数据库写入
	if errs := validators.ValidatePasswordChange(req.NewPassword, req.ConfirmNewPassword, req.CurrentPassword); len(errs) > 0 {
		c.failValidation(errs)
		return
	}

	user, ok := c.verifyCurrentPassword(req.CurrentPassword)
	if !ok {
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	updated, err := userService.UpdatePassword(user.ID, req.NewPassword)
	if err != nil {
		handleServiceError(c.Ctx, err, "更新密码失败")
		return
	}

	response.Success(c.Ctx, ProfileUpdateResponse{
		Message: "密码更新成功",
		User:    updated.ToProfileInfo(),
	})
}
