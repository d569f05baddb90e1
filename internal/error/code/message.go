package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:          "成功",
	ErrUnknown:          "未知错误",
	ErrBind:             "请求参数绑定错误",
	ErrValidation:       "请求参数验证错误",
	ErrTokenInvalid:     "Unauthorized",
	ErrMethodNotAllowed: "Method Not Allowed",
	ErrTooManyRequests:  "请求频率过高，请稍后再试",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserPasswordIncorrect: "当前密码错误",
	ErrEmailAlreadyUsed:      "该邮箱已被其他账户使用",
	ErrUsernameAlreadyUsed:   "该用户名已被其他账户使用",

	// 文章相关错误码
	ErrArticleNotFound: "文章不存在",
	ErrOrderConflict:   "同一系列中该顺序已被其他文章占用",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:          StatusOK,
	ErrUnknown:          StatusInternalServerError,
	ErrBind:             StatusBadRequest,
	ErrValidation:       StatusBadRequest,
	ErrTokenInvalid:     StatusUnauthorized,
	ErrMethodNotAllowed: StatusMethodNotAllowed,
	ErrTooManyRequests:  StatusTooManyRequests,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrEmailAlreadyUsed:      StatusConflict,
	ErrUsernameAlreadyUsed:   StatusConflict,

	// 文章相关错误码
	ErrArticleNotFound: StatusNotFound,
	ErrOrderConflict:   StatusConflict,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
