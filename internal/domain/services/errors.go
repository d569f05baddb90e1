package services

import "fmt"

// NotFoundError is an error signaling that a record was not found in the
// database
type NotFoundError string

// Error implements the error interface
func (e NotFoundError) Error() string {
	return string(e)
}

// NotFoundErrorFmt returns a NotFoundError from the passed format string and parameters
func NotFoundErrorFmt(format string, params ...any) NotFoundError {
	return NotFoundError(fmt.Sprintf(format, params...))
}

// ConflictError 表示写入与已有记录冲突（顺序槽位、邮箱、用户名）
// Field携带出错的输入字段名，供响应层附带到field属性
type ConflictError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e ConflictError) Error() string {
	return e.Message
}

// ConflictErrorFmt returns a ConflictError on the given field
func ConflictErrorFmt(field, format string, params ...any) ConflictError {
	return ConflictError{Field: field, Message: fmt.Sprintf(format, params...)}
}
