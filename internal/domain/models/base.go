package models

import "time"

// BaseModel 所有模型的公共字段
// JSON标签使用camelCase，与对外接口的线上格式保持一致
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
