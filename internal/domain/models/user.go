package models

import "strconv"

// User represents site administrators (authors)
// 用户由运维脚本或启动播种创建，不开放公开注册
type User struct {
	BaseModel
	Email    string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password string  `gorm:"type:varchar(100);not null" json:"-"` // Password hash never exposed in JSON
	Name     *string `gorm:"type:varchar(100)" json:"name"`
	Role     string  `gorm:"type:varchar(50);default:'admin'" json:"role"`

	Articles []Article `gorm:"foreignKey:AuthorID" json:"-"`
}

// AuthorInfo 文章响应中附带的作者投影
// 用户ID在对外接口中统一序列化为字符串
type AuthorInfo struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email string  `json:"email"`
}

// ToAuthorInfo 生成作者投影
func (u *User) ToAuthorInfo() AuthorInfo {
	return AuthorInfo{
		ID:    strconv.FormatUint(uint64(u.ID), 10),
		Name:  u.Name,
		Email: u.Email,
	}
}

// ProfileInfo 资料变更接口返回的用户视图
type ProfileInfo struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email string  `json:"email"`
	Role  string  `json:"role"`
}

// ToProfileInfo 生成资料视图
func (u *User) ToProfileInfo() ProfileInfo {
	return ProfileInfo{
		ID:    strconv.FormatUint(uint64(u.ID), 10),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
