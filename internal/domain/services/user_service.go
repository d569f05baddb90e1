package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MFZ2840/literasi-digital/internal/domain/models"
	"github.com/MFZ2840/literasi-digital/internal/infrastructure/config"
)

// bcryptCost 密码哈希代价因子，登录与资料变更共用
const bcryptCost = 12

// InterfaceUserService User服务接口
type InterfaceUserService interface {
	CheckPassword(password, hash string) bool
	HashPassword(password string) (string, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUsername(id uint, username string) (*models.User, error)
	UpdateEmail(id uint, email string) (*models.User, error)
	UpdatePassword(id uint, newPassword string) (*models.User, error)
}

// UserService 提供用户（管理员作者）相关的服务
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService 创建一个新的用户服务
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
	}
}

// 1 CheckPassword 验证密码是否与存储的哈希匹配
func (s *UserService) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// 2 HashPassword 对明文密码进行哈希处理
func (s *UserService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// 3 GetUserByID 根据ID获取用户
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundErrorFmt("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// 4 GetUserByEmail 根据邮箱获取用户
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundErrorFmt("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// 5 UpdateUsername 更新用户名
// 用户名被其他账户占用时返回ConflictError
func (s *UserService) UpdateUsername(id uint, username string) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("name = ? AND id != ?", username, user.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ConflictErrorFmt("username", "该用户名已被其他账户使用")
	}

	if err := s.DB.Model(user).Update("name", username).Error; err != nil {
		return nil, err
	}
	return s.GetUserByID(id)
}

// 6 UpdateEmail 更新邮箱
// 邮箱被其他账户占用时返回ConflictError
func (s *UserService) UpdateEmail(id uint, email string) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	var existing models.User
	err = s.DB.Where("email = ?", email).First(&existing).Error
	if err == nil && existing.ID != user.ID {
		return nil, ConflictErrorFmt("newEmail", "该邮箱已被其他账户使用")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.DB.Model(user).Update("email", email).Error; err != nil {
		// 唯一索引兜底，并发写入同一邮箱时其中一方在此失败
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ConflictErrorFmt("newEmail", "该邮箱已被其他账户使用")
		}
		return nil, err
	}
	return s.GetUserByID(id)
}

// 7 UpdatePassword 哈希并存储新密码
func (s *UserService) UpdatePassword(id uint, newPassword string) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	hashed, err := s.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(user).Update("password", hashed).Error; err != nil {
		return nil, err
	}
	return s.GetUserByID(id)
}
