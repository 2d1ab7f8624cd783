package store

import (
	"Renwuquan/internal/models"
	"errors"

	"gorm.io/gorm"
)

// Store 封装了用户表的数据访问。
type Store struct {
	DB *gorm.DB
}

// NewStore 创建一个新的 Store 实例。
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// CreateUser 在数据库中创建一个新用户。
func (s *Store) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

// GetUserByPhone 通过手机号查找用户。
func (s *Store) GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID 通过 ID 查找用户。
func (s *Store) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser 更新用户信息。
func (s *Store) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}
