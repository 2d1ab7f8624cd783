package store

import (
	"Renwuquan/internal/models"
	"errors"

	"gorm.io/gorm"
)

// Store 封装了钱包相关的数据访问。流水表只读不改（审计凭证），
// 余额变更只发生在结算台账事务里，这里只有查询。
type Store struct {
	DB *gorm.DB
}

// NewStore 创建一个新的 Store 实例。
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// GetUser 读取用户（取余额与支付密码）。
func (s *Store) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SavePayPassword 更新用户的支付密码哈希。
func (s *Store) SavePayPassword(userID uint, hash string) error {
	return s.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("pay_password", hash).Error
}

// ListTransactions 按时间倒序返回与用户相关的全部流水（收入与支出）。
func (s *Store) ListTransactions(userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	var txns []models.WalletTransaction
	err := s.DB.
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
