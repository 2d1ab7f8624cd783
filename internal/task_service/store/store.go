package store

import (
	"Renwuquan/internal/models"
	"Renwuquan/internal/task_service/service"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 基于 GORM 实现 service.Ledger 契约。
type Store struct {
	DB *gorm.DB
}

// NewStore 创建一个新的 Store 实例。
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// GetTask 读取一条任务帖。
func (s *Store) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := s.DB.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// InTransaction 在一个数据库事务内执行 fn。fn 返回错误则整体回滚。
func (s *Store) InTransaction(ctx context.Context, fn func(tx service.LedgerTx) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txStore{db: tx})
	})
}

// UpdateMessageCompletionStatus 更新"申请结算"消息的展示状态。
func (s *Store) UpdateMessageCompletionStatus(ctx context.Context, messageID uint, status models.TaskCompletionStatus) error {
	return s.DB.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", messageID).
		Update("task_completion_status", status).Error
}

// txStore 是绑定到单个事务的台账原语实现。
type txStore struct {
	db *gorm.DB
}

// GetTaskForUpdate 以 SELECT ... FOR UPDATE 读取任务行。
// 持锁期间其他结算事务在此阻塞，提交后重读到终态即被状态门拒绝。
func (t *txStore) GetTaskForUpdate(id uint) (*models.Task, error) {
	var task models.Task
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// IncrementBalance 以 SQL 相对增量调整余额，不经过应用层读改写。
func (t *txStore) IncrementBalance(userID uint, amount decimal.Decimal) error {
	res := t.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// RecordTransaction 追加一条钱包流水。
func (t *txStore) RecordTransaction(txn *models.WalletTransaction) error {
	return t.db.Create(txn).Error
}

// UpdateTask 部分更新任务字段。
func (t *txStore) UpdateTask(id uint, fields map[string]interface{}) error {
	return t.db.Model(&models.Task{}).Where("id = ?", id).Updates(fields).Error
}

// CreateMessage 追加一条会话消息，并确保会话行存在。
func (t *txStore) CreateMessage(msg *models.Message) error {
	a, b := splitConversationID(msg.ConversationID)
	conv := models.Conversation{ID: msg.ConversationID, UserAID: a, UserBID: b}
	if err := t.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&conv).Error; err != nil {
		return err
	}
	return t.db.Create(msg).Error
}

// splitConversationID 还原会话 ID 中的两个用户 ID，与 models.ConversationID 对偶。
func splitConversationID(id string) (uint, uint) {
	var a, b uint
	fmt.Sscanf(id, "%d_%d", &a, &b)
	return a, b
}
