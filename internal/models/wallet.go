package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType 定义了钱包流水的类型。
type TransactionType string

const (
	TransactionReward TransactionType = "REWARD" // 任务达标，尾款付给接单人
	TransactionRefund TransactionType = "REFUND" // 尾款退回发布者
)

// TransactionStatus 定义了钱包流水的状态。
// 结算流水在创建时即为 COMPLETED，创建后不可变更（审计凭证）。
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "COMPLETED"
)

// WalletTransaction 是一条只追加的钱包流水记录。
// 每次结算裁决恰好产生一条，金额为零时不产生。
type WalletTransaction struct {
	gorm.Model

	TradeNo     string            `gorm:"uniqueIndex;size:64;not null"` // 业务流水号 (uuid)
	Type        TransactionType   `gorm:"type:varchar(20);not null;index"`
	Amount      decimal.Decimal   `gorm:"type:decimal(10,2);not null"`
	Status      TransactionStatus `gorm:"type:varchar(20);not null"`
	Description string            `gorm:"size:255"`
	FromUserID  *uint             `gorm:"index"`
	ToUserID    *uint             `gorm:"index"`
	TaskID      *uint             `gorm:"index"` // 关联的任务帖
	CompletedAt *time.Time
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
