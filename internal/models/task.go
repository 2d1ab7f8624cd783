package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TaskStatus 定义了悬赏任务的生命周期状态。
// 状态只能单向推进：OPEN → ACCEPTED → COMPLETION_REQUESTED → 终态。
type TaskStatus string

const (
	TaskStatusOpen                TaskStatus = "OPEN"                 // 已发布，等待接单
	TaskStatusAccepted            TaskStatus = "ACCEPTED"             // 已被接单，尾款已冻结
	TaskStatusCompletionRequested TaskStatus = "COMPLETION_REQUESTED" // 接单人已申请结算，等待发布者裁决
	TaskStatusCompleted           TaskStatus = "COMPLETED"            // 发布者已裁决（达标或未达标）
	TaskStatusFailed              TaskStatus = "FAILED"               // 任务失败
	TaskStatusEnded               TaskStatus = "ENDED"                // 任务终止（退款结束）
)

// Terminal 报告该状态是否为吸收态。终态任务拒绝任何后续结算操作。
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusEnded:
		return true
	}
	return false
}

// Task 代表一条悬赏任务帖。任务是帖子的一种，复用 posts 表。
type Task struct {
	gorm.Model

	OwnerID uint   `gorm:"not null;index"` // 发布者（出资方）
	Title   string `gorm:"size:255;not null"`
	Content string `gorm:"type:text"`

	// 接单人。接单前为空；结算动作要求非空。
	CompletedBy *uint `gorm:"index"`

	TaskStatus TaskStatus `gorm:"type:varchar(32);not null;default:'OPEN';index"`

	// 托管的尾款金额。接单时已从发布者余额中扣除，
	// 结算时恰好移动一次：达标付给接单人，否则退回发布者。
	FinalPaymentAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00"`

	FinalPaymentAt        *time.Time // 尾款结算时间
	CompletionConfirmedAt *time.Time // 发布者裁决时间

	Owner    *User `gorm:"foreignKey:OwnerID" json:"-"`
	Acceptor *User `gorm:"foreignKey:CompletedBy" json:"-"`
}

func (Task) TableName() string {
	return "posts"
}
