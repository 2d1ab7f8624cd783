package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MessageType 定义了会话消息的类型。
type MessageType string

const (
	MessageText      MessageType = "TEXT"       // 普通文本
	MessageSystem    MessageType = "SYSTEM"     // 系统通知文本
	MessageRedPacket MessageType = "RED_PACKET" // 红包（表示一笔转账）
)

// RedPacketStatus 定义了红包消息的领取状态。
type RedPacketStatus string

const (
	RedPacketPending RedPacketStatus = "PENDING" // 待领取
	RedPacketClaimed RedPacketStatus = "CLAIMED" // 已领取（结算红包入账即领取）
)

// TaskCompletionStatus 标记"申请结算"消息在 UI 线程中的最终走向。
// 该字段是展示用途，允许在金融事务之外更新。
type TaskCompletionStatus string

const (
	CompletionPending   TaskCompletionStatus = "pending"
	CompletionCompleted TaskCompletionStatus = "completed"
	CompletionRejected  TaskCompletionStatus = "rejected"
	CompletionFailed    TaskCompletionStatus = "failed"
)

// Message 是一条会话内消息。结算流程会产生 RED_PACKET（付款）
// 或 SYSTEM（文字通知）两种消息。
type Message struct {
	gorm.Model

	ConversationID string      `gorm:"size:64;not null;index"`
	SenderID       uint        `gorm:"not null;index"`
	Type           MessageType `gorm:"type:varchar(20);not null"`
	Content        string      `gorm:"type:text"`

	// 红包字段，仅 RED_PACKET 消息使用。
	RedPacketAmount *decimal.Decimal `gorm:"type:decimal(10,2)"`
	RedPacketStatus *RedPacketStatus `gorm:"type:varchar(20)"`

	// 任务结算相关字段。
	TaskID               *uint                 `gorm:"index"`
	TaskCompletionStatus *TaskCompletionStatus `gorm:"type:varchar(20)"`

	Payload datatypes.JSON // 附加结构化内容（附件、语音等）
}

func (Message) TableName() string {
	return "messages"
}

// Conversation 是一个两人会话。主键由双方用户 ID 派生，见 ConversationID。
type Conversation struct {
	ID            string `gorm:"primaryKey;size:64"`
	UserAID       uint   `gorm:"not null;index"`
	UserBID       uint   `gorm:"not null;index"`
	LastMessageAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Conversation) TableName() string {
	return "conversations"
}

// ConversationID 由两个用户 ID 确定性地派生会话 ID：
// 取较小 ID 在前、较大 ID 在后，用下划线连接。
// 同一对用户无论谁发起，得到的会话 ID 相同。
func ConversationID(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}
