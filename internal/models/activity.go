package models

import "gorm.io/gorm"

// ActivityType 定义了动态通知的类型标签。
type ActivityType string

const (
	ActivityTaskCompleted ActivityType = "TASK_COMPLETED" // 任务达标
	ActivityTaskRejected  ActivityType = "TASK_REJECTED"  // 任务未达标
	ActivityTaskFailed    ActivityType = "TASK_FAILED"    // 任务失败
	ActivityTaskRefunded  ActivityType = "TASK_REFUNDED"  // 任务退款结束
)

// Activity 是一条只追加的动态通知记录，结算提交后写入。
// 写入失败只记日志，不影响结算结果。
type Activity struct {
	gorm.Model

	Type         ActivityType `gorm:"type:varchar(32);not null;index"`
	SourceUserID uint         `gorm:"not null;index"` // 发布者（裁决方）
	TargetUserID uint         `gorm:"not null;index"` // 接单人（被通知方）
	TaskID       uint         `gorm:"not null;index"`
	Content      string       `gorm:"size:255"`
}

func (Activity) TableName() string {
	return "activities"
}
