package notifier

import (
	"Renwuquan/internal/models"
	"Renwuquan/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

// Emitter 在结算事务提交后记录动态通知、刷新会话时间，
// 并把事件发布到 Kafka 供推送侧消费。全部属于尽力而为的旁路副作用：
// 任何一步失败都只记日志，绝不回滚已落账的金融结果。
type Emitter struct {
	db     *gorm.DB
	writer *kafka.Writer // 可为 nil（Kafka 未启用时事件只落库）
	logger *logger.Logger
}

// New 创建一个 Emitter。writer 传 nil 表示不发布事件。
func New(db *gorm.DB, writer *kafka.Writer, log *logger.Logger) *Emitter {
	return &Emitter{db: db, writer: writer, logger: log}
}

// activityEvent 是发布到 activity 主题的事件载荷。
type activityEvent struct {
	Type         models.ActivityType `json:"type"`
	TaskID       uint                `json:"taskId"`
	SourceUserID uint                `json:"sourceUserId"`
	TargetUserID uint                `json:"targetUserId"`
	OccurredAt   time.Time           `json:"occurredAt"`
}

// TaskSettled 记录结算动态并 bump 会话的 lastMessageAt。
func (e *Emitter) TaskSettled(ctx context.Context, task *models.Task, activityType models.ActivityType) error {
	if task.CompletedBy == nil {
		// 状态机保证结算过的任务必有接单人，此处仅防御。
		return fmt.Errorf("任务 %d 缺少接单人，无法生成动态", task.ID)
	}
	acceptorID := *task.CompletedBy
	now := time.Now()

	activity := &models.Activity{
		Type:         activityType,
		SourceUserID: task.OwnerID,
		TargetUserID: acceptorID,
		TaskID:       task.ID,
		Content:      activityContent(activityType, task.Title),
	}
	if err := e.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("写入动态记录失败: %w", err)
	}

	convID := models.ConversationID(task.OwnerID, acceptorID)
	if err := e.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", convID).
		Update("last_message_at", now).Error; err != nil {
		return fmt.Errorf("刷新会话时间失败: %w", err)
	}

	if e.writer != nil {
		e.publish(ctx, activityEvent{
			Type:         activityType,
			TaskID:       task.ID,
			SourceUserID: task.OwnerID,
			TargetUserID: acceptorID,
			OccurredAt:   now,
		})
	}
	return nil
}

// publish 把事件写入 Kafka。发布失败只记日志。
func (e *Emitter) publish(ctx context.Context, ev activityEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		e.logger.WithError(err).Warn("序列化动态事件失败")
		return
	}
	err = e.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(ev.TaskID), 10)),
		Value: payload,
	})
	if err != nil {
		e.logger.WithField("task_id", ev.TaskID).WithError(err).Warn("发布动态事件到 Kafka 失败")
	}
}

func activityContent(t models.ActivityType, title string) string {
	switch t {
	case models.ActivityTaskCompleted:
		return fmt.Sprintf("任务「%s」已确认完成", title)
	case models.ActivityTaskRejected:
		return fmt.Sprintf("任务「%s」被判定未达标", title)
	case models.ActivityTaskFailed:
		return fmt.Sprintf("任务「%s」已标记失败", title)
	default:
		return fmt.Sprintf("任务「%s」已结束", title)
	}
}
