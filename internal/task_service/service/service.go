package service

import (
	"Renwuquan/internal/models"
	"Renwuquan/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger 是结算引擎依赖的事务性存储契约。
// InTransaction 内发出的所有写操作要么全部提交，要么全部回滚。
type Ledger interface {
	// GetTask 读取一条任务帖，未找到时返回 models.ErrTaskNotFound。
	GetTask(ctx context.Context, id uint) (*models.Task, error)
	// InTransaction 在一个全有或全无的事务边界内执行 fn。
	InTransaction(ctx context.Context, fn func(tx LedgerTx) error) error
	// UpdateMessageCompletionStatus 更新"申请结算"消息的展示状态。
	// 纯展示用途，允许发生在金融事务之外。
	UpdateMessageCompletionStatus(ctx context.Context, messageID uint, status models.TaskCompletionStatus) error
}

// LedgerTx 是单次结算在事务内可用的台账原语。
type LedgerTx interface {
	// GetTaskForUpdate 以行级写锁读取任务，保证并发结算互斥。
	GetTaskForUpdate(id uint) (*models.Task, error)
	// IncrementBalance 以相对增量调整用户余额，避免读后写丢失更新。
	IncrementBalance(userID uint, amount decimal.Decimal) error
	// RecordTransaction 追加一条钱包流水。
	RecordTransaction(txn *models.WalletTransaction) error
	// UpdateTask 部分更新任务字段。
	UpdateTask(id uint, fields map[string]interface{}) error
	// CreateMessage 追加一条会话消息。
	CreateMessage(msg *models.Message) error
}

// Notifier 在结算提交后记录动态通知并刷新会话。尽力而为，失败只记日志。
type Notifier interface {
	TaskSettled(ctx context.Context, task *models.Task, activityType models.ActivityType) error
}

// Service 封装了任务结算的业务逻辑。
type Service struct {
	ledger   Ledger
	notifier Notifier
	logger   *logger.Logger
}

// NewService 创建一个新的 Service 实例。
func NewService(ledger Ledger, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		ledger:   ledger,
		notifier: notifier,
		logger:   log,
	}
}

// GetTask 读取一条任务帖。
func (s *Service) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	return s.ledger.GetTask(ctx, id)
}

// Settle 对一条处于 COMPLETION_REQUESTED 状态的任务执行发布者裁决。
//
// 金融语义在单个原子事务内完成：余额调整、流水、结算消息、任务状态。
// 事务内先以写锁重读任务再校验状态，两个并发结算请求只会有一个成功，
// 另一个会读到终态并收到 ErrInvalidTaskState（不会重复付款）。
//
// messageID 非空时，事务提交后更新原"申请结算"消息的展示状态；
// 动态通知同样在提交后发出。两者失败都不回滚金融结果。
func (s *Service) Settle(ctx context.Context, taskID, actorID uint, decision Decision, messageID *uint) (*models.Task, error) {
	out := decision.outcome()

	var settled *models.Task
	err := s.ledger.InTransaction(ctx, func(tx LedgerTx) error {
		task, err := tx.GetTaskForUpdate(taskID)
		if err != nil {
			return err
		}
		if err := authorize(task, actorID); err != nil {
			return err
		}
		if err := checkPreconditions(task); err != nil {
			return err
		}

		now := time.Now()
		amount := task.FinalPaymentAmount

		// 尾款为零的任务没有资金可移动，但仍需要关闭状态。
		if amount.IsPositive() {
			payee := task.OwnerID
			payer := *task.CompletedBy
			if out.payAcceptor {
				payee, payer = payer, payee
			}

			if err := tx.IncrementBalance(payee, amount); err != nil {
				return err
			}
			if err := tx.RecordTransaction(&models.WalletTransaction{
				TradeNo:     uuid.NewString(),
				Type:        out.txType,
				Amount:      amount,
				Status:      models.TransactionCompleted,
				Description: transactionDescription(decision, task),
				FromUserID:  &payer,
				ToUserID:    &payee,
				TaskID:      &task.ID,
				CompletedAt: &now,
			}); err != nil {
				return err
			}
			if err := tx.CreateMessage(settlementMessage(task, decision, amount)); err != nil {
				return err
			}
			task.FinalPaymentAt = &now
		}

		fields := map[string]interface{}{
			"task_status":             out.status,
			"completion_confirmed_at": now,
		}
		if task.FinalPaymentAt != nil {
			fields["final_payment_at"] = now
		}
		if err := tx.UpdateTask(task.ID, fields); err != nil {
			return err
		}

		task.TaskStatus = out.status
		task.CompletionConfirmedAt = &now
		settled = task
		return nil
	})
	if err != nil {
		// 事务失败意味着一笔金融操作没有落账，带全量上下文记录。
		if !isDomainError(err) {
			s.logger.WithFields(map[string]interface{}{
				"task_id":  taskID,
				"decision": decision.String(),
				"actor_id": actorID,
			}).WithError(err).Error("结算事务失败")
		}
		return nil, err
	}

	// 以下均为提交后的旁路副作用，失败不影响结算结果。
	if messageID != nil {
		if err := s.ledger.UpdateMessageCompletionStatus(ctx, *messageID, out.completionStatus); err != nil {
			s.logger.WithField("message_id", *messageID).WithError(err).Warn("更新结算申请消息状态失败")
		}
	}
	if err := s.notifier.TaskSettled(ctx, settled, out.activity); err != nil {
		s.logger.WithField("task_id", settled.ID).WithError(err).Warn("写入结算动态通知失败")
	}

	return settled, nil
}

// RequestCompletion 由接单人发起结算申请：ACCEPTED → COMPLETION_REQUESTED，
// 并在会话中留下一条申请消息，其 ID 随后可作为 Settle 的 messageID 传回。
func (s *Service) RequestCompletion(ctx context.Context, taskID, actorID uint) (*models.Task, *models.Message, error) {
	var (
		task *models.Task
		msg  *models.Message
	)
	err := s.ledger.InTransaction(ctx, func(tx LedgerTx) error {
		t, err := tx.GetTaskForUpdate(taskID)
		if err != nil {
			return err
		}
		if t.CompletedBy == nil || *t.CompletedBy != actorID {
			return models.ErrForbidden
		}
		if t.TaskStatus != models.TaskStatusAccepted {
			return fmt.Errorf("%w（当前状态: %s）", models.ErrInvalidTaskState, t.TaskStatus)
		}

		pending := models.CompletionPending
		msg = &models.Message{
			ConversationID:       models.ConversationID(t.OwnerID, actorID),
			SenderID:             actorID,
			Type:                 models.MessageText,
			Content:              "我已完成任务，请确认结算",
			TaskID:               &t.ID,
			TaskCompletionStatus: &pending,
		}
		if err := tx.CreateMessage(msg); err != nil {
			return err
		}
		if err := tx.UpdateTask(t.ID, map[string]interface{}{
			"task_status": models.TaskStatusCompletionRequested,
		}); err != nil {
			return err
		}
		t.TaskStatus = models.TaskStatusCompletionRequested
		task = t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return task, msg, nil
}

// settlementMessage 构造结算产生的会话消息：
// 达标为一条自动入账的红包消息，其余为文字系统通知。
func settlementMessage(task *models.Task, decision Decision, amount decimal.Decimal) *models.Message {
	convID := models.ConversationID(task.OwnerID, *task.CompletedBy)
	msg := &models.Message{
		ConversationID: convID,
		SenderID:       task.OwnerID,
		TaskID:         &task.ID,
	}

	if decision == DecisionComplete {
		claimed := models.RedPacketClaimed
		msg.Type = models.MessageRedPacket
		msg.Content = "任务完成奖励"
		msg.RedPacketAmount = &amount
		// 奖励红包表示一笔已入账的转账，创建即已领取。
		msg.RedPacketStatus = &claimed
		return msg
	}

	msg.Type = models.MessageSystem
	switch decision {
	case DecisionReject:
		msg.Content = fmt.Sprintf("任务未达标，尾款 ¥%s 已退回发布者", amount.StringFixed(2))
	case DecisionFail:
		msg.Content = fmt.Sprintf("任务失败，尾款 ¥%s 已退回发布者", amount.StringFixed(2))
	default:
		msg.Content = fmt.Sprintf("任务已结束，尾款 ¥%s 已退回发布者", amount.StringFixed(2))
	}
	return msg
}

func transactionDescription(decision Decision, task *models.Task) string {
	if decision == DecisionComplete {
		return fmt.Sprintf("任务「%s」完成奖励", task.Title)
	}
	return fmt.Sprintf("任务「%s」尾款退回", task.Title)
}

// isDomainError 区分业务拒绝与真正的事务失败，后者才需要告警级日志。
func isDomainError(err error) bool {
	return errors.Is(err, models.ErrForbidden) ||
		errors.Is(err, models.ErrTaskNotFound) ||
		errors.Is(err, models.ErrInvalidTaskState) ||
		errors.Is(err, models.ErrMissingAcceptor) ||
		errors.Is(err, models.ErrInvalidDecision)
}
