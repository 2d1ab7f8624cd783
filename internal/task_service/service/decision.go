package service

import (
	"Renwuquan/internal/models"
	"fmt"
)

// Decision 是发布者对结算申请的裁决。封闭枚举，
// 未识别的动作字符串在 ParseDecision 处被拒绝，不会流入结算引擎。
type Decision int

const (
	DecisionComplete Decision = iota // 达标：尾款付给接单人
	DecisionReject                   // 未达标：尾款退回发布者，任务照常关闭
	DecisionFail                     // 失败：尾款退回发布者，任务标记失败
	DecisionRefund                   // 退款终止：尾款退回发布者，任务结束
)

// ParseDecision 将动作字符串解析为 Decision。
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "complete":
		return DecisionComplete, nil
	case "reject":
		return DecisionReject, nil
	case "fail":
		return DecisionFail, nil
	case "refund":
		return DecisionRefund, nil
	}
	return 0, fmt.Errorf("%w: %q", models.ErrInvalidDecision, s)
}

func (d Decision) String() string {
	switch d {
	case DecisionComplete:
		return "complete"
	case DecisionReject:
		return "reject"
	case DecisionFail:
		return "fail"
	case DecisionRefund:
		return "refund"
	}
	return "unknown"
}

// outcome 描述一个裁决对应的全部记账后果。
type outcome struct {
	status           models.TaskStatus           // 任务的终态
	payAcceptor      bool                        // true 付给接单人，false 退回发布者
	txType           models.TransactionType      // 钱包流水类型
	activity         models.ActivityType         // 动态通知类型
	completionStatus models.TaskCompletionStatus // "申请结算"消息的展示状态
}

func (d Decision) outcome() outcome {
	switch d {
	case DecisionComplete:
		return outcome{
			status:           models.TaskStatusCompleted,
			payAcceptor:      true,
			txType:           models.TransactionReward,
			activity:         models.ActivityTaskCompleted,
			completionStatus: models.CompletionCompleted,
		}
	case DecisionReject:
		return outcome{
			status:           models.TaskStatusCompleted,
			txType:           models.TransactionRefund,
			activity:         models.ActivityTaskRejected,
			completionStatus: models.CompletionRejected,
		}
	case DecisionFail:
		return outcome{
			status:           models.TaskStatusFailed,
			txType:           models.TransactionRefund,
			activity:         models.ActivityTaskFailed,
			completionStatus: models.CompletionFailed,
		}
	default: // DecisionRefund
		return outcome{
			status:           models.TaskStatusEnded,
			txType:           models.TransactionRefund,
			activity:         models.ActivityTaskRefunded,
			completionStatus: models.CompletionFailed,
		}
	}
}
