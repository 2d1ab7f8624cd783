package service

import (
	"Renwuquan/internal/models"
	"fmt"
)

// 任务状态机：OPEN → ACCEPTED → COMPLETION_REQUESTED → {COMPLETED | FAILED | ENDED}。
// 结算引擎只负责最后一跳；进入 COMPLETION_REQUESTED 由 RequestCompletion 产生。
// 终态是吸收态，任何后续结算尝试都以 ErrInvalidTaskState 拒绝。

// authorize 校验操作者身份：只有任务发布者可以裁决。
func authorize(task *models.Task, actorID uint) error {
	if task.OwnerID != actorID {
		return models.ErrForbidden
	}
	return nil
}

// checkPreconditions 校验任务处于可结算状态且有接单人记录。
// 接单人缺失按状态机不变式不应出现，此处是防御性检查。
func checkPreconditions(task *models.Task) error {
	if task.TaskStatus != models.TaskStatusCompletionRequested {
		return fmt.Errorf("%w（当前状态: %s）", models.ErrInvalidTaskState, task.TaskStatus)
	}
	if task.CompletedBy == nil {
		return models.ErrMissingAcceptor
	}
	return nil
}
