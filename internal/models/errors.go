package models

import "errors"

// 结算与钱包流程的哨兵错误。handler 层据此映射 HTTP 状态码。
var (
	ErrForbidden           = errors.New("只有任务发布者可以执行此操作")
	ErrTaskNotFound        = errors.New("任务不存在")
	ErrInvalidTaskState    = errors.New("任务当前状态不允许此操作")
	ErrMissingAcceptor     = errors.New("任务没有接单人记录")
	ErrInvalidDecision     = errors.New("无法识别的结算动作")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrCodeMismatch        = errors.New("验证码错误或已过期")
	ErrPayPasswordMismatch = errors.New("支付密码错误")
)
