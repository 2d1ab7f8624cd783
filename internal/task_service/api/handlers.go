package api

import (
	"Renwuquan/internal/models"
	"Renwuquan/internal/task_service/service"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler 封装了任务结算相关 API endpoint 的处理函数。
type Handler struct {
	service *service.Service
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s *service.Service) *Handler {
	return &Handler{service: s}
}

// RegisterRoutes 把任务路由挂到指定分组下，全部需要登录。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	tasks := rg.Group("/tasks")
	tasks.Use(auth)
	{
		tasks.GET("/:id", h.GetTask)
		tasks.POST("/:id/request-completion", h.RequestCompletion)
		tasks.POST("/:id/handle-completion", h.HandleCompletion)
		tasks.POST("/:id/handle-task-outcome", h.HandleTaskOutcome)
	}
}

// HandleCompletionRequest 定义了发布者裁决请求的 JSON 结构。
type HandleCompletionRequest struct {
	Action    string `json:"action" binding:"required"`
	MessageID string `json:"messageId"`
}

// HandleCompletion 处理发布者对结算申请的裁决：complete / reject / fail。
func (h *Handler) HandleCompletion(c *gin.Context) {
	h.settle(c, map[string]bool{"complete": true, "reject": true, "fail": true})
}

// HandleTaskOutcome 处理任务终止类裁决：refund / fail。
func (h *Handler) HandleTaskOutcome(c *gin.Context) {
	h.settle(c, map[string]bool{"refund": true, "fail": true})
}

// settle 是两个裁决端点的公共路径，allowed 限定各端点接受的动作集合。
func (h *Handler) settle(c *gin.Context, allowed map[string]bool) {
	taskID, actorID, ok := h.requestIdentity(c)
	if !ok {
		return
	}

	var req HandleCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !allowed[req.Action] {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidDecision.Error()})
		return
	}
	decision, err := service.ParseDecision(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var messageID *uint
	if req.MessageID != "" {
		id, err := strconv.ParseUint(req.MessageID, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的消息 ID 格式"})
			return
		}
		mid := uint(id)
		messageID = &mid
	}

	task, err := h.service.Settle(c.Request.Context(), taskID, actorID, decision, messageID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": settledMessage(decision),
		"post":    task,
	})
}

// GetTask 返回一条任务帖。
func (h *Handler) GetTask(c *gin.Context) {
	taskID, _, ok := h.requestIdentity(c)
	if !ok {
		return
	}

	task, err := h.service.GetTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "post": task})
}

// RequestCompletion 由接单人发起结算申请。
func (h *Handler) RequestCompletion(c *gin.Context) {
	taskID, actorID, ok := h.requestIdentity(c)
	if !ok {
		return
	}

	task, msg, err := h.service.RequestCompletion(c.Request.Context(), taskID, actorID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "结算申请已提交，等待发布者确认",
		"post":      task,
		"messageId": strconv.FormatUint(uint64(msg.ID), 10),
	})
}

// requestIdentity 解析路径中的任务 ID 与中间件注入的用户 ID。
func (h *Handler) requestIdentity(c *gin.Context) (taskID, actorID uint, ok bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的任务 ID 格式"})
		return 0, 0, false
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无法获取操作者信息"})
		return 0, 0, false
	}

	return uint(id), userID.(uint), true
}

// statusFromError 把领域哨兵错误映射为 HTTP 状态码。
func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTaskState),
		errors.Is(err, models.ErrMissingAcceptor),
		errors.Is(err, models.ErrInvalidDecision):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func settledMessage(d service.Decision) string {
	switch d {
	case service.DecisionComplete:
		return "任务已确认完成，尾款已发放给接单人"
	case service.DecisionReject:
		return "任务已判定未达标，尾款已退回"
	case service.DecisionFail:
		return "任务已标记失败，尾款已退回"
	default:
		return "任务已结束，尾款已退回"
	}
}
