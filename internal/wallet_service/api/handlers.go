package api

import (
	"Renwuquan/internal/models"
	"Renwuquan/internal/wallet_service/service"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler 封装了钱包相关 API endpoint 的处理函数。
type Handler struct {
	service *service.Service
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s *service.Service) *Handler {
	return &Handler{service: s}
}

// RegisterRoutes 把钱包路由挂到指定分组下，全部需要登录。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	wallet := rg.Group("/wallet")
	wallet.Use(auth)
	{
		wallet.GET("/balance", h.Balance)
		wallet.GET("/transactions", h.Transactions)
		wallet.GET("/transactions/export", h.ExportStatement)
		wallet.POST("/pay-password", h.SetPayPassword)
		wallet.POST("/pay-password/verify", h.VerifyPayPassword)
	}
}

func currentUser(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无法获取操作者信息"})
		return 0, false
	}
	return userID.(uint), true
}

// Balance 返回当前用户余额。
func (h *Handler) Balance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	balance, err := h.service.Balance(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance.StringFixed(2)})
}

// Transactions 返回当前用户的流水列表。
func (h *Handler) Transactions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txns, err := h.service.Transactions(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

// ExportStatement 导出当前用户的 xlsx 对账单。
func (h *Handler) ExportStatement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	data, err := h.service.ExportStatement(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="statement.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// PayPasswordRequest 定义了支付密码请求的 JSON 结构。
type PayPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// SetPayPassword 设置支付密码。
func (h *Handler) SetPayPassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req PayPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetPayPassword(userID, req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "支付密码已设置"})
}

// VerifyPayPassword 校验支付密码。
func (h *Handler) VerifyPayPassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req PayPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.VerifyPayPassword(userID, req.Password); err != nil {
		if errors.Is(err, models.ErrPayPasswordMismatch) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
