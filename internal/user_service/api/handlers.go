package api

import (
	"Renwuquan/internal/models"
	"Renwuquan/internal/user_service/service"
	"Renwuquan/pkg/ratelimiter"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler 封装了认证相关 API endpoint 的处理函数。
type Handler struct {
	service *service.Service
	smsRate ratelimiter.RateLimiter
}

// NewHandler 创建一个新的 Handler 实例。
// smsRate 限制验证码短信的全局下发频率，防止被刷。
func NewHandler(s *service.Service, smsRate ratelimiter.RateLimiter) *Handler {
	return &Handler{service: s, smsRate: smsRate}
}

// RegisterRoutes 把认证路由挂到指定分组下。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/sms-code", h.SendSMSCode)
		authGroup.POST("/login", h.Login)
	}

	users := rg.Group("/users")
	users.Use(auth)
	{
		users.GET("/me", h.Me)
		users.GET("/me/membership", h.Membership)
		users.POST("/me/membership", h.BindMembership)
	}
}

// SendSMSCodeRequest 定义了验证码下发请求的 JSON 结构。
type SendSMSCodeRequest struct {
	Phone string `json:"phone" binding:"required,len=11"`
}

// SendSMSCode 下发登录验证码。
func (h *Handler) SendSMSCode(c *gin.Context) {
	var req SendSMSCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.smsRate.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "验证码请求过于频繁，请稍后再试"})
		return
	}

	if err := h.service.SendLoginCode(c.Request.Context(), req.Phone); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "验证码已发送"})
}

// LoginRequest 定义了验证码登录请求的 JSON 结构。
type LoginRequest struct {
	Phone string `json:"phone" binding:"required,len=11"`
	Code  string `json:"code" binding:"required,len=6"`
}

// Login 校验验证码并签发 JWT。
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.service.LoginWithCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		if errors.Is(err, models.ErrCodeMismatch) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me 返回当前登录用户的档案。
func (h *Handler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Membership 返回当前用户绑定的银豹会员档案。
func (h *Handler) Membership(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	member, err := h.service.Membership(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

// BindMembershipRequest 定义了会员号绑定请求的 JSON 结构。
type BindMembershipRequest struct {
	MemberNo string `json:"memberNo" binding:"required"`
}

// BindMembership 绑定银豹会员号。
func (h *Handler) BindMembership(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req BindMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.service.BindMembership(c.Request.Context(), userID, req.MemberNo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "member": member})
}

func currentUser(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无法获取操作者信息"})
		return 0, false
	}
	return userID.(uint), true
}
