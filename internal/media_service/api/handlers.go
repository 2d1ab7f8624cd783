package api

import (
	"Renwuquan/internal/media_service/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler 封装了媒体相关 API endpoint 的处理函数。
type Handler struct {
	service *service.Service
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s *service.Service) *Handler {
	return &Handler{service: s}
}

// RegisterRoutes 把媒体路由挂到指定分组下，全部需要登录。
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	media := rg.Group("/media")
	media.Use(auth)
	{
		media.POST("/upload", h.Upload)
		media.POST("/tts", h.SynthesizeVoice)
	}
}

// Upload 处理 multipart 附件上传。
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 file 字段"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	url, err := h.service.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

// SynthesizeVoiceRequest 定义了语音合成请求的 JSON 结构。
type SynthesizeVoiceRequest struct {
	Text  string `json:"text" binding:"required,max=500"`
	Voice string `json:"voice"`
}

// SynthesizeVoice 合成语音消息并返回音频 URL。
func (h *Handler) SynthesizeVoice(c *gin.Context) {
	var req SynthesizeVoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.service.SynthesizeVoice(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}
